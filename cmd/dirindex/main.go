/*
* The MIT License (MIT)
*
* Copyright (c) 2016,2017,2020  aerth <aerth@riseup.net>
*
* Permission is hereby granted, free of charge, to any person obtaining a copy
* of this software and associated documentation files (the "Software"), to deal
* in the Software without restriction, including without limitation the rights
* to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
* copies of the Software, and to permit persons to whom the Software is
* furnished to do so, subject to the following conditions:
*
* The above copyright notice and this permission notice shall be included in all
* copies or substantial portions of the Software.
*
* THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
* IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
* FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
* AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
* LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
* OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
* SOFTWARE.
 */

// command dirindex serves a directory tree over http
//
//	dirindex -dir ~/public_html -port 8080 -s /tmp/dirindex.socket
//
// The admin socket accepts commands from dirindex-admin.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/aerth/dirindex"
	diamond "github.com/aerth/dirindex/lib"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"
)

var (
	dir        = flag.String("dir", "", "directory to serve (default \".\")")
	port       = flag.Int("port", 0, "port to listen on (default 8080)")
	httpaddr   = flag.String("http", "", "listen on IP:port or :port, overrides -port")
	socketpath = flag.String("s", "", "path to admin socket")
	unixpath   = flag.String("unix", "", "also serve http on this unix socket")
	metrics    = flag.String("metrics", "", "serve prometheus metrics on IP:port")
	configpath = flag.String("conf", "", "path to JSON or TOML config")
	debug      = flag.Bool("v", false, "verbose logs")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("error loading .env file: %v", err)
	}

	fl := flagValues{
		dir:     *dir,
		addr:    *httpaddr,
		socket:  *socketpath,
		unix:    *unixpath,
		metrics: *metrics,
		port:    *port,
		debug:   *debug,
	}
	// 'dirindex <directory>' works too
	if fl.dir == "" && flag.NArg() > 0 {
		fl.dir = flag.Arg(0)
	}
	cfg, err := loadConfig(*configpath, os.LookupEnv, fl)
	if err != nil {
		fatal(err)
	}

	root, err := dirindex.NewConfig(afero.NewOsFs(), cfg.Dir, cfg.Port)
	if err != nil {
		fatal(err)
	}

	srv, err := newServer(cfg, root)
	if err != nil {
		fatal(err)
	}
	srv.HandleSignals()
	if err := srv.Runlevel(cfg.Level); err != nil {
		srv.Runlevel(0)
		fatal(err)
	}

	color.New(color.FgGreen, color.Bold).Printf("⋄ serving %s", root.Root())
	for _, addr := range srv.Addrs() {
		fmt.Printf(" on %s", color.CyanString(addr.String()))
	}
	fmt.Println()
	if cfg.Socket != "" {
		fmt.Printf("admin: dirindex-admin -s %s\n", cfg.Socket)
	}
	srv.Wait()
}

// newServer wires the directory handler and its listeners into a diamond server.
func newServer(cfg config, root *dirindex.Config) (*diamond.Server, error) {
	if cfg.Kicks && cfg.Socket != "" {
		if reply, err := diamond.Kick(cfg.Socket); err == nil {
			log.Printf("kicked old server: %s", reply)
			waitGone(cfg.Socket, 3*time.Second)
		}
	}

	srv, err := diamond.NewServer(cfg.Socket)
	if err != nil {
		return nil, err
	}
	*srv.Config = cfg.ConfigFields
	srv.Log.SetPrefix("[dirindex] ")
	if cfg.Debug {
		srv.Log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	handler := dirindex.NewHandler(root,
		dirindex.WithLogger(srv.Log),
		dirindex.WithMetrics(dirindex.NewMetrics(reg)),
	)
	if err := srv.SetHandler(handler); err != nil {
		return nil, err
	}

	addr := cfg.Addr
	if addr == "" {
		addr = root.Addr()
	}
	listeners := [][2]string{{"tcp", addr}}
	if cfg.SocketHTTP != "" {
		listeners = append(listeners, [2]string{"unix", cfg.SocketHTTP})
	}
	for _, l := range listeners {
		if _, err := srv.AddListener(l[0], l[1]); err != nil {
			return nil, err
		}
	}
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		if _, err := srv.AddHTTPHandler("tcp", cfg.MetricsAddr, mux); err != nil {
			return nil, err
		}
	}
	return srv, nil
}

func waitGone(path string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return
		}
		<-time.After(50 * time.Millisecond)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, color.RedString("fatal:"), err)
	os.Exit(111)
}
