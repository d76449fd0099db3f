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

package main

import (
	"fmt"
	"strconv"

	diamond "github.com/aerth/dirindex/lib"
)

// config is the config file layout: the server fields plus what to serve.
type config struct {
	diamond.ConfigFields
	Dir  string // directory to serve
	Port int    // used when Addr is empty
}

// flagValues holds command line values; zero means not given.
type flagValues struct {
	dir, addr, socket, unix, metrics string
	port                             int
	debug                            bool
}

// loadConfig layers defaults, the config file, the environment and flags,
// later ones winning.
func loadConfig(path string, lookup func(string) (string, bool), fl flagValues) (config, error) {
	c := config{ConfigFields: diamond.DefaultConfig(), Dir: ".", Port: 8080}
	c.Name = "dirindex"
	if path != "" {
		if err := diamond.ReadConfig(path, &c); err != nil {
			return c, err
		}
	}

	env := map[string]*string{
		"DIR":          &c.Dir,
		"SOCKET":       &c.Socket,
		"SOCKET_HTTP":  &c.SocketHTTP,
		"METRICS_ADDR": &c.MetricsAddr,
	}
	for key, field := range env {
		if v, ok := lookup(key); ok {
			*field = v
		}
	}
	if v, ok := lookup("PORT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("PORT: %v", err)
		}
		c.Port = n
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Dir, fl.dir)
	set(&c.Addr, fl.addr)
	set(&c.Socket, fl.socket)
	set(&c.SocketHTTP, fl.unix)
	set(&c.MetricsAddr, fl.metrics)
	if fl.port != 0 {
		c.Port = fl.port
	}
	if fl.debug {
		c.Debug = true
	}
	return c, diamond.ParseConfig(c.ConfigFields)
}
