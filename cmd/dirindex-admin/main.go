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

// dirindex-admin command for controlling a running dirindex server
//
//	dirindex-admin -s /tmp/dirindex.socket status
//	dirindex-admin -s /tmp/dirindex.socket telinit 1
//	dirindex-admin -s /tmp/dirindex.socket
//
// With no command, a menu is shown.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	diamond "github.com/aerth/dirindex/lib"
	"github.com/fatih/color"
)

var (
	sock        = flag.String("s", "", "path to admin socket")
	refreshtime = flag.Duration("r", time.Minute*30, "refresh status duration")
	clientname  = "ADMIN" // use linker flag to change at compilation time
	socketpath  string    // use linker flag or CLI flag
)

const (
	cmdStatus = "status"
	cmdQuit   = "quit"
)

func main() {
	flag.Parse()
	if *sock != "" {
		socketpath = *sock
	}
	if socketpath == "" {
		socketpath = os.Getenv("SOCKET")
	}
	if socketpath == "" {
		flag.Usage()
		fmt.Fprintln(os.Stderr, "Need socket flag (dirindex-admin -s /path/to/socket)")
		os.Exit(2)
	}

	client, err := buildClient(socketpath)
	if err != nil {
		notrunning(err)
	}

	if flag.NArg() > 0 { // one command, no menu
		os.Exit(oneshot(os.Stdout, client, flag.Args()))
	}
	doCUI(client)
}

// oneshot sends args as a single command and prints the reply.
func oneshot(w io.Writer, client *diamond.Client, args []string) int {
	reply, err := client.Send(args[0], args[1:]...)
	if reply != "" {
		fmt.Fprintln(w, strings.TrimRight(reply, "\n"))
	}
	if err != nil {
		fmt.Fprintln(w, color.RedString("error:"), err)
		return 1
	}
	return 0
}

func buildClient(socket string) (*diamond.Client, error) {
	client, err := diamond.NewClient(socket)
	if err != nil {
		return nil, err
	}
	client.Name = clientname
	if err := client.Hello(); err != nil {
		return nil, err
	}
	return client, nil
}

func notrunning(err error) {
	fmt.Fprintln(os.Stderr, color.RedString(err.Error()))
	fmt.Fprintln(os.Stderr, "Server might not be running. Fix that first.")
	os.Exit(2)
}
