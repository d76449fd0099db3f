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

package diamond

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Human readable
func listnstr(i int) string {
	if i >= 3 {
		return "Listening"
	}
	return "Not Listening"
}

// String returns diamond version
func (s *Server) String() string {
	return version
}

// Status returns a status report string
func (s *Server) Status() string {
	if s == nil {
		return ""
	}
	var out strings.Builder
	fmt.Fprintf(&out, "Server Name: %s\n", s.Config.Name)
	fmt.Fprintf(&out, "Diamond Version: %s\n", version)
	fmt.Fprintf(&out, "Default Runlevel: %v\n", s.Config.Level)
	s.locklevel.Lock()
	fmt.Fprintf(&out, "Current Runlevel: %v (%s)\n", s.level, listnstr(s.level))
	for _, l := range s.listeners {
		state := "closed"
		if l.listener != nil {
			state = "open " + l.listener.Addr().String()
		}
		fmt.Fprintf(&out, "Listener: %s (%s)\n", l, state)
	}
	s.locklevel.Unlock()
	fmt.Fprintf(&out, "Socket: %s\n", s.Config.Socket)
	fmt.Fprintf(&out, "Uptime: %s (since %s)\n", s.Uptime().Round(time.Second), humanize.Time(s.since))
	fmt.Fprintf(&out, "Active Connections: %s\n", humanize.Comma(int64(s.CountConnectionsActive())))
	fmt.Fprintf(&out, "Total Connections: %s\n", humanize.Comma(int64(s.CountConnectionsTotal())))
	if s.Config.Debug {
		fmt.Fprintf(&out, "Debug: %v\n", s.Config.Debug)
		if wd, _ := os.Getwd(); wd != "" {
			fmt.Fprintf(&out, "Working Directory: %s\n", wd)
		}
		if exe, _ := os.Executable(); exe != "" {
			fmt.Fprintf(&out, "Executable: %s\n", exe)
		}
	}
	return out.String()
}

// Uptime returns duration since NewServer
func (s *Server) Uptime() time.Duration {
	return time.Since(s.since)
}

// CountConnectionsActive returns the number of open http connections
func (s *Server) CountConnectionsActive() uint64 {
	return s.counters.Uint64("active")
}

// CountConnectionsTotal returns the number of http connections since NewServer
func (s *Server) CountConnectionsTotal() uint64 {
	return s.counters.Uint64("total")
}

// Kick asks the server holding socket to halt, so a new one can take its place.
func Kick(socket string) (string, error) {
	client, err := NewClient(socket)
	if err != nil {
		return "", err
	}
	return client.Send("kick")
}
