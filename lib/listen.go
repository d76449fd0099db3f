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
	"net"
	"net/http"
	"time"
)

type listener struct {
	ltype    string       // tcp or unix
	laddr    string       // host:port or socket path
	handler  http.Handler // nil serves the server handler
	listener net.Listener // nil while closed
	srv      *http.Server
}

func (l *listener) String() string {
	return l.ltype + "://" + l.laddr
}

// AddListener registers an http listener serving the server handler.
// It opens on the next shift to runlevel 3 and returns the number of listeners.
func (s *Server) AddListener(ltype, laddr string) (int, error) {
	return s.AddHTTPHandler(ltype, laddr, nil)
}

// AddHTTPHandler is AddListener with its own handler, used for side
// endpoints such as metrics.
func (s *Server) AddHTTPHandler(ltype, laddr string, h http.Handler) (int, error) {
	switch ltype {
	case "tcp", "unix":
	default:
		return 0, fmt.Errorf("unsupported listener type %q", ltype)
	}
	if laddr == "" {
		return 0, fmt.Errorf("empty %s address", ltype)
	}
	s.locklevel.Lock()
	defer s.locklevel.Unlock()
	s.listeners = append(s.listeners, &listener{ltype: ltype, laddr: laddr, handler: h})
	return len(s.listeners), nil
}

// Addrs returns the addresses of the open listeners.
func (s *Server) Addrs() []net.Addr {
	s.locklevel.Lock()
	defer s.locklevel.Unlock()
	var addrs []net.Addr
	for _, l := range s.listeners {
		if l.listener != nil {
			addrs = append(addrs, l.listener.Addr())
		}
	}
	return addrs
}

// openlisteners is called with locklevel held.
func (s *Server) openlisteners() error {
	var errors int
	for _, l := range s.listeners {
		if l.listener != nil {
			continue
		}
		ln, err := net.Listen(l.ltype, l.laddr)
		if err != nil {
			s.Log.Printf("error opening %s: %v", l, err)
			errors++
			continue
		}
		h := l.handler
		if h == nil {
			h = s.handler
		}
		l.listener = ln
		l.srv = &http.Server{
			Handler:           h,
			ConnState:         s.connState,
			ErrorLog:          s.Log,
			ReadHeaderTimeout: 10 * time.Second,
		}
		s.Log.Printf("serving http on %s", ln.Addr())
		go func(srv *http.Server, ln net.Listener, name string) {
			if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
				s.Log.Printf("error serving %s: %v", name, err)
			}
		}(l.srv, ln, l.String())
	}
	// any number of errors is an error
	if errors != 0 {
		return fmt.Errorf("%v errors, check log for details", errors)
	}
	return nil
}

// closelisteners is called with locklevel held.
func (s *Server) closelisteners() error {
	var errors int
	for _, l := range s.listeners {
		if l.srv == nil {
			continue
		}
		s.Log.Println("closing listener:", l)
		if err := l.srv.Close(); err != nil {
			s.Log.Println("error closing", l.String()+":", err)
			errors++
		}
		l.srv, l.listener = nil, nil
	}
	if errors != 0 {
		return fmt.Errorf("%v errors, check log for details", errors)
	}
	return nil
}

// connState counts connections for Status
func (s *Server) connState(c net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.counters.Up("active", "total")
	case http.StateHijacked, http.StateClosed:
		s.counters.Down("active")
	}
}
