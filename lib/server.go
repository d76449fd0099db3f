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

// Package diamond adds runlevels to a web application
/*

	0 is off

	1 is single user, only the admin socket is listening

	3 is multiuser, http listener(s) are open

Assuming your http.Handler is named mux, this is how to create a new diamond server:

	s, err := diamond.NewServer("/tmp/dirindex.socket")
	s.SetHandler(mux)
	s.AddListener("tcp", ":8080")
	s.Runlevel(3)
	s.Wait()

*/
package diamond

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/rpc"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"
)

var version = "0.7"

const (
	// CHMODDIR default permissions for the socket directory
	CHMODDIR = 0750

	// CHMODFILE default permissions for the admin socket
	CHMODFILE = 0660
)

// ErrHalted is returned by Runlevel once the server reached runlevel 0.
var ErrHalted = errors.New("diamond: server halted")

// RunlevelFunc is called after the built-in part of a runlevel shift.
type RunlevelFunc func() error

// Server switches its listeners on and off by runlevel
type Server struct {
	Config *ConfigFields
	Log    *log.Logger

	handler         http.Handler
	listeners       []*listener
	controlSocket   string // path to socket
	controlListener net.Listener
	runlevels       map[int]RunlevelFunc
	level           int
	halted          bool
	locklevel       sync.Mutex // guards everything above
	counters        mucount
	since           time.Time
	done            chan struct{}
}

// NewServer creates a server in runlevel 1.
// A non-empty socket is the path of the admin socket, which must not exist yet.
func NewServer(socket string) (*Server, error) {
	if socket != "" {
		if _, err := os.Stat(socket); err == nil {
			return nil, fmt.Errorf("socket %q already exists, delete if you want", socket)
		}
	}

	cfg := DefaultConfig()
	cfg.Socket = socket
	srv := &Server{
		Config:        &cfg,
		Log:           log.New(os.Stderr, "[diamond] ", log.LstdFlags),
		handler:       http.NotFoundHandler(),
		controlSocket: socket,
		runlevels:     make(map[int]RunlevelFunc),
		level:         1,
		counters:      mucount{m: make(map[string]uint64)},
		since:         time.Now(),
		done:          make(chan struct{}),
	}

	if socket == "" {
		return srv, nil
	}
	if err := srv.listenControlSocket(); err != nil {
		return nil, err
	}
	return srv, nil
}

// SetRunlevel installs fn to run when entering level.
// Levels other than 0, 1 and 3 only exist once they have a hook.
func (s *Server) SetRunlevel(level int, fn RunlevelFunc) {
	s.locklevel.Lock()
	defer s.locklevel.Unlock()
	s.runlevels[level] = fn
}

// GetRunlevel returns the current runlevel
func (s *Server) GetRunlevel() int {
	s.locklevel.Lock()
	defer s.locklevel.Unlock()
	return s.level
}

// SetHandler replaces the default handler. Listeners that are already open
// keep the old one until the next shift to runlevel 3.
func (s *Server) SetHandler(h http.Handler) error {
	if h == nil {
		return fmt.Errorf("nil handler")
	}
	s.locklevel.Lock()
	defer s.locklevel.Unlock()
	s.handler = h
	return nil
}

// Runlevel shifts gears.
//
//	0 closes every listener and the admin socket, then releases Wait
//	1 closes the http listeners
//	3 opens the http listeners
//
// A hook installed with SetRunlevel runs after the shift, without the
// server lock held, so it may call back into the server.
func (s *Server) Runlevel(level int) error {
	fn, err := s.shift(level)
	switch {
	case err == errNoRunlevel:
		return fmt.Errorf(`runlevel "%v" does not exist`, level)
	case err == ErrHalted:
		return err
	case level == 0:
		// halted even when closing failed
		defer close(s.done)
	case err != nil:
		return err
	}
	if fn != nil {
		if herr := fn(); herr != nil {
			return herr
		}
	}
	return err
}

var errNoRunlevel = errors.New("no such runlevel")

// shift does the built-in part of Runlevel and returns the hook to run.
func (s *Server) shift(level int) (RunlevelFunc, error) {
	s.locklevel.Lock()
	defer s.locklevel.Unlock()
	if s.halted {
		return nil, ErrHalted
	}
	fn := s.runlevels[level]

	s.Log.Printf("entering runlevel %d from %d", level, s.level)
	var err error
	switch level {
	case 0:
		err = s.closelisteners()
		if s.controlListener != nil {
			if e := s.controlListener.Close(); e != nil {
				s.Log.Println("error closing admin socket:", e)
			}
		}
		s.halted = true
	case 1:
		err = s.closelisteners()
	case 3:
		err = s.openlisteners()
	default:
		if fn == nil {
			return nil, errNoRunlevel
		}
	}
	if err != nil && level != 0 {
		return nil, err
	}
	s.level = level
	return fn, err
}

// Wait blocks until runlevel 0
func (s *Server) Wait() {
	<-s.done
}

// HandleSignals shifts to runlevel 0 on SIGINT, SIGHUP, SIGQUIT or SIGTERM.
func (s *Server) HandleSignals() {
	quitchan := make(chan os.Signal, 1)
	signal.Notify(quitchan, os.Interrupt, syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGTERM)
	go func() {
		sig := <-quitchan
		signal.Stop(quitchan)
		s.Log.Println("got signal:", sig.String())
		if err := s.Runlevel(0); err != nil {
			s.Log.Println(err)
		}
	}()
}

func (s *Server) listenControlSocket() error {
	path := s.controlSocket
	if err := os.MkdirAll(filepath.Dir(path), CHMODDIR); err != nil {
		return fmt.Errorf("diamond: Could not create service path: %v", err)
	}
	l, err := net.Listen("unix", path)
	if err != nil {
		return fmt.Errorf("diamond: Could not listen on unix domain socket %q: %v", path, err)
	}
	if err := os.Chmod(path, CHMODFILE); err != nil {
		l.Close()
		return fmt.Errorf("diamond: Could not change permissions on socket file: %v", err)
	}

	r := rpc.NewServer()
	if err := r.RegisterName("Packet", &packet{parent: s}); err != nil {
		l.Close()
		return fmt.Errorf("diamond: %v", err)
	}
	s.controlListener = l

	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				if !strings.Contains(err.Error(), "use of closed network connection") {
					s.Log.Printf("admin socket: %v", err)
				}
				return
			}
			if s.Config.Debug {
				s.Log.Printf("admin socket connection: %s", time.Now().Format(time.Kitchen))
			}
			go func() {
				r.ServeConn(conn)
				conn.Close()
			}()
		}
	}()
	return nil
}

// mucount is a map[string]uint64 counter
type mucount struct {
	m  map[string]uint64
	mu sync.Mutex // guards map
}

func (m *mucount) Up(t ...string) (current uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, i := range t {
		m.m[i]++
		current = m.m[i]
	}
	return
}

func (m *mucount) Down(t ...string) (current uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, i := range t {
		if m.m[i] >= 1 {
			m.m[i]--
		}
		current = m.m[i]
	}
	return
}

func (m *mucount) Uint64(t string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.m[t]
}
