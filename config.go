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

// Package dirindex serves a directory tree over HTTP.
//
// Requests for a directory get a generated HTML index, requests for a file
// get its bytes. Every path is resolved under a single root directory and
// may never leave it.
//
// Assuming the tree lives in /srv/www:
//
//	cfg, err := dirindex.NewConfig(afero.NewOsFs(), "/srv/www", 8080)
//	if err != nil {
//		log.Fatal(err)
//	}
//	http.ListenAndServe(cfg.Addr(), dirindex.NewHandler(cfg))
package dirindex

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"
)

// ErrInvalidRoot is returned by NewConfig when the root does not exist or is not a directory.
var ErrInvalidRoot = errors.New("invalid root directory")

// Config is built once at startup and shared read-only by every request.
type Config struct {
	fs   afero.Fs
	root string // absolute, symlinks evaluated
	port int
}

// NewConfig verifies root and returns the server configuration.
// A nil fsys means the host filesystem.
func NewConfig(fsys afero.Fs, root string, port int) (*Config, error) {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if port < 0 || port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", port)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidRoot, root, err)
	}
	canon, err := canonicalPath(fsys, abs)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidRoot, root, err)
	}
	fi, err := fsys.Stat(canon)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidRoot, root, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%w %q: not a directory", ErrInvalidRoot, root)
	}
	return &Config{fs: fsys, root: canon, port: port}, nil
}

// Root returns the served directory.
func (c *Config) Root() string { return c.root }

// Port returns the listening port.
func (c *Config) Port() int { return c.port }

// Fs returns the filesystem the root lives on.
func (c *Config) Fs() afero.Fs { return c.fs }

// Addr is the listen address for Port on all interfaces.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.port)
}
