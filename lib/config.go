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
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigFields as seen in s.Config. Fields are exported so they can be read
// from a JSON or TOML config file; keys match field names case-insensitively.
type ConfigFields struct {
	Name        string // user friendly name
	Addr        string // :8080 (Short for 0.0.0.0:8080) or 127.0.0.1:8080 (Only localhost)
	Socket      string // path of admin socket to create (/tmp/diamond.sock)
	SocketHTTP  string // if nonempty, also serve http on this unix socket
	MetricsAddr string // if nonempty, serve metrics here
	Level       int    // runlevel to enter at start, 1 or 3
	Debug       bool
	Kicks       bool // kick the server holding Socket before starting
	Kickable    bool // able to be kicked
}

// DefaultConfig is the config of a new server
func DefaultConfig() ConfigFields {
	return ConfigFields{
		Name:     "Diamond ⋄ " + version,
		Level:    3,
		Kickable: true,
	}
}

// ReadConfig decodes the file at path into v, as TOML when the extension
// is .toml and as JSON otherwise.
func ReadConfig(path string, v interface{}) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		return errors.New("Empty: " + path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(b), v); err != nil {
			return fmt.Errorf("%s: %v", path, err)
		}
	default:
		if err := json.Unmarshal(b, v); err != nil {
			return fmt.Errorf("%s: %v", path, err)
		}
	}
	return nil
}

// ParseConfig checks the fields that would only fail once the server is running.
func ParseConfig(c ConfigFields) error {
	var errs []string
	for _, addr := range []string{c.Addr, c.MetricsAddr} {
		if addr == "" {
			continue
		}
		if _, err := net.ResolveTCPAddr("tcp", addr); err != nil {
			errs = append(errs, err.Error())
		}
	}
	for _, sock := range []string{c.Socket, c.SocketHTTP} {
		if sock == "" {
			continue
		}
		if fi, err := os.Stat(sock); err == nil && fi.IsDir() {
			errs = append(errs, fmt.Sprintf("socket %q is a directory", sock))
		}
	}
	if c.Level != 3 && c.Level != 1 {
		errs = append(errs, fmt.Sprintf("incorrect default runlevel %d, try 1 or 3", c.Level))
	}
	if len(errs) != 0 {
		return errors.New(strings.Join(errs, " AND "))
	}
	return nil
}
