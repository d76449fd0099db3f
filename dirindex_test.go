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

package dirindex

import (
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const testRoot = "/srv/www"

// newTestTree builds the example tree:
//
//	/srv/www/index.html  (12 bytes)
//	/srv/www/docs/a.txt
//	/srv/secret          (outside the root)
func newTestTree(t *testing.T) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll(testRoot+"/docs", 0755))
	require.NoError(t, afero.WriteFile(fsys, testRoot+"/index.html", []byte("<p>hello</p>"), 0644))
	require.NoError(t, afero.WriteFile(fsys, testRoot+"/docs/a.txt", []byte("a"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/srv/secret", []byte("nope"), 0600))
	return fsys
}

func newTestConfig(t *testing.T, fsys afero.Fs) *Config {
	t.Helper()
	cfg, err := NewConfig(fsys, testRoot, 8080)
	require.NoError(t, err)
	return cfg
}

// failingFs fails Open for one name, as if it vanished or lost permissions
// after Resolve looked at it.
type failingFs struct {
	afero.Fs
	name string
	err  error
}

func (f failingFs) Open(name string) (afero.File, error) {
	if name == f.name {
		return nil, &os.PathError{Op: "open", Path: name, Err: f.err}
	}
	return f.Fs.Open(name)
}

func (f failingFs) LstatIfPossible(name string) (os.FileInfo, bool, error) {
	return f.Fs.(afero.Lstater).LstatIfPossible(name)
}
