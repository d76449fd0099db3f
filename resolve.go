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
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/afero"
)

// Kind classifies a resolved request path.
type Kind int

const (
	// NotFound covers missing paths and paths outside the root
	NotFound Kind = iota
	Directory
	File
)

func (k Kind) String() string {
	switch k {
	case Directory:
		return "directory"
	case File:
		return "file"
	default:
		return "notfound"
	}
}

// Target is the outcome of Resolve. Path is empty for NotFound.
type Target struct {
	Kind Kind
	Path string
}

// Resolve maps a URL path onto the tree below root.
//
// The cleaned path must stay below root both textually and after symlinks
// are evaluated, otherwise the result is NotFound. Only metadata is read.
func Resolve(fsys afero.Fs, root, requestPath string) Target {
	rel := path.Clean(strings.TrimLeft(requestPath, "/"))
	if rel == "." {
		rel = ""
	}
	local := filepath.FromSlash(rel)
	if local != "" && !filepath.IsLocal(local) {
		return Target{Kind: NotFound}
	}

	canon, err := canonicalPath(fsys, filepath.Join(root, local))
	if err != nil || !within(root, canon) {
		return Target{Kind: NotFound}
	}
	fi, err := fsys.Stat(canon)
	if err != nil {
		return Target{Kind: NotFound}
	}
	if fi.IsDir() {
		return Target{Kind: Directory, Path: canon}
	}
	return Target{Kind: File, Path: canon}
}

// ErrUnverifiable is returned when a filesystem cannot tell whether a path
// is a symlink, so containment below the root cannot be checked.
var ErrUnverifiable = errors.New("symlinks cannot be verified on this filesystem")

// maxLinks bounds link expansion, like the kernel's ELOOP limit.
const maxLinks = 255

// canonicalPath returns the absolute name with every symlink evaluated.
// The host filesystem uses filepath.EvalSymlinks; any other afero
// filesystem is walked one segment at a time through afero.Lstater and
// afero.LinkReader.
func canonicalPath(fsys afero.Fs, name string) (string, error) {
	if _, ok := fsys.(*afero.OsFs); ok {
		return filepath.EvalSymlinks(name)
	}
	return evalLinks(fsys, filepath.Clean(name))
}

// evalLinks expands links in an absolute, clean name.
//
// A filesystem that is not an afero.Lstater, or that reads links but could
// not lstat a segment, fails with ErrUnverifiable. MemMapFs neither lstats
// nor reads links and is link free.
func evalLinks(fsys afero.Fs, name string) (string, error) {
	lst, ok := fsys.(afero.Lstater)
	if !ok {
		return "", ErrUnverifiable
	}
	reader, readsLinks := fsys.(afero.LinkReader)
	// absolute targets name host paths, not paths below the base
	_, based := fsys.(*afero.BasePathFs)

	sep := string(filepath.Separator)
	pending := strings.Split(name, sep)
	resolved := sep
	links := 0
	for len(pending) > 0 {
		seg := pending[0]
		pending = pending[1:]
		switch seg {
		case "", ".":
			continue
		case "..":
			resolved = filepath.Dir(resolved)
			continue
		}
		next := filepath.Join(resolved, seg)
		fi, lstatted, err := lst.LstatIfPossible(next)
		if err != nil {
			return "", err
		}
		if !lstatted {
			if readsLinks {
				return "", ErrUnverifiable
			}
			resolved = next
			continue
		}
		if fi.Mode()&os.ModeSymlink == 0 {
			resolved = next
			continue
		}
		if !readsLinks {
			return "", ErrUnverifiable
		}
		if links++; links > maxLinks {
			return "", &os.PathError{Op: "lstat", Path: name, Err: syscall.ELOOP}
		}
		target, err := reader.ReadlinkIfPossible(next)
		if err != nil {
			return "", err
		}
		if filepath.IsAbs(target) {
			if based {
				return "", ErrUnverifiable
			}
			resolved = sep
		}
		pending = append(strings.Split(target, sep), pending...)
	}
	return resolved, nil
}

func within(root, name string) bool {
	rel, err := filepath.Rel(root, name)
	if err != nil {
		return false
	}
	return rel == "." || filepath.IsLocal(rel)
}
