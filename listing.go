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
	"bytes"
	"html/template"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
)

// Entry is one child of a listed directory.
type Entry struct {
	Name      string
	IsDir     bool
	SizeBytes uint64 // zero for directories
	LinkPath  string // escaped, from the server root
}

const listingHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Index of {{.Title}}</title></head>
<body>
<h1>Index of {{.Title}}</h1>
{{if .Parent}}<p><a class="parent" href="{{.Parent}}">..</a></p>
{{end}}<ul>
{{range .Entries}}<li>{{if .IsDir}}📁{{else}}📄{{end}} <a href="{{.LinkPath}}"{{if not .IsDir}} title="{{ibytes .SizeBytes}}"{{end}}>{{.Name}}</a>{{if not .IsDir}} - {{.SizeBytes}} bytes{{end}}</li>
{{end}}</ul>
</body>
</html>
`

var listingTemplate = template.Must(template.New("listing").
	Funcs(template.FuncMap{"ibytes": humanize.IBytes}).
	Parse(listingHTML))

type listingPage struct {
	Title   string
	Parent  string
	Entries []Entry
}

// Render returns the HTML index of dir. Links are absolute from the server
// root, so they stay valid whichever directory is being browsed.
func Render(fsys afero.Fs, dir, root string) (string, error) {
	entries, err := ReadEntries(fsys, dir, root)
	if err != nil {
		return "", err
	}
	page := listingPage{Title: displayPath(root, dir), Entries: entries}
	if page.Title != "/" {
		page.Parent = linkPath(root, filepath.Dir(dir))
	}
	var buf bytes.Buffer
	if err := listingTemplate.Execute(&buf, page); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ReadEntries lists the immediate children of dir, sorted by name.
// Any failure fails the whole listing.
func ReadEntries(fsys afero.Fs, dir, root string) ([]Entry, error) {
	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, &EnumerationError{Path: dir, Err: err}
	}
	entries := make([]Entry, 0, len(infos))
	for _, fi := range infos {
		full := filepath.Join(dir, fi.Name())
		if fi.Mode()&os.ModeSymlink != 0 {
			// a link is listed as its target, and only when following it
			// stays below root
			target := Resolve(fsys, root, displayPath(root, full))
			if target.Kind == NotFound {
				continue
			}
			if fi, err = fsys.Stat(target.Path); err != nil {
				continue
			}
		}
		e := Entry{
			Name:     filepath.Base(full),
			IsDir:    fi.IsDir(),
			LinkPath: linkPath(root, full),
		}
		if !e.IsDir {
			e.SizeBytes = uint64(fi.Size())
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// linkPath is name relative to root, escaped per segment and rooted at "/".
func linkPath(root, name string) string {
	rel, err := filepath.Rel(root, name)
	if err != nil || rel == "." {
		return "/"
	}
	segs := strings.Split(filepath.ToSlash(rel), "/")
	for i := range segs {
		segs[i] = url.PathEscape(segs[i])
	}
	return "/" + strings.Join(segs, "/")
}

func displayPath(root, name string) string {
	rel, err := filepath.Rel(root, name)
	if err != nil || rel == "." {
		return "/"
	}
	return "/" + filepath.ToSlash(rel)
}
