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
	"path/filepath"
	"syscall"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	fsys := newTestTree(t)

	tests := []struct {
		name string
		path string
		want Target
	}{
		{"empty is root", "", Target{Directory, testRoot}},
		{"slash is root", "/", Target{Directory, testRoot}},
		{"dot is root", "./", Target{Directory, testRoot}},
		{"file", "index.html", Target{File, testRoot + "/index.html"}},
		{"leading slashes", "//index.html", Target{File, testRoot + "/index.html"}},
		{"directory", "docs", Target{Directory, testRoot + "/docs"}},
		{"trailing slash", "docs/", Target{Directory, testRoot + "/docs"}},
		{"nested file", "docs/a.txt", Target{File, testRoot + "/docs/a.txt"}},
		{"collapsed inside root", "docs/../index.html", Target{File, testRoot + "/index.html"}},
		{"missing", "missing", Target{Kind: NotFound}},
		{"missing below file", "index.html/x", Target{Kind: NotFound}},
		{"parent", "..", Target{Kind: NotFound}},
		{"escape to sibling", "../secret", Target{Kind: NotFound}},
		{"escape through subdir", "docs/../../secret", Target{Kind: NotFound}},
		{"escape to etc", "/../etc/passwd", Target{Kind: NotFound}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(fsys, testRoot, tt.path))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "notfound", NotFound.String())
	assert.Equal(t, "directory", Directory.String())
	assert.Equal(t, "file", File.String())
}

// symlinkTree lays out a root on disk with links pointing in and out of it:
//
//	base/secret
//	base/root/docs/a.txt
//	base/root/out       -> base/secret
//	base/root/up        -> base
//	base/root/rel       -> ../secret
//	base/root/alias     -> base/root/docs
//	base/root/relalias  -> docs/a.txt
//	base/root/dangling  -> base/root/nowhere
func symlinkTree(t *testing.T) (base, root string) {
	t.Helper()
	base, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	root = filepath.Join(base, "root")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "a.txt"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(base, "secret"), []byte("TOPSECRET"), 0644))

	if err := os.Symlink(filepath.Join(base, "secret"), filepath.Join(root, "out")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	for link, target := range map[string]string{
		"up":       base,
		"rel":      filepath.Join("..", "secret"),
		"alias":    filepath.Join(root, "docs"),
		"relalias": filepath.Join("docs", "a.txt"),
		"dangling": filepath.Join(root, "nowhere"),
	} {
		require.NoError(t, os.Symlink(target, filepath.Join(root, link)))
	}
	return base, root
}

func TestResolveSymlinks(t *testing.T) {
	_, root := symlinkTree(t)

	filesystems := map[string]afero.Fs{
		"os":            afero.NewOsFs(),
		"read only":     afero.NewReadOnlyFs(afero.NewOsFs()),
		"copy on write": afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(afero.NewOsFs()), afero.NewMemMapFs()),
	}
	tests := []struct {
		name string
		path string
		want Target
	}{
		{"link to outside file", "out", Target{Kind: NotFound}},
		{"relative link to outside file", "rel", Target{Kind: NotFound}},
		{"through link to outside dir", "up/secret", Target{Kind: NotFound}},
		{"link to outside dir", "up", Target{Kind: NotFound}},
		{"link inside root", "alias", Target{Directory, filepath.Join(root, "docs")}},
		{"through link inside root", "alias/a.txt", Target{File, filepath.Join(root, "docs", "a.txt")}},
		{"relative link inside root", "relalias", Target{File, filepath.Join(root, "docs", "a.txt")}},
		{"dangling", "dangling", Target{Kind: NotFound}},
	}
	for fsName, fsys := range filesystems {
		cfg, err := NewConfig(fsys, root, 0)
		require.NoError(t, err, fsName)
		for _, tt := range tests {
			t.Run(fsName+"/"+tt.name, func(t *testing.T) {
				assert.Equal(t, tt.want, Resolve(fsys, cfg.Root(), tt.path))
			})
		}
	}
}

func TestResolveSymlinksBasePath(t *testing.T) {
	base, _ := symlinkTree(t)
	fsys := afero.NewBasePathFs(afero.NewOsFs(), base)
	cfg, err := NewConfig(fsys, "/root", 0)
	require.NoError(t, err)

	// absolute targets are host paths, which the base cannot vouch for
	assert.Equal(t, Target{Kind: NotFound}, Resolve(fsys, cfg.Root(), "out"))
	assert.Equal(t, Target{Kind: NotFound}, Resolve(fsys, cfg.Root(), "alias"))
	assert.Equal(t, Target{Kind: NotFound}, Resolve(fsys, cfg.Root(), "rel"))
	assert.Equal(t, Target{File, "/root/docs/a.txt"}, Resolve(fsys, cfg.Root(), "relalias"))
}

func TestResolveUnverifiable(t *testing.T) {
	_, root := symlinkTree(t)
	fsys := afero.NewCacheOnReadFs(afero.NewOsFs(), afero.NewMemMapFs(), 0)

	_, err := canonicalPath(fsys, filepath.Join(root, "docs"))
	assert.Equal(t, ErrUnverifiable, err)
	assert.Equal(t, Target{Kind: NotFound}, Resolve(fsys, root, "docs/a.txt"))
	assert.Equal(t, Target{Kind: NotFound}, Resolve(fsys, root, "out"))

	_, err = NewConfig(fsys, root, 0)
	assert.True(t, errors.Is(err, ErrInvalidRoot))
}

func TestEvalLinksLoop(t *testing.T) {
	base, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	if err := os.Symlink("b", filepath.Join(base, "a")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	require.NoError(t, os.Symlink("a", filepath.Join(base, "b")))

	_, err = evalLinks(afero.NewReadOnlyFs(afero.NewOsFs()), filepath.Join(base, "a"))
	assert.True(t, errors.Is(err, syscall.ELOOP), "got %v", err)
}
