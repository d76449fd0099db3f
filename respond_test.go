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
	"mime"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mediaType(t *testing.T, contentType string) string {
	t.Helper()
	mt, _, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	return mt
}

func TestContentType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"index.html", "text/html"},
		{"data.json", "application/json"},
		{"style.css", "text/css"},
		{"logo.png", "image/png"},
		{"UPPER.HTML", "text/html"},
		{"README", "text/plain"},
		{"archive.unknownext", "text/plain"},
		{"dir.d/noext", "text/plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mediaType(t, ContentType(tt.name)))
		})
	}
	assert.Equal(t, FallbackContentType, ContentType("README"))
}

func TestRespond(t *testing.T) {
	fsys := newTestTree(t)

	b, contentType, err := Respond(fsys, testRoot+"/index.html")
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", string(b))
	assert.Equal(t, "text/html", mediaType(t, contentType))
}

func TestRespondReadFailure(t *testing.T) {
	fsys := failingFs{Fs: newTestTree(t), name: testRoot + "/index.html", err: os.ErrNotExist}

	b, contentType, err := Respond(fsys, testRoot+"/index.html")
	assert.Nil(t, b)
	assert.Empty(t, contentType)

	var readErr *ReadError
	require.True(t, errors.As(err, &readErr), "got %T", err)
	assert.Equal(t, testRoot+"/index.html", readErr.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, os.ErrNotExist, cause(err))
}
