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

package main

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	diamond "github.com/aerth/dirindex/lib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestServer(t *testing.T) (*diamond.Server, string) {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "admin.sock")
	srv, err := diamond.NewServer(socket)
	require.NoError(t, err)
	srv.Log.SetOutput(io.Discard)
	srv.Config.Name = "admin test"
	t.Cleanup(func() { srv.Runlevel(0) })
	return srv, socket
}

func TestBuildClient(t *testing.T) {
	_, socket := createTestServer(t)

	client, err := buildClient(socket)
	require.NoError(t, err)
	assert.Equal(t, "admin test", client.ServerName)

	_, err = buildClient(filepath.Join(t.TempDir(), "nothing.sock"))
	assert.Error(t, err)
}

func TestOneshot(t *testing.T) {
	srv, socket := createTestServer(t)
	client, err := buildClient(socket)
	require.NoError(t, err)

	var out bytes.Buffer
	assert.Equal(t, 0, oneshot(&out, client, []string{"telinit", "3"}))
	assert.Equal(t, "DONE\n", out.String())
	assert.Equal(t, 3, srv.GetRunlevel())

	out.Reset()
	assert.Equal(t, 0, oneshot(&out, client, []string{"status"}))
	assert.Contains(t, out.String(), "Server Name: admin test")

	out.Reset()
	assert.Equal(t, 1, oneshot(&out, client, []string{"frobnicate"}))
	assert.Contains(t, out.String(), "unknown command")
}

func TestMenuCommand(t *testing.T) {
	for selected, want := range map[string]string{
		"Quit Admin":          cmdQuit,
		"Check Server Status": cmdStatus,
		"Single User Mode":    "telinit 1",
		"Multi User Mode":     "telinit 3",
		" echo hi ":           "echo hi",
		"":                    "",
	} {
		assert.Equal(t, want, menuCommand(selected), selected)
	}
}
