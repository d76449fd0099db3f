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
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Option configures the handler returned by NewHandler.
type Option func(*handler)

// WithLogger sets the request log. The default discards.
func WithLogger(l *log.Logger) Option {
	return func(h *handler) { h.log = l }
}

// WithMetrics records every response in m.
func WithMetrics(m *Metrics) Option {
	return func(h *handler) { h.metrics = m }
}

type handler struct {
	cfg     *Config
	log     *log.Logger
	metrics *Metrics
}

// NewHandler routes GET and HEAD for every path to the directory tree in cfg.
//
//	404 when the path is missing or leaves the root
//	500 when a listing or file read fails
//	200 otherwise
func NewHandler(cfg *Config, opts ...Option) http.Handler {
	h := &handler{cfg: cfg, log: log.New(io.Discard, "", 0)}
	for _, opt := range opts {
		opt(h)
	}
	r := mux.NewRouter()
	// traversal segments must reach Resolve, not turn into redirects
	r.SkipClean(true)
	r.HandleFunc("/{path:.*}", h.serve).Methods(http.MethodGet, http.MethodHead)
	return r
}

func (h *handler) serve(w http.ResponseWriter, r *http.Request) {
	id := uuid.New().String()
	w.Header().Set("X-Request-Id", id)

	target := Resolve(h.cfg.fs, h.cfg.root, mux.Vars(r)["path"])
	code, n := h.respond(w, target)
	h.metrics.observe(target.Kind, code, n)
	h.log.Printf("%s %s %s -> %d %s", id, r.Method, r.URL.Path, code, target.Kind)
}

func (h *handler) respond(w http.ResponseWriter, target Target) (code int, n int) {
	switch target.Kind {
	case Directory:
		body, err := Render(h.cfg.fs, target.Path, h.cfg.root)
		if err != nil {
			return h.fail(w, err, "listing", target.Path), 0
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, body); err != nil {
			h.log.Printf("error writing listing %s: %v", displayPath(h.cfg.root, target.Path), err)
		}
		return http.StatusOK, 0
	case File:
		b, contentType, err := Respond(h.cfg.fs, target.Path)
		if err != nil {
			return h.fail(w, err, "reading", target.Path), 0
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(b)))
		w.WriteHeader(http.StatusOK)
		written, err := w.Write(b)
		if err != nil {
			h.log.Printf("error writing %s after %d of %d bytes: %v",
				displayPath(h.cfg.root, target.Path), written, len(b), err)
		}
		return http.StatusOK, written
	default:
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return http.StatusNotFound, 0
	}
}

// fail logs the full error and answers 500 naming only the root relative path.
func (h *handler) fail(w http.ResponseWriter, err error, verb, name string) int {
	h.log.Printf("error: %v", err)
	msg := verb + " " + displayPath(h.cfg.root, name) + ": " + cause(err).Error()
	http.Error(w, msg, http.StatusInternalServerError)
	return http.StatusInternalServerError
}
