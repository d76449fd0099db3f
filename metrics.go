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
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts served requests. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	bytes    prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dirindex",
			Name:      "requests_total",
			Help:      "Requests served, by resolved target and status code.",
		}, []string{"target", "code"}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dirindex",
			Name:      "file_bytes_total",
			Help:      "File bytes written in 200 responses.",
		}),
	}
	reg.MustRegister(m.requests, m.bytes)
	return m
}

func (m *Metrics) observe(kind Kind, code int, n int) {
	if m == nil {
		return
	}
	m.requests.With(prometheus.Labels{"target": kind.String(), "code": strconv.Itoa(code)}).Inc()
	if n > 0 {
		m.bytes.Add(float64(n))
	}
}
