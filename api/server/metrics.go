// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/luxfi/metric"
)

const (
	endpointLabel = "endpoint"
	methodLabel   = "method"
	codeLabel     = "code"
)

type serverMetrics struct {
	requests metric.CounterVec
	duration metric.GaugeVec
	inflight metric.Gauge
}

func newMetrics(registry metric.Registry) *serverMetrics {
	metricsInstance := metric.NewWithRegistry("", registry)
	return &serverMetrics{
		requests: metricsInstance.NewCounterVec(
			"api_requests_total",
			"Total number of API requests",
			[]string{endpointLabel, methodLabel, codeLabel},
		),
		duration: metricsInstance.NewGaugeVec(
			"api_request_duration_seconds_sum",
			"Total time in seconds spent handling API requests",
			[]string{endpointLabel, methodLabel},
		),
		inflight: metricsInstance.NewGauge(
			"api_requests_inflight",
			"Number of inflight API requests",
		),
	}
}

func (m *serverMetrics) wrapHandler(endpoint string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.inflight.Inc()
		defer m.inflight.Dec()

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		handler.ServeHTTP(recorder, r)

		method := strings.ToLower(r.Method)
		m.requests.With(metric.Labels{
			endpointLabel: endpoint,
			methodLabel:   method,
			codeLabel:     strconv.Itoa(recorder.code),
		}).Inc()
		m.duration.With(metric.Labels{
			endpointLabel: endpoint,
			methodLabel:   method,
		}).Add(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
