// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package health serves the result of a health check over HTTP.
package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/luxfi/log"
	"github.com/luxfi/metric"
)

// Checker reports whether a component is healthy. A non-nil error marks it
// unhealthy.
type Checker interface {
	HealthCheck(context.Context) (interface{}, error)
}

type Reply struct {
	Healthy bool        `json:"healthy"`
	Details interface{} `json:"details,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type handler struct {
	log     log.Logger
	checker Checker
	metrics *healthMetrics
}

// NewHandler returns a handler that runs [checker] on every GET request.
// Healthy checks reply 200 and failing checks reply 503.
func NewHandler(log log.Logger, checker Checker, namespace string, registry metric.Registry) (http.Handler, error) {
	m, err := newMetrics(namespace, registry)
	if err != nil {
		return nil, err
	}
	return &handler{
		log:     log,
		checker: checker,
		metrics: m,
	}, nil
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	details, err := h.checker.HealthCheck(r.Context())
	reply := Reply{
		Healthy: err == nil,
		Details: details,
	}
	status := http.StatusOK
	if err != nil {
		reply.Error = err.Error()
		status = http.StatusServiceUnavailable
		h.metrics.failingChecks.WithLabelValues(AllTag).Set(1)
		h.log.Warn("health check failed",
			log.Err(err),
		)
	} else {
		h.metrics.failingChecks.WithLabelValues(AllTag).Set(0)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if err := json.NewEncoder(w).Encode(reply); err != nil {
		h.log.Debug("failed to write health reply",
			log.Err(err),
		)
	}
}
