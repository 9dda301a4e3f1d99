// Copyright 2025 The DCE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package instrument provides optional dce.Metrics and dce.Tracer
// implementations backed by real observability libraries, grounded on the
// teacher's router/metrics_providers.go and router/tracing.go. Neither the
// root dce package nor dce.Router import this package directly — an
// application opts in with dce.WithMetrics(instrument.NewPrometheus())
// and/or dce.WithTracer(instrument.NewOTel(...)).
package instrument

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements dce.Metrics with two client_golang collectors: a
// request counter and a latency histogram, both labeled by api and status.
type Prometheus struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewPrometheus registers its collectors against the default registerer
// and returns a ready-to-use Prometheus metrics sink.
func NewPrometheus() *Prometheus {
	return NewPrometheusWith(prometheus.DefaultRegisterer)
}

// NewPrometheusWith registers against a caller-supplied registerer, useful
// for tests that don't want to pollute the global default registry.
func NewPrometheusWith(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dce",
			Name:      "requests_total",
			Help:      "Total dispatched requests by api id and status.",
		}, []string{"api", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dce",
			Name:      "request_duration_seconds",
			Help:      "Dispatch latency by api id and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"api", "status"}),
	}
	reg.MustRegister(p.requests, p.latency)
	return p
}

// ObserveRequest implements dce.Metrics.
func (p *Prometheus) ObserveRequest(apiID string, status int, seconds float64) {
	if apiID == "" {
		apiID = "unresolved"
	}
	labels := prometheus.Labels{"api": apiID, "status": strconv.Itoa(status)}
	p.requests.With(labels).Inc()
	p.latency.With(labels).Observe(seconds)
}
