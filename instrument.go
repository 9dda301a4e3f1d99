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

package dce

import "context"

// Metrics is the dispatcher's metrics sink (spec §4.5's "request counters
// and latency histograms"). The root package only depends on this
// interface, not on a metrics library, so instrumentation stays optional —
// the instrument subpackage provides a Prometheus-backed implementation,
// grounded on the teacher's router/metrics_providers.go.
type Metrics interface {
	// ObserveRequest records one finished dispatch: the API id (or "" if
	// resolution failed), the outcome status and the elapsed duration in
	// seconds.
	ObserveRequest(apiID string, status int, seconds float64)
}

// Tracer starts a span around one dispatch. The root package only depends
// on this interface; the instrument subpackage's OpenTelemetry
// implementation is grounded on the teacher's router/tracing.go.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, func(err error))
}

type noopMetrics struct{}

func (noopMetrics) ObserveRequest(string, int, float64) {}

type noopTracer struct{}

func (noopTracer) StartSpan(ctx context.Context, _ string) (context.Context, func(err error)) {
	return ctx, func(error) {}
}
