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

package instrument

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTel implements dce.Tracer over an OpenTelemetry trace.Tracer, grounded
// on the teacher's router/tracing.go span-per-request pattern.
type OTel struct {
	tracer trace.Tracer
}

// NewOTel wraps the named tracer from the global TracerProvider. Passing
// "" defaults to this module's own instrumentation name.
func NewOTel(name string) *OTel {
	if name == "" {
		name = "github.com/idrunk/dce"
	}
	return &OTel{tracer: otel.Tracer(name)}
}

// StartSpan implements dce.Tracer: it opens a span called name (the router
// passes the request path, or "id:<id>" for id routing) and returns a
// closer that records the error, if any, and ends the span.
func (o *OTel) StartSpan(ctx context.Context, name string) (context.Context, func(err error)) {
	spanCtx, span := o.tracer.Start(ctx, name)
	return spanCtx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
