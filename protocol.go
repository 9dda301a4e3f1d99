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

import (
	"context"

	"github.com/idrunk/dce/dcerr"
)

// Protocol adapts one transport to the Router (spec §4.4, §6): it knows
// how to pull a Request out of whatever the transport handed it, and how
// to push a Response (or an error) back out in that transport's native
// shape. Concrete adapters live under proto/http, proto/cli and
// proto/framed (shared by proto/tcp, proto/udp and proto/ws).
//
// Serve is expected to call Router.Dispatch itself: the adapter, not the
// router, owns the transport-specific request/response loop, matching the
// split the teacher draws between router.Router (protocol-agnostic) and
// its net/http-specific ServeHTTP.
type Protocol interface {
	// Name identifies the adapter for logging and metrics, e.g. "http" or
	// "cli".
	Name() string
}

// ErrToResponse converts a dispatch error into a wire-safe Response: an
// Openly *dcerr.Error's message and code are preserved, a Closed one's
// detail and code are dropped in favor of a generic "service unavailable"
// message with status 503, matching spec §4.7's
// two-level error model. Protocol adapters call this when Router.Dispatch
// returns a non-nil error, instead of reimplementing the Openly/Closed
// split themselves.
func ErrToResponse(err error) *Response {
	e := dcerr.Wrap(err)
	status := e.Code
	if status < 100 || status >= 600 {
		status = 500
	}
	msg := e.Message
	if e.Level == dcerr.Closed {
		status = 503
		msg = "service unavailable"
	}
	return &Response{
		Status: status,
		Body:   map[string]any{"error": msg},
	}
}

// handlerContext builds the context.Context a Dispatch call propagates
// down to hooks and the handler, rooted at base (usually context.Background
// for a synchronous adapter, or a request-scoped context carrying a
// deadline for one that supports cancellation).
func handlerContext(base context.Context) context.Context {
	if base == nil {
		return context.Background()
	}
	return base
}
