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

// Package dcerr implements the framework's two-level error model (spec §4.7,
// §7): every error the dispatcher surfaces is either Openly (echoed to the
// caller) or Closed (never echoed — the caller sees a generic failure).
// Neither the router nor the protocol adapters log errors of either
// level. The split and the
// status-resolution indirection are grounded on the teacher's
// rivaas.dev/errors package (errors/simple.go's StatusResolver hook,
// errors/rfc9457.go's code+message+details shape).
package dcerr

import (
	"errors"
	"fmt"
)

// Level distinguishes whether an Error is safe to expose to the caller.
type Level int

const (
	// Openly errors are echoed to the client; an unresponsive API still
	// surfaces them.
	Openly Level = iota
	// Closed errors are never echoed; the caller sees a generic "service
	// unavailable" instead.
	Closed
)

func (l Level) String() string {
	if l == Closed {
		return "closed"
	}
	return "openly"
}

// Error is the framework's canonical error shape: a level, a numeric code,
// a human message, and an optional wrapped cause.
//
// dce.ErrToResponse maps an Openly error's Code to the response status when
// 100 <= Code < 600 (500 otherwise) and every Closed error to 503. Framed
// protocols send that Response's {"error": message} body encoded with the
// request's codec, like any other reply; no "{code}: {message}" text form
// is produced.
type Error struct {
	Level   Level
	Code    int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%d): %s: %v", e.Level, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%d): %s", e.Level, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NotFound builds an Openly 404 error — spec §7's "no API matched or method
// filter excluded all candidates".
func NotFound(message string) *Error {
	return &Error{Level: Openly, Code: 404, Message: message}
}

// BadRequest builds an Openly error with the given code (code should be
// >= 400) — deserialization failures, missing required captures, or a
// handler-raised Openly error.
func BadRequest(code int, message string) *Error {
	return &Error{Level: Openly, Code: code, Message: message}
}

// Internal builds a Closed error — lock poisoning, unreachable branches, I/O
// while packing a reply, or a handler-raised Closed error. Code is carried
// for protocols that want it, but Closed errors never put Message or Code
// in the wire response.
func Internal(code int, message string, cause error) *Error {
	return &Error{Level: Closed, Code: code, Message: message, Cause: cause}
}

// ErrRedirectLoop is a Closed error raised when a redirect chain exceeds the
// bounded hop limit (spec §4.3.2, §7).
var ErrRedirectLoop = &Error{Level: Closed, Code: 508, Message: "redirect loop exceeded hop limit"}

// As reports whether err (or something it wraps) is an *Error, mirroring
// errors.As without requiring callers to import both packages.
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

// Wrap turns a plain error into a Closed *Error, unless it already is one.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(0, err.Error(), err)
}
