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

import "errors"

// Sentinel errors, wrapped with fmt.Errorf("...: %w", ...) at the point of
// failure so callers can errors.Is against a stable value while still
// getting a descriptive message, the same pattern the teacher's
// router/errors.go uses.
var (
	ErrBadTemplate   = errors.New("dce: malformed path template")
	ErrDuplicateID   = errors.New("dce: duplicate api id")
	ErrDuplicatePath = errors.New("dce: duplicate path registration")
	ErrNotReady      = errors.New("dce: router not built; call Ready() first")
	ErrAlreadyReady  = errors.New("dce: router already built")
	ErrNoSuchAPI     = errors.New("dce: no api registered under that id")
)

// Response is what a handler or hook returns: a body value to be encoded by
// the Protocol's chosen codec, plus a status that protocol adapters may map
// onto their own notion of success (e.g. HTTP status codes).
type Response struct {
	Status int // 0 means "adapter default", mirroring net/http's implicit 200
	Body   any
	// Headers carries protocol-agnostic metadata (e.g. a Location for a
	// redirect, or a session id) that an adapter may fold into its native
	// header mechanism.
	Headers map[string]string
}

// HandlerFunc handles one resolved request. It receives the already-bound
// Context and is responsible for deserializing its own body (via
// Context.Deserialize), matching spec §9's preference for a type-erased
// closure over threading generic type parameters through the API
// descriptor itself.
type HandlerFunc func(ctx *Context) (*Response, error)

// HookFunc runs before or after the handler in the dispatch pipeline
// (spec §4.5). A before-hook's non-nil Response short-circuits the
// pipeline and is returned without calling the handler at all; an
// after-hook's non-nil Response replaces the handler's, and the remaining
// after-hooks still run.
type HookFunc func(ctx *Context) (*Response, error)

// Methods enumerates the transport methods an API accepts. An empty set
// means "any method", matching the teacher's router.Any semantics.
type Methods map[string]struct{}

func newMethods(methods ...string) Methods {
	if len(methods) == 0 {
		return nil
	}
	m := make(Methods, len(methods))
	for _, meth := range methods {
		m[meth] = struct{}{}
	}
	return m
}

// Accepts reports whether method is permitted; an empty/nil Methods
// accepts everything.
func (m Methods) Accepts(method string) bool {
	if len(m) == 0 {
		return true
	}
	_, ok := m[method]
	return ok
}

// API is one registered endpoint: an id, a path template, the methods it
// answers to, its handler and its own before/after hooks (spec §3).
type API struct {
	ID       string
	Template string
	Methods  Methods
	Handler  HandlerFunc
	Before   []HookFunc
	After    []HookFunc

	// RedirectTo, when non-empty, is a path template to re-resolve after
	// this API matches, discarding the match's captures and suffix and
	// starting over from the router root (spec §3 "redirect", §4.3.2,
	// §4.6). Handler is ignored when RedirectTo is set.
	RedirectTo string

	// Unresponsive, when true, tells the dispatcher to suppress the
	// handler's output: Dispatch returns a nil Response and nil error on
	// success, and the same on a Closed error, so the protocol adapter
	// emits no frame at all (spec §3, §4.4, §8 invariant 8). An Openly
	// error still surfaces normally, since the caller needs to see it.
	Unresponsive bool

	segs []segment // parsed lazily by Router.Ready
}

// Option configures an API at registration time, following the teacher's
// functional-options convention (router/options.go).
type Option func(*API)

// WithMethods restricts the API to the given transport methods.
func WithMethods(methods ...string) Option {
	return func(a *API) { a.Methods = newMethods(methods...) }
}

// WithBefore appends before-hooks, run in order ahead of the handler.
func WithBefore(hooks ...HookFunc) Option {
	return func(a *API) { a.Before = append(a.Before, hooks...) }
}

// WithAfter appends after-hooks, run in order behind the handler.
func WithAfter(hooks ...HookFunc) Option {
	return func(a *API) { a.After = append(a.After, hooks...) }
}

// WithUnresponsive marks the API fire-and-forget: see API.Unresponsive.
func WithUnresponsive() Option {
	return func(a *API) { a.Unresponsive = true }
}

// NewAPI constructs an API descriptor. It does not parse the template or
// validate it against sibling registrations; that happens once, for every
// registered API together, in Router.Ready.
func NewAPI(id, template string, handler HandlerFunc, opts ...Option) *API {
	a := &API{ID: id, Template: template, Handler: handler}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewRedirect registers a template that, once matched, discards its own
// captures and suffix and re-resolves targetPath from scratch instead of
// running a handler (spec §3 "redirect", §4.3.2).
func NewRedirect(id, template, targetPath string, opts ...Option) *API {
	a := &API{ID: id, Template: template, RedirectTo: targetPath}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
