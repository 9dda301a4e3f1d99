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
	"fmt"
	"log/slog"
	"sync"

	"github.com/idrunk/dce/atom"
	"github.com/idrunk/dce/codec"
	"github.com/idrunk/dce/codec/json"
)

// Router holds every registered API, builds them into a resolution trie on
// Ready, and dispatches resolved requests. It is safe for concurrent use
// once Ready has returned.
type Router struct {
	mu      sync.Mutex
	apis    []*API
	byID    map[string]*API
	tree    *atom.Tree[string, *branch]
	mapping map[string]*atom.Node[string, *branch]
	ready   bool
	log     *slog.Logger
	codecs  *codec.Registry
	before  []HookFunc
	after   []HookFunc
	metrics Metrics
	tracer  Tracer
}

// RouterOption configures a Router at construction time.
type RouterOption func(*Router)

// WithLogger overrides the router's logger; the default is a discard
// logger (NoopLogger), matching the teacher's opt-in logging posture.
func WithLogger(l *slog.Logger) RouterOption {
	return func(r *Router) { r.log = l }
}

// WithCodecs overrides the router's codec registry; the default registers
// only JSON.
func WithCodecs(reg *codec.Registry) RouterOption {
	return func(r *Router) { r.codecs = reg }
}

// WithGlobalBefore appends router-wide before-hooks, run ahead of any
// API-specific before-hooks.
func WithGlobalBefore(hooks ...HookFunc) RouterOption {
	return func(r *Router) { r.before = append(r.before, hooks...) }
}

// WithGlobalAfter appends router-wide after-hooks, run behind any
// API-specific after-hooks.
func WithGlobalAfter(hooks ...HookFunc) RouterOption {
	return func(r *Router) { r.after = append(r.after, hooks...) }
}

// WithMetrics attaches a Metrics sink; the default is a no-op.
func WithMetrics(m Metrics) RouterOption {
	return func(r *Router) { r.metrics = m }
}

// WithTracer attaches a Tracer; the default is a no-op.
func WithTracer(t Tracer) RouterOption {
	return func(r *Router) { r.tracer = t }
}

// NoopLogger returns a logger that discards everything, used as the
// Router's default so embedding applications opt into logging rather than
// having it forced on them.
func NoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// New constructs a Router with no APIs registered yet.
func New(opts ...RouterOption) *Router {
	r := &Router{
		byID:    make(map[string]*API),
		log:     NoopLogger(),
		codecs:  codec.NewRegistry(json.New()),
		metrics: noopMetrics{},
		tracer:  noopTracer{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds an API to the router. It may be called any number of times
// before Ready; calling it afterward returns ErrAlreadyReady.
func (r *Router) Register(a *API) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ready {
		return ErrAlreadyReady
	}
	if _, dup := r.byID[a.ID]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateID, a.ID)
	}
	r.byID[a.ID] = a
	r.apis = append(r.apis, a)
	return nil
}

// Codecs returns the router's codec registry, so a Protocol adapter can
// serialize a Response with the same negotiation Context.Serialize uses.
func (r *Router) Codecs() *codec.Registry {
	return r.codecs
}

// ByID returns a registered API by id.
func (r *Router) ByID(id string) (*API, bool) {
	a, ok := r.byID[id]
	return a, ok
}

// Ready parses every registered template, builds the resolution trie and
// the direct apis_mapping fast path, and validates the invariants from
// spec §3: no two APIs share a canonical literal path, Optional /
// EmptableVector / Vector captures are terminal, and a suffix clause only
// appears on a template's final Literal segment (the last check already
// happens inside parseTemplate). Ready may only be called once.
func (r *Router) Ready() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ready {
		return ErrAlreadyReady
	}

	rootSeg := segment{variety: Literal, base: ""}
	r.tree = atom.New[string, *branch](newBranch(rootSeg))
	r.mapping = make(map[string]*atom.Node[string, *branch])

	for _, a := range r.apis {
		if a.RedirectTo == "" && a.Handler == nil {
			return fmt.Errorf("%w: %q has neither a handler nor a redirect target", ErrBadTemplate, a.ID)
		}
		segs, err := parseTemplate(a.Template)
		if err != nil {
			return err
		}
		a.segs = segs

		node := registerTemplate(r.tree.Root(), segs)
		if node.Element().endpoint != nil {
			return fmt.Errorf("%w: %q and %q", ErrDuplicatePath, node.Element().endpoint.ID, a.ID)
		}
		node.Element().endpoint = a

		if isFullyLiteral(segs) {
			canonical := canonicalLiteralPath(segs)
			suffixes := []string{""}
			if n := len(segs); n > 0 && len(segs[n-1].suffixes) > 0 {
				suffixes = segs[n-1].suffixes
			}
			for _, alt := range suffixes {
				key := mapKey(canonical, alt)
				if _, dup := r.mapping[key]; dup {
					return fmt.Errorf("%w: %q", ErrDuplicatePath, key)
				}
				r.mapping[key] = node
			}
		}
	}

	for _, a := range r.apis {
		if a.RedirectTo != "" {
			if _, err := resolve(r.tree.Root(), r.mapping, a.RedirectTo); err != nil {
				return fmt.Errorf("%w: %q redirects to unresolvable path %q", ErrNoSuchAPI, a.ID, a.RedirectTo)
			}
		}
	}

	markMidVars(r.tree.Root())
	r.ready = true
	return nil
}

// isFullyLiteral reports whether every segment in segs is a (possibly
// omitted) Literal, making the template eligible for the apis_mapping
// direct-lookup fast path (spec §4.2 Step A).
func isFullyLiteral(segs []segment) bool {
	for _, seg := range segs {
		if seg.variety != Literal {
			return false
		}
	}
	return true
}

// canonicalLiteralPath joins the base text of every non-omitted literal
// segment, which is what a caller's request path actually looks like on
// the wire (omitted segments are invisible to callers by definition).
func canonicalLiteralPath(segs []segment) string {
	parts := make([]string, 0, len(segs))
	for _, seg := range segs {
		if seg.omitted {
			continue
		}
		parts = append(parts, seg.base)
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "/"
		}
		out += p
	}
	return out
}

// markMidVars walks the built tree flagging every Required-capture branch
// that has children as is_mid_var (spec §3 invariant 2). The flag is kept
// on the branch only; the dispatcher does not pass it to handlers.
func markMidVars(root *atom.Node[string, *branch]) {
	root.Traversal(func(n *atom.Node[string, *branch]) atom.WalkAction {
		b := n.Element()
		if b.seg.variety == Required && len(n.Children()) > 0 {
			b.isMidVar = true
		}
		return atom.WalkContinue
	})
}
