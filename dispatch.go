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
	"time"

	"github.com/idrunk/dce/dcerr"
)

// Dispatch resolves req against the router's trie and runs the full
// pipeline: global before-hooks, the API's own before-hooks, the handler,
// the API's own after-hooks, then global after-hooks (spec §4.5). A non-nil
// error from any hook or the handler stops the rest; a before-hook's
// non-nil Response skips the remaining before-hooks and the handler, while
// an after-hook's non-nil Response replaces the current one and the
// remaining after-hooks still run.
//
// Dispatch requires Ready to have already been called; it returns
// ErrNotReady otherwise, checked on every call. That mirrors the teacher's
// own "must call Build before ServeHTTP" contract.
func (r *Router) Dispatch(ctx context.Context, req *Request) (resp *Response, err error) {
	if !r.ready {
		return nil, ErrNotReady
	}
	ctx = handlerContext(ctx)

	start := time.Now()
	apiID := ""
	spanName := req.Path
	if spanName == "" {
		spanName = "/"
	}
	spanCtx, endSpan := r.tracer.StartSpan(ctx, spanName)
	defer func() {
		status := 0
		if resp != nil {
			status = resp.Status
		}
		if err != nil {
			status = statusOf(err)
		}
		r.metrics.ObserveRequest(apiID, status, time.Since(start).Seconds())
		endSpan(err)
	}()

	res, rerr := r.resolveFollowingRedirects(req.Path)
	if rerr != nil {
		return nil, rerr
	}
	endpoint := res.node.Element().endpoint
	apiID = endpoint.ID

	if !endpoint.Methods.Accepts(req.Method) {
		return nil, dcerr.NotFound("method " + req.Method + " not allowed for \"" + req.Path + "\"")
	}

	resp, err = r.invoke(spanCtx, endpoint, req, res.args, res.suffix)
	return resp, err
}

// DispatchByID implements id-based routing (spec §4.6 id_route): it looks
// the API up directly by id, invokes it with empty captures and no suffix,
// and never follows a redirect even if the matched API has one set.
func (r *Router) DispatchByID(ctx context.Context, id string, req *Request) (resp *Response, err error) {
	if !r.ready {
		return nil, ErrNotReady
	}
	ctx = handlerContext(ctx)

	endpoint, ok := r.byID[id]
	if !ok || endpoint.Handler == nil {
		return nil, dcerr.NotFound("no api registered under id \"" + id + "\"")
	}

	start := time.Now()
	spanCtx, endSpan := r.tracer.StartSpan(ctx, "id:"+id)
	defer func() {
		status := 0
		if resp != nil {
			status = resp.Status
		}
		if err != nil {
			status = statusOf(err)
		}
		r.metrics.ObserveRequest(endpoint.ID, status, time.Since(start).Seconds())
		endSpan(err)
	}()

	if !endpoint.Methods.Accepts(req.Method) {
		return nil, dcerr.NotFound("method " + req.Method + " not allowed for id \"" + id + "\"")
	}

	resp, err = r.invoke(spanCtx, endpoint, req, map[string]PathValue{}, "")
	return resp, err
}

// invoke runs the before/after hook chain and the handler for a resolved
// endpoint, then applies Unresponsive (spec §3, §4.4, §8 invariant 8).
func (r *Router) invoke(ctx context.Context, endpoint *API, req *Request, args map[string]PathValue, suffix string) (*Response, error) {
	rctx := &Context{
		Context:   ctx,
		Router:    r,
		API:       endpoint,
		Request:   req,
		PathArgs:  args,
		Suffix:    suffix,
		SessionID: req.Headers["session_id"],
		codecs:    r.codecs,
	}

	chain := make([]HookFunc, 0, len(r.before)+len(endpoint.Before))
	chain = append(chain, r.before...)
	chain = append(chain, endpoint.Before...)
	for _, hook := range chain {
		resp, err := hook(rctx)
		if err != nil {
			return suppressed(endpoint, nil, err)
		}
		if resp != nil {
			return suppressed(endpoint, resp, nil)
		}
	}

	resp, err := endpoint.Handler(rctx)
	if err != nil {
		return suppressed(endpoint, nil, err)
	}

	after := make([]HookFunc, 0, len(endpoint.After)+len(r.after))
	after = append(after, endpoint.After...)
	after = append(after, r.after...)
	for _, hook := range after {
		hookResp, herr := hook(rctx)
		if herr != nil {
			return suppressed(endpoint, nil, herr)
		}
		if hookResp != nil {
			resp = hookResp
		}
	}

	return suppressed(endpoint, resp, nil)
}

// suppressed applies API.Unresponsive to one pipeline outcome: a successful
// result always becomes (nil, nil) — spec §8 invariant 8 — and so does a
// Closed error (spec §4.4/§7: "for closed errors on unresponsive APIs the
// reply is dropped entirely"). An Openly error is left alone; the caller
// still needs to see it.
func suppressed(endpoint *API, resp *Response, err error) (*Response, error) {
	if !endpoint.Unresponsive {
		return resp, err
	}
	if err == nil {
		return nil, nil
	}
	var e *dcerr.Error
	if dcerr.As(err, &e) && e.Level == dcerr.Closed {
		return nil, nil
	}
	return resp, err
}

// resolveFollowingRedirects resolves path, chasing an endpoint whose
// RedirectTo is set by discarding the current match's captures and suffix
// and re-resolving the redirect target as a brand new path from the router
// root (spec §3 "redirect", §4.3.2), up to maxRedirectHops; a longer chain
// is reported as dcerr.ErrRedirectLoop.
func (r *Router) resolveFollowingRedirects(path string) (*resolution, error) {
	res, err := resolve(r.tree.Root(), r.mapping, path)
	if err != nil {
		return nil, err
	}
	for hops := 0; res.node.Element().endpoint.RedirectTo != ""; hops++ {
		if hops >= maxRedirectHops {
			return nil, dcerr.ErrRedirectLoop
		}
		target := res.node.Element().endpoint.RedirectTo
		res, err = resolve(r.tree.Root(), r.mapping, target)
		if err != nil {
			return nil, dcerr.ErrRedirectLoop
		}
	}
	return res, nil
}

// statusOf extracts an HTTP-ish status code from err for metrics labeling,
// defaulting to 500 for anything that isn't a *dcerr.Error.
func statusOf(err error) int {
	var e *dcerr.Error
	if dcerr.As(err, &e) && e.Code >= 100 && e.Code < 600 {
		return e.Code
	}
	return 500
}
