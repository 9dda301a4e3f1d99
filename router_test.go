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

package dce_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idrunk/dce"
	"github.com/idrunk/dce/dcerr"
)

func ok(body any) dce.HandlerFunc {
	return func(ctx *dce.Context) (*dce.Response, error) {
		return &dce.Response{Status: 200, Body: body}, nil
	}
}

func echoArgs() dce.HandlerFunc {
	return func(ctx *dce.Context) (*dce.Response, error) {
		out := map[string]any{}
		for k, v := range ctx.PathArgs {
			if v.Variety == dce.Vector || v.Variety == dce.EmptableVector {
				out[k] = v.Vector
			} else {
				out[k] = v.Scalar
			}
		}
		out["suffix"] = ctx.Suffix
		return &dce.Response{Status: 200, Body: out}, nil
	}
}

func buildRouter(t *testing.T, apis ...*dce.API) *dce.Router {
	t.Helper()
	r := dce.New()
	for _, a := range apis {
		require.NoError(t, r.Register(a))
	}
	require.NoError(t, r.Ready())
	return r
}

func TestFixedPath(t *testing.T) {
	r := buildRouter(t, dce.NewAPI("home", "home", ok("welcome")))
	resp, err := r.Dispatch(context.Background(), &dce.Request{Path: "home"})
	require.NoError(t, err)
	assert.Equal(t, "welcome", resp.Body)
}

func TestRequiredAndOptionalCapture(t *testing.T) {
	r := buildRouter(t, dce.NewAPI("detail", "article/{id}/{slug?}", echoArgs()))

	resp, err := r.Dispatch(context.Background(), &dce.Request{Path: "article/42/intro"})
	require.NoError(t, err)
	body := resp.Body.(map[string]any)
	assert.Equal(t, "42", body["id"])
	assert.Equal(t, "intro", body["slug"])

	resp, err = r.Dispatch(context.Background(), &dce.Request{Path: "article/42"})
	require.NoError(t, err)
	body = resp.Body.(map[string]any)
	assert.Equal(t, "42", body["id"])
	assert.Equal(t, "", body["slug"])
}

func TestSuffixDispatch(t *testing.T) {
	r := buildRouter(t, dce.NewAPI("detail", "article/{id}/detail.html|json|", echoArgs()))

	resp, err := r.Dispatch(context.Background(), &dce.Request{Path: "article/42/detail.html"})
	require.NoError(t, err)
	body := resp.Body.(map[string]any)
	assert.Equal(t, "42", body["id"])
	assert.Equal(t, "html", body["suffix"])

	resp, err = r.Dispatch(context.Background(), &dce.Request{Path: "article/42/detail"})
	require.NoError(t, err)
	body = resp.Body.(map[string]any)
	assert.Equal(t, "", body["suffix"])

	_, err = r.Dispatch(context.Background(), &dce.Request{Path: "article/42/detail.xml"})
	assert.Error(t, err)
}

func TestVariadicRequired(t *testing.T) {
	r := buildRouter(t, dce.NewAPI("files", "download/{path+}", echoArgs()))

	resp, err := r.Dispatch(context.Background(), &dce.Request{Path: "download/a/b/c"})
	require.NoError(t, err)
	body := resp.Body.(map[string]any)
	assert.Equal(t, []string{"a", "b", "c"}, body["path"])

	_, err = r.Dispatch(context.Background(), &dce.Request{Path: "download"})
	assert.Error(t, err)
}

func TestEmptableVector(t *testing.T) {
	r := buildRouter(t, dce.NewAPI("tags", "search/{terms*}", echoArgs()))

	resp, err := r.Dispatch(context.Background(), &dce.Request{Path: "search"})
	require.NoError(t, err)
	body := resp.Body.(map[string]any)
	assert.Equal(t, []string{}, body["terms"])

	resp, err = r.Dispatch(context.Background(), &dce.Request{Path: "search/go/rust"})
	require.NoError(t, err)
	body = resp.Body.(map[string]any)
	assert.Equal(t, []string{"go", "rust"}, body["terms"])
}

func TestOmittedSegment(t *testing.T) {
	r := buildRouter(t, dce.NewAPI("versioned", "(v1)/ping", ok("pong")))
	resp, err := r.Dispatch(context.Background(), &dce.Request{Path: "ping"})
	require.NoError(t, err)
	assert.Equal(t, "pong", resp.Body)
}

func TestMethodFilter(t *testing.T) {
	r := buildRouter(t, dce.NewAPI("create", "widgets", ok("created"), dce.WithMethods("POST")))

	_, err := r.Dispatch(context.Background(), &dce.Request{Path: "widgets", Method: "GET"})
	assert.Error(t, err)

	resp, err := r.Dispatch(context.Background(), &dce.Request{Path: "widgets", Method: "POST"})
	require.NoError(t, err)
	assert.Equal(t, "created", resp.Body)
}

func TestRedirect(t *testing.T) {
	r := buildRouter(t,
		dce.NewAPI("new-home", "home-v2", ok("welcome v2")),
		dce.NewRedirect("old-home", "home", "home-v2"),
	)
	resp, err := r.Dispatch(context.Background(), &dce.Request{Path: "home"})
	require.NoError(t, err)
	assert.Equal(t, "welcome v2", resp.Body)
}

// TestRedirectDiscardsCaptures proves a redirect re-resolves its target as
// a brand new path rather than carrying the original match's captures and
// suffix onto the target (spec §3 "redirect", §4.3.2): the target path has
// its own capture that must come from re-matching "article/7", not from
// whatever happened to match "old/{id}".
func TestRedirectDiscardsCaptures(t *testing.T) {
	r := buildRouter(t,
		dce.NewAPI("article", "article/{id}", echoArgs()),
		dce.NewRedirect("old-article", "old/{id}", "article/7"),
	)
	resp, err := r.Dispatch(context.Background(), &dce.Request{Path: "old/1"})
	require.NoError(t, err)
	body := resp.Body.(map[string]any)
	assert.Equal(t, "7", body["id"])
}

func TestRedirectLoop(t *testing.T) {
	r := dce.New()
	require.NoError(t, r.Register(dce.NewRedirect("a", "a-path", "b-path")))
	require.NoError(t, r.Register(dce.NewRedirect("b", "b-path", "a-path")))
	require.NoError(t, r.Ready())

	_, err := r.Dispatch(context.Background(), &dce.Request{Path: "a-path"})
	assert.Error(t, err)
}

func TestDanglingRedirectRejectedAtReady(t *testing.T) {
	r := dce.New()
	require.NoError(t, r.Register(dce.NewRedirect("old-home", "home", "nowhere/registered")))
	assert.ErrorIs(t, r.Ready(), dce.ErrNoSuchAPI)
}

func TestDuplicatePathRejectedAtReady(t *testing.T) {
	r := dce.New()
	require.NoError(t, r.Register(dce.NewAPI("one", "same", ok(1))))
	require.NoError(t, r.Register(dce.NewAPI("two", "same", ok(2))))
	assert.Error(t, r.Ready())
}

func TestNotFound(t *testing.T) {
	r := buildRouter(t, dce.NewAPI("home", "home", ok("welcome")))
	_, err := r.Dispatch(context.Background(), &dce.Request{Path: "nowhere"})
	assert.Error(t, err)
}

func TestBeforeHookShortCircuits(t *testing.T) {
	r := buildRouter(t, dce.NewAPI("protected", "secret", ok("classified"),
		dce.WithBefore(func(ctx *dce.Context) (*dce.Response, error) {
			return &dce.Response{Status: 403, Body: "denied"}, nil
		}),
	))
	resp, err := r.Dispatch(context.Background(), &dce.Request{Path: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "denied", resp.Body)
}

func TestAfterHookRewritesResponse(t *testing.T) {
	r := buildRouter(t, dce.NewAPI("home", "home", ok("welcome"),
		dce.WithAfter(func(ctx *dce.Context) (*dce.Response, error) {
			return &dce.Response{Status: 200, Body: "wrapped"}, nil
		}),
	))
	resp, err := r.Dispatch(context.Background(), &dce.Request{Path: "home"})
	require.NoError(t, err)
	assert.Equal(t, "wrapped", resp.Body)
}

func TestDispatchBeforeReadyFails(t *testing.T) {
	r := dce.New()
	_, err := r.Dispatch(context.Background(), &dce.Request{Path: "home"})
	assert.ErrorIs(t, err, dce.ErrNotReady)
}

// TestUnresponsiveSuppressesSuccessfulOutput covers invariant 8: a
// successful unresponsive API produces no frame at all.
func TestUnresponsiveSuppressesSuccessfulOutput(t *testing.T) {
	r := buildRouter(t, dce.NewAPI("ping", "ping", ok("pong"), dce.WithUnresponsive()))
	resp, err := r.Dispatch(context.Background(), &dce.Request{Path: "ping"})
	require.NoError(t, err)
	assert.Nil(t, resp)
}

// TestUnresponsiveDropsClosedErrorButSurfacesOpenError covers spec §4.4/§7:
// a Closed error on an unresponsive API is dropped entirely, but an Openly
// error still reaches the caller since it needs to be seen.
func TestUnresponsiveDropsClosedErrorButSurfacesOpenError(t *testing.T) {
	failClosed := func(ctx *dce.Context) (*dce.Response, error) {
		return nil, dcerr.Internal(500, "boom", nil)
	}
	failOpen := func(ctx *dce.Context) (*dce.Response, error) {
		return nil, dcerr.BadRequest(400, "bad input")
	}
	r := buildRouter(t,
		dce.NewAPI("fail-closed", "fail-closed", failClosed, dce.WithUnresponsive()),
		dce.NewAPI("fail-open", "fail-open", failOpen, dce.WithUnresponsive()),
	)

	resp, err := r.Dispatch(context.Background(), &dce.Request{Path: "fail-closed"})
	require.NoError(t, err)
	assert.Nil(t, resp)

	resp, err = r.Dispatch(context.Background(), &dce.Request{Path: "fail-open"})
	assert.Error(t, err)
	assert.Nil(t, resp)
}

// TestDispatchByID covers spec §4.6 id_route: lookup by id bypasses path
// matching entirely, so the handler sees no captures and no suffix even
// though its own template would otherwise require them.
func TestDispatchByID(t *testing.T) {
	r := buildRouter(t, dce.NewAPI("detail", "article/{id}", echoArgs()))

	resp, err := r.DispatchByID(context.Background(), "detail", &dce.Request{Path: "ignored"})
	require.NoError(t, err)
	body := resp.Body.(map[string]any)
	_, hasID := body["id"]
	assert.False(t, hasID)
	assert.Equal(t, "", body["suffix"])
}

// TestDispatchByIDDoesNotFollowRedirects covers spec §4.6's explicit "does
// not follow redirects" clause: routing to a redirect API by id invokes
// nothing, since a redirect has no Handler of its own.
func TestDispatchByIDDoesNotFollowRedirects(t *testing.T) {
	r := buildRouter(t,
		dce.NewAPI("new-home", "home-v2", ok("welcome v2")),
		dce.NewRedirect("old-home", "home", "home-v2"),
	)
	_, err := r.DispatchByID(context.Background(), "old-home", &dce.Request{Path: "ignored"})
	assert.Error(t, err)
}
