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

package framed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idrunk/dce"
	"github.com/idrunk/dce/proto/framed"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	raw := []byte("42;ping\nmethod: FRAME\n>BODY>>>\nhello")
	f, err := framed.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "42", f.ID)
	assert.Equal(t, "ping", f.Path)
	assert.Equal(t, "FRAME", f.Headers["method"])
	assert.Equal(t, []byte("hello"), f.Body)

	out := framed.Encode(f)
	back, err := framed.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, f.ID, back.ID)
	assert.Equal(t, f.Path, back.Path)
	assert.Equal(t, f.Body, back.Body)
}

func TestDecodeNoID(t *testing.T) {
	f, err := framed.Decode([]byte("ping\n>BODY>>>\n"))
	require.NoError(t, err)
	assert.Equal(t, "", f.ID)
	assert.Equal(t, "ping", f.Path)
	assert.Empty(t, f.Body)
}

func TestHandleDispatchesByPathWhenNoID(t *testing.T) {
	router := dce.New()
	require.NoError(t, router.Register(dce.NewAPI("ping", "ping", func(ctx *dce.Context) (*dce.Response, error) {
		return &dce.Response{Status: 200, Body: map[string]string{"pong": "true"}}, nil
	})))
	require.NoError(t, router.Ready())

	reply := framed.Handle(context.Background(), router, []byte("ping\n>BODY>>>\n"))
	f, err := framed.Decode(reply)
	require.NoError(t, err)
	assert.Equal(t, "", f.ID)
	assert.Contains(t, string(f.Body), "pong")
}

// TestHandleIDRoutesByAPIIDAndEchoesID covers spec §4.6 id_route as wired
// into the framed envelope: a non-empty frame id both dispatches directly
// to the API registered under that id (bypassing frame.Path entirely) and
// is echoed back unchanged for correlation.
func TestHandleIDRoutesByAPIIDAndEchoesID(t *testing.T) {
	router := dce.New()
	require.NoError(t, router.Register(dce.NewAPI("ping", "ping/{n}", func(ctx *dce.Context) (*dce.Response, error) {
		_, hasN := ctx.PathArgs["n"]
		return &dce.Response{Status: 200, Body: map[string]any{"pong": true, "had_n": hasN}}, nil
	})))
	require.NoError(t, router.Ready())

	reply := framed.Handle(context.Background(), router, []byte("ping;some/unrelated/path\n>BODY>>>\n"))
	f, err := framed.Decode(reply)
	require.NoError(t, err)
	assert.Equal(t, "ping", f.ID)
	assert.Contains(t, string(f.Body), `"had_n":false`)
}

// TestHandleUnresponsiveReturnsNilReply covers spec §8 invariant 8 as wired
// into the framed transport: an unresponsive API's successful dispatch
// produces no reply frame at all.
func TestHandleUnresponsiveReturnsNilReply(t *testing.T) {
	router := dce.New()
	require.NoError(t, router.Register(dce.NewAPI("ping", "ping", func(ctx *dce.Context) (*dce.Response, error) {
		return &dce.Response{Status: 200, Body: "pong"}, nil
	}, dce.WithUnresponsive())))
	require.NoError(t, router.Ready())

	reply := framed.Handle(context.Background(), router, []byte("ping\n>BODY>>>\n"))
	assert.Nil(t, reply)
}

func TestHandleUnknownPathReturnsError(t *testing.T) {
	router := dce.New()
	require.NoError(t, router.Register(dce.NewAPI("home", "home", func(ctx *dce.Context) (*dce.Response, error) {
		return &dce.Response{Status: 200}, nil
	})))
	require.NoError(t, router.Ready())

	reply := framed.Handle(context.Background(), router, []byte("nowhere\n>BODY>>>\n"))
	f, err := framed.Decode(reply)
	require.NoError(t, err)
	assert.Contains(t, string(f.Body), "error")
}
