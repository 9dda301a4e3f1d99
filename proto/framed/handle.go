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

package framed

import (
	"context"
	"strings"

	"github.com/idrunk/dce"
)

// Handle decodes raw, dispatches it against router and encodes the reply,
// preserving the request's id so the caller can correlate it. It is the
// single codepath proto/tcp, proto/udp and proto/ws share.
func Handle(ctx context.Context, router *dce.Router, raw []byte) []byte {
	frame, err := Decode(raw)
	if err != nil {
		return Encode(&Frame{Headers: map[string]string{}, Body: []byte(err.Error())})
	}

	req := &dce.Request{
		Path:        frame.Path,
		Method:      frame.Headers["method"],
		Body:        frame.Body,
		BodyCodec:   frame.Headers["codec"],
		AcceptCodec: acceptList(frame.Headers["accept"]),
		Headers:     frame.Headers,
	}
	if req.Method == "" {
		req.Method = "FRAME"
	}

	// A non-empty frame id doubles as the §4.6 id_route lookup key: dispatch
	// directly by id instead of matching frame.Path, and never follow a
	// redirect chain while doing so.
	var resp *dce.Response
	var derr error
	if frame.ID != "" {
		resp, derr = router.DispatchByID(ctx, frame.ID, req)
	} else {
		resp, derr = router.Dispatch(ctx, req)
	}
	if derr != nil {
		resp = dce.ErrToResponse(derr)
	}
	if resp == nil {
		// Unresponsive API (spec §3, §8 invariant 8): emit no reply frame.
		return nil
	}

	cd, cerr := router.Codecs().Resolve(req.AcceptCodec)
	replyHeaders := map[string]string{}
	var body []byte
	if cerr == nil {
		if blob, merr := cd.Marshal(resp.Body); merr == nil {
			body = blob
			replyHeaders["codec"] = cd.Name()
		}
	}
	for k, v := range resp.Headers {
		replyHeaders[k] = v
	}

	return Encode(&Frame{ID: frame.ID, Path: frame.Path, Headers: replyHeaders, Body: body})
}

func acceptList(header string) []string {
	if header == "" {
		return nil
	}
	parts := strings.Split(header, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
