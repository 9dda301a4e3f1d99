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

// Package http adapts dce.Router to net/http, grounded on the teacher's
// router.Router.ServeHTTP. It supports the session propagation spec §6.3
// describes: an X-Session-Id request header or a session_id cookie, echoed
// back the same way in the response.
package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/idrunk/dce"
)

var mimeByCodec = map[string]string{
	"json":    "application/json",
	"yaml":    "application/yaml",
	"toml":    "application/toml",
	"msgpack": "application/msgpack",
}

const (
	headerSessionID = "X-Session-Id"
	cookieSessionID = "session_id"
)

// Adapter implements http.Handler over a built *dce.Router.
type Adapter struct {
	router *dce.Router
}

// New wraps router. Router.Ready must already have been called.
func New(router *dce.Router) *Adapter {
	return &Adapter{router: router}
}

func (a *Adapter) Name() string { return "http" }

// ServeHTTP implements http.Handler.
func (a *Adapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	sessionID := r.Header.Get(headerSessionID)
	if sessionID == "" {
		if c, err := r.Cookie(cookieSessionID); err == nil {
			sessionID = c.Value
		}
	}

	req := &dce.Request{
		Path:        strings.TrimPrefix(r.URL.Path, "/"),
		Method:      r.Method,
		Body:        body,
		BodyCodec:   codecFromContentType(r.Header.Get("Content-Type")),
		AcceptCodec: acceptCodecs(r.Header.Get("Accept")),
		Headers:     map[string]string{"session_id": sessionID},
	}

	resp, err := a.router.Dispatch(r.Context(), req)
	if err != nil {
		resp = dce.ErrToResponse(err)
	}
	if resp == nil {
		// Unresponsive API (spec §3, §8 invariant 8): the dispatcher
		// deliberately produced nothing to send.
		if sessionID != "" {
			w.Header().Set(headerSessionID, sessionID)
			http.SetCookie(w, &http.Cookie{Name: cookieSessionID, Value: sessionID, Path: "/"})
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if resp.Headers == nil {
		resp.Headers = map[string]string{}
	}
	if sessionID != "" {
		resp.Headers[headerSessionID] = sessionID
		http.SetCookie(w, &http.Cookie{Name: cookieSessionID, Value: sessionID, Path: "/"})
	}

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}

	cd, cerr := a.router.Codecs().Resolve(req.AcceptCodec)
	if cerr != nil {
		http.Error(w, "no acceptable response codec", http.StatusNotAcceptable)
		return
	}
	blob, merr := cd.Marshal(resp.Body)
	if merr != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", mimeByCodec[cd.Name()])
	w.WriteHeader(status)
	_, _ = w.Write(blob)
}

func codecFromContentType(ct string) string {
	switch {
	case strings.Contains(ct, "yaml"):
		return "yaml"
	case strings.Contains(ct, "toml"):
		return "toml"
	case strings.Contains(ct, "msgpack"):
		return "msgpack"
	default:
		return "json"
	}
}

func acceptCodecs(accept string) []string {
	if accept == "" {
		return nil
	}
	parts := strings.Split(accept, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.SplitN(p, ";", 2)[0])
		switch {
		case strings.Contains(p, "yaml"):
			out = append(out, "yaml")
		case strings.Contains(p, "toml"):
			out = append(out, "toml")
		case strings.Contains(p, "msgpack"):
			out = append(out, "msgpack")
		case strings.Contains(p, "json"), p == "*/*":
			out = append(out, "json")
		}
	}
	return out
}
