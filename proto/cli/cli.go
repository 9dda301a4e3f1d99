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

// Package cli adapts dce.Router to an argv vector, grounded on the
// original implementation's CLI protocol (crates/protocols/cli):
// non-flag arguments join with "/" to form the dispatched path, "name=value"
// and "-name [value]" arguments become a flat args map, and everything
// after a bare "--" separator is collected verbatim as Pass, for a caller
// that wants to forward the remainder to a subprocess untouched.
package cli

import (
	"context"
	"strings"

	"github.com/idrunk/dce"
)

const passSeparator = "--"

// Parsed is one tokenized argv vector.
type Parsed struct {
	Path string
	Args map[string]string
	Pass []string
}

// Parse tokenizes argv (typically os.Args[1:]) per the grammar above.
func Parse(argv []string) Parsed {
	var paths, pass []string
	args := make(map[string]string)

	rest := append([]string(nil), argv...)
	for len(rest) > 0 {
		arg := rest[0]
		rest = rest[1:]

		switch {
		case arg == passSeparator:
			pass = append(pass, rest...)
			rest = nil
		case strings.Contains(arg, "="):
			parts := strings.SplitN(arg, "=", 2)
			args[parts[0]] = parts[1]
		case strings.HasPrefix(arg, "-"):
			value := ""
			if len(rest) > 0 && !looksLikeFlag(rest[0]) {
				value, rest = rest[0], rest[1:]
			}
			args[arg] = value
		default:
			paths = append(paths, arg)
		}
	}

	return Parsed{Path: strings.Join(paths, "/"), Args: args, Pass: pass}
}

func looksLikeFlag(arg string) bool {
	return arg == passSeparator || strings.Contains(arg, "=") || strings.HasPrefix(arg, "-")
}

// Adapter dispatches a single parsed command line against a built Router
// and renders the result as a string, the way a one-shot CLI invocation
// does (there is no persistent connection to keep open, unlike the framed
// transports).
type Adapter struct {
	router *dce.Router
	codec  string // body/response codec name, defaults to "json"
}

// New wraps router. Router.Ready must already have been called.
func New(router *dce.Router) *Adapter {
	return &Adapter{router: router, codec: "json"}
}

func (a *Adapter) Name() string { return "cli" }

// Run dispatches argv and returns the rendered response body (or error
// message) as a string, plus the numeric status the handler (or an error)
// produced — 0 on success with no explicit status.
func (a *Adapter) Run(argv []string) (string, int) {
	p := Parse(argv)

	var bodyBytes []byte
	if cd, ok := a.router.Codecs().Lookup(a.codec); ok && len(p.Args) > 0 {
		if blob, merr := cd.Marshal(p.Args); merr == nil {
			bodyBytes = blob
		}
	}

	req := &dce.Request{
		Path:        p.Path,
		Method:      "CLI",
		Body:        bodyBytes,
		BodyCodec:   a.codec,
		AcceptCodec: []string{a.codec},
	}

	resp, derr := a.router.Dispatch(context.Background(), req)
	if derr != nil {
		resp = dce.ErrToResponse(derr)
	}
	if resp == nil {
		// Unresponsive API: nothing printed, success status.
		return "", 0
	}

	cd, _ := a.router.Codecs().Resolve(req.AcceptCodec)
	blob, merr := cd.Marshal(resp.Body)
	if merr != nil {
		return merr.Error(), 1
	}
	return string(blob), resp.Status
}
