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
	"fmt"

	"github.com/idrunk/dce/codec"
)

// Request is the protocol-agnostic shape of an incoming call: a logical
// path, a transport method, a raw body and the codec names the caller
// offered for encoding/decoding, in preference order (spec §4.4).
type Request struct {
	Path        string
	Method      string
	Body        []byte
	AcceptCodec []string // preferred response codec names, most preferred first
	BodyCodec   string   // codec the body was encoded with, if known
	Headers     map[string]string
}

// Context carries one request through hooks, the handler and back out.
// It is created fresh by the Dispatcher for every request and is not safe
// to retain past the handler's return.
type Context struct {
	context.Context

	Router  *Router
	API     *API
	Request *Request

	// PathArgs holds every capture bound during resolution, keyed by name.
	PathArgs map[string]PathValue
	// Suffix is the suffix alternative matched while walking the trie. It
	// is "" if the template has no suffix clause, if the empty alternative
	// matched, or if the path resolved through the direct lookup for a
	// template made only of literal segments.
	Suffix string

	// SessionID is populated by a Protocol adapter that supports sessions
	// (spec §6.3); it is empty when the transport carries none.
	SessionID string

	codecs *codec.Registry
}

// Arg returns a bound scalar capture by name, or "" if absent or not a
// scalar variety.
func (c *Context) Arg(name string) string {
	v, ok := c.PathArgs[name]
	if !ok || !v.Present {
		return ""
	}
	return v.Scalar
}

// VectorArg returns a bound variadic capture by name.
func (c *Context) VectorArg(name string) []string {
	v, ok := c.PathArgs[name]
	if !ok {
		return nil
	}
	return v.Vector
}

// Deserialize decodes the request body into out using the codec named by
// the request's BodyCodec, falling back to the router's default codec.
func (c *Context) Deserialize(out any) error {
	if len(c.Request.Body) == 0 {
		return nil
	}
	cd, ok := c.codecs.Lookup(c.Request.BodyCodec)
	if !ok {
		var err error
		cd, err = c.codecs.Resolve(nil)
		if err != nil {
			return fmt.Errorf("dce: no codec for request body: %w", err)
		}
	}
	return cd.Unmarshal(c.Request.Body, out)
}

// Serialize encodes v with the best codec from the request's accepted
// list, returning the encoded bytes and the codec name used.
func (c *Context) Serialize(v any) ([]byte, string, error) {
	cd, err := c.codecs.Resolve(c.Request.AcceptCodec)
	if err != nil {
		return nil, "", err
	}
	blob, err := cd.Marshal(v)
	if err != nil {
		return nil, "", err
	}
	return blob, cd.Name(), nil
}
