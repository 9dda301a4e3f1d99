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

// Package codec abstracts value serialization for the dispatch framework
// (spec §3, §4's Codec Interface component): named deserializer/serializer
// pairs that turn a value into a tagged blob and back. Codecs are chosen by
// name from a request's BodyCodec and AcceptCodec; the suffix matched on the
// request path plays no part in the choice. Concrete formats live in
// sibling packages (codec/json, codec/yaml, codec/toml, codec/msgpack) so an
// application only pulls in the formats it registers.
package codec

import "fmt"

// Codec names one wire format. Name is the key a Registry stores it under
// and that request codec names refer to (e.g. "json", "yaml").
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, out any) error
}

// Registry looks codecs up by name. A Router owns one, seeded at
// construction time (spec: "deserializers, serializers: ordered lists; pick
// rule is protocol-configurable").
type Registry struct {
	byName map[string]Codec
}

// NewRegistry builds a Registry from zero or more codecs.
func NewRegistry(codecs ...Codec) *Registry {
	r := &Registry{byName: make(map[string]Codec, len(codecs))}
	for _, c := range codecs {
		r.Register(c)
	}
	return r
}

// Register adds or replaces the codec registered under its own Name().
func (r *Registry) Register(c Codec) {
	r.byName[c.Name()] = c
}

// Lookup returns the codec registered under name.
func (r *Registry) Lookup(name string) (Codec, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Resolve looks up each name in order and returns the first that exists;
// callers pass a request's codec names, most preferred first. API
// descriptors carry no codec list of their own. An empty names list falls
// back to "json", the framework's wire default, if one is registered.
func (r *Registry) Resolve(names []string) (Codec, error) {
	if len(names) == 0 {
		names = []string{"json"}
	}
	for _, name := range names {
		if c, ok := r.byName[name]; ok {
			return c, nil
		}
	}
	return nil, fmt.Errorf("codec: none of %v registered", names)
}
