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

// Package yaml implements codec.Codec over gopkg.in/yaml.v3, grounded on the
// teacher's own use of that module (rivaas.dev/binding, rivaas.dev/config).
package yaml

import "gopkg.in/yaml.v3"

// Codec implements codec.Codec for YAML, registered under the "yaml" name.
type Codec struct{}

// New returns a YAML codec.
func New() Codec { return Codec{} }

func (Codec) Name() string { return "yaml" }

func (Codec) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (Codec) Unmarshal(data []byte, out any) error {
	return yaml.Unmarshal(data, out)
}
