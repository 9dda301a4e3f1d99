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

// Package toml implements codec.Codec over github.com/BurntSushi/toml,
// grounded on both the teacher's rivaas.dev/binding module and aofei-air's
// go.mod, which both depend on it.
package toml

import (
	"bytes"

	"github.com/BurntSushi/toml"
)

// Codec implements codec.Codec for TOML, registered under the "toml" name.
type Codec struct{}

// New returns a TOML codec.
func New() Codec { return Codec{} }

func (Codec) Name() string { return "toml" }

func (Codec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (Codec) Unmarshal(data []byte, out any) error {
	_, err := toml.Decode(string(data), out)
	return err
}
