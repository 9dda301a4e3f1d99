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

// Package msgpack implements codec.Codec over
// github.com/vmihailenco/msgpack/v5, grounded on the teacher's
// rivaas.dev/binding module. MessagePack is the compact binary option for
// the framed transports (TCP/UDP/WS), where request bodies are already raw
// bytes and a text format like JSON wastes space on the wire.
package msgpack

import "github.com/vmihailenco/msgpack/v5"

// Codec implements codec.Codec for MessagePack, registered under "msgpack".
type Codec struct{}

// New returns a MessagePack codec.
func New() Codec { return Codec{} }

func (Codec) Name() string { return "msgpack" }

func (Codec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (Codec) Unmarshal(data []byte, out any) error {
	return msgpack.Unmarshal(data, out)
}
