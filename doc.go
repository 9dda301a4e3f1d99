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

// Package dce implements a protocol-agnostic request dispatch framework: a
// single router that resolves a logical request path through a trie of
// path segments — literal parts, invisible ("omission") parts, four
// flavors of variable capture, suffix dispatch and redirect chains — and
// hands the match to a registered handler.
//
// The router itself never talks to a concrete transport. A Protocol value
// adapts one transport (HTTP, a line-based TCP/UDP/WebSocket frame, or a
// CLI argv vector) to the contract the Dispatcher needs: extract a path,
// yield a body, pick codecs, and decide whether/how to emit a reply.
// Concrete adapters live under the proto/ subpackages; codecs live under
// codec/.
package dce
