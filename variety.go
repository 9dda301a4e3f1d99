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

// Variety is the kind of a single path segment in an API's template.
type Variety int

const (
	// Literal is a fixed segment, matched by exact text.
	Literal Variety = iota
	// Required is a scalar capture ({name}), consuming exactly one segment.
	Required
	// Optional is a scalar capture ({name?}) that may be absent entirely.
	Optional
	// EmptableVector is a variadic capture ({name*}) that may match zero
	// or more trailing segments.
	EmptableVector
	// Vector is a variadic capture ({name+}) that must match one or more
	// trailing segments.
	Vector
)

func (v Variety) String() string {
	switch v {
	case Literal:
		return "literal"
	case Required:
		return "required"
	case Optional:
		return "optional"
	case EmptableVector:
		return "emptable-vector"
	case Vector:
		return "vector"
	default:
		return "unknown"
	}
}

// IsCapture reports whether the variety binds a named parameter.
func (v Variety) IsCapture() bool {
	return v != Literal
}

// terminalOnly reports whether this variety may only appear as the last
// segment of a template (spec §3 invariant 2: Optional, EmptableVector and
// Vector captures must be terminal; Required may be mid-path, marked
// is_mid_var when it has descendants).
func (v Variety) terminalOnly() bool {
	return v == Optional || v == EmptableVector || v == Vector
}

// PathValue is the value bound to a capture name after a successful match.
// It tags which variety produced it so an Optional capture's "absent" can
// be told apart from an EmptableVector's "present but empty" (spec §8
// boundary case: "Optional capture absent -> path_args[name] = None;
// present -> Some(value)").
type PathValue struct {
	Variety Variety
	Scalar  string   // set for Required/Optional when present
	Vector  []string // set for EmptableVector/Vector
	Present bool     // false only for an absent Optional
}
