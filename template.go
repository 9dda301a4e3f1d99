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
	"fmt"
	"strings"
)

// boundary is the character that separates a literal segment's base name
// from its suffix clause, and that joins mapping keys with their suffix
// alternative (spec §4.2, §6.4). It is fixed at '.', matching every
// example in the specification.
const boundary = '.'

// segment is one parsed piece of an API's path template.
type segment struct {
	raw      string
	variety  Variety
	name     string   // capture name; empty for Literal
	omitted  bool     // segment is present in the template but invisible to callers (spec §3 "omission")
	suffixes []string // sorted suffix alternatives; only set on a terminal Literal segment
	base     string   // literal base text with any suffix clause stripped
}

// parseCaptureToken matches a capture token: {name}, {name?}, {name*} or {name+}.
// Recognized without regexp to keep the parser dependency-free, following
// the teacher's own hand-rolled radix tokenizer in router/radix.go.
func parseCaptureToken(tok string) (name string, variety Variety, ok bool) {
	if len(tok) < 3 || tok[0] != '{' || tok[len(tok)-1] != '}' {
		return "", 0, false
	}
	inner := tok[1 : len(tok)-1]
	if inner == "" {
		return "", 0, false
	}
	variety = Required
	switch inner[len(inner)-1] {
	case '?':
		variety, inner = Optional, inner[:len(inner)-1]
	case '*':
		variety, inner = EmptableVector, inner[:len(inner)-1]
	case '+':
		variety, inner = Vector, inner[:len(inner)-1]
	}
	if inner == "" || !isIdent(inner) {
		return "", 0, false
	}
	return inner, variety, true
}

func isIdent(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z'):
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// parseTemplate splits a declared path template (spec §6.4) into segments.
// Omission markers are a literal segment wrapped in parens, e.g. "(v1)",
// which matches nothing on the wire but still occupies a tree level so
// sibling branches can hang off it. The suffix clause, if any, is only
// recognized on the final segment when it is a Literal.
func parseTemplate(tmpl string) ([]segment, error) {
	tmpl = strings.Trim(tmpl, "/")
	if tmpl == "" {
		return nil, nil
	}
	parts := strings.Split(tmpl, "/")
	segs := make([]segment, 0, len(parts))
	for i, raw := range parts {
		if raw == "" {
			return nil, fmt.Errorf("%w: empty segment in template %q", ErrBadTemplate, tmpl)
		}
		var seg segment
		if name, variety, ok := parseCaptureToken(raw); ok {
			seg = segment{raw: raw, variety: variety, name: name}
			if variety.terminalOnly() && i != len(parts)-1 {
				return nil, fmt.Errorf("%w: %q must be the last segment of %q", ErrBadTemplate, raw, tmpl)
			}
		} else {
			lit := raw
			omitted := false
			if len(lit) >= 2 && lit[0] == '(' && lit[len(lit)-1] == ')' {
				omitted, lit = true, lit[1:len(lit)-1]
			}
			seg = segment{raw: raw, variety: Literal, omitted: omitted}
			if i == len(parts)-1 {
				base, alts := parseSuffixClause(lit, boundary)
				seg.base = base
				seg.suffixes = sortSuffixes(boundary, alts)
			} else {
				seg.base = lit
			}
		}
		segs = append(segs, seg)
	}
	return segs, nil
}
