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
	"strings"

	"github.com/idrunk/dce/atom"
	"github.com/idrunk/dce/dcerr"
)

// maxRedirectHops bounds a redirect chain (spec §4.6); exceeding it yields
// ErrRedirectLoop rather than spinning forever on a cyclic registration.
const maxRedirectHops = 16

// resolution is the outcome of matching a request path against the tree:
// the terminal branch that owns the handler, the captured path args and
// the matched suffix alternative.
type resolution struct {
	node   *atom.Node[string, *branch]
	args   map[string]PathValue
	suffix string
}

// mapKey builds the flat apis_mapping key for a fully-literal canonical
// path plus one suffix alternative (spec §4.2). The empty alternative maps
// to the bare canonical path so a template declared with no suffix clause
// at all (scenario 1) and one declared with an empty trailing alternative
// ("name.|ext") both resolve through the same key space without a
// spurious trailing boundary byte.
func mapKey(canonical string, alt string) string {
	if alt == "" {
		return canonical
	}
	return canonical + string(boundary) + alt
}

// resolve walks reqPath against the tree rooted at root. It first tries
// the fast path (apis_mapping direct hit, built by Router.Ready for every
// fully-literal template) and falls back to the segment-by-segment
// variable walk (Step B) when the path contains no exact literal match.
func resolve(root *atom.Node[string, *branch], mapping map[string]*atom.Node[string, *branch], reqPath string) (*resolution, error) {
	reqPath = strings.Trim(reqPath, "/")
	if node, ok := mapping[reqPath]; ok {
		return &resolution{node: node, args: map[string]PathValue{}}, nil
	}

	var parts []string
	if reqPath != "" {
		parts = strings.Split(reqPath, "/")
	}
	args := map[string]PathValue{}
	node, suffix, ok := walk(root, parts, args)
	if !ok || node.Element().endpoint == nil {
		return nil, dcerr.NotFound("no route matches \"/" + reqPath + "\"")
	}
	return &resolution{node: node, args: args, suffix: suffix}, nil
}

// walk implements Step B: a depth-first match of the remaining request
// segments against the tree starting at cur, transparently stepping
// through omitted branches and trying variable-capture branches in
// declared order when a literal child doesn't match (spec §4.3.2).
func walk(cur *atom.Node[string, *branch], remaining []string, args map[string]PathValue) (*atom.Node[string, *branch], string, bool) {
	b := cur.Element()

	// Step through any omitted children first: they consume no wire
	// segment, so descending into one re-tries the same `remaining`.
	for _, oc := range b.omittedChildren {
		if node, suffix, ok := walk(oc, remaining, args); ok {
			return node, suffix, true
		}
	}

	if len(remaining) == 0 {
		if b.endpoint != nil {
			return cur, "", true
		}
		// An Optional or EmptableVector capture may legally terminate here
		// with zero consumed segments; try each such child with nothing
		// left to bind.
		for _, vc := range b.varChildren {
			child := vc.Element().seg
			var absent PathValue
			switch child.variety {
			case Optional:
				absent = PathValue{Variety: Optional, Present: false}
			case EmptableVector:
				absent = PathValue{Variety: EmptableVector, Vector: []string{}, Present: true}
			default:
				continue
			}
			if node, suffix, ok := walk(vc, nil, withArg(args, child, absent)); ok {
				return node, suffix, true
			}
		}
		return nil, "", false
	}

	head, rest := remaining[0], remaining[1:]

	// Literal children: exact base match; on the terminal position also
	// check the suffix clause.
	for _, child := range cur.Children() {
		seg := child.Element().seg
		if seg.variety != Literal {
			continue
		}
		if len(rest) == 0 && len(seg.suffixes) > 0 {
			if suffix, ok := matchSuffix(boundary, seg.base, seg.suffixes, head); ok {
				if node, s2, ok := walk(child, rest, args); ok {
					if s2 == "" {
						s2 = suffix
					}
					return node, s2, true
				}
			}
			continue
		}
		if seg.base == head {
			if node, suffix, ok := walk(child, rest, args); ok {
				return node, suffix, true
			}
		}
	}

	// Capture children, tried in declared order (spec §4.3.2 tie-break).
	for _, vc := range b.varChildren {
		seg := vc.Element().seg
		switch seg.variety {
		case Required, Optional:
			if node, suffix, ok := walk(vc, rest, withArg(args, seg, PathValue{Variety: seg.variety, Scalar: head, Present: true})); ok {
				return node, suffix, true
			}
		case Vector, EmptableVector:
			if node, suffix, ok := walk(vc, nil, withArg(args, seg, PathValue{Variety: seg.variety, Vector: append([]string{head}, rest...), Present: true})); ok {
				return node, suffix, true
			}
		}
	}

	return nil, "", false
}

func withArg(args map[string]PathValue, seg segment, v PathValue) map[string]PathValue {
	out := make(map[string]PathValue, len(args)+1)
	for k, existing := range args {
		out[k] = existing
	}
	out[seg.name] = v
	return out
}
