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

	"github.com/idrunk/dce/atom"
)

// branch is one node's payload in the routing trie (spec §3's Branch type).
// Every declared path template is decomposed into a chain of branches, one
// per segment; the API descriptor itself is only attached to the branch
// that terminates its template.
type branch struct {
	seg segment

	// endpoint is non-nil when an API's template ends exactly at this
	// branch.
	endpoint *API

	// isMidVar marks a Required capture branch that itself has children,
	// i.e. it sits mid-path rather than terminating a template (spec §3
	// invariant 2).
	isMidVar bool

	// varChildren lists this branch's capture-variety children in
	// declaration order, used by Step B of resolution to try alternative
	// capture branches in insertion order when more than one is viable
	// (spec §4.3.2).
	varChildren []*atom.Node[string, *branch]

	// omittedChildren lists this branch's omitted-literal children, which
	// Step B must also be willing to step through transparently since they
	// consume no path segment on the wire.
	omittedChildren []*atom.Node[string, *branch]
}

// branchKey identifies a branch among its siblings: a capture branch is
// keyed by variety and name so two differently-named captures at the same
// tree depth remain distinct; every other branch is keyed by its literal
// base text (the suffix clause, if any, is not part of the key — it
// belongs to the one API that terminates there, not to sibling
// disambiguation).
func branchKey(seg segment) string {
	if seg.variety.IsCapture() {
		return fmt.Sprintf("%s:%s", seg.variety, seg.name)
	}
	return seg.base
}

func (b *branch) Key() string { return branchKey(b.seg) }

// ChildOf is part of atom.Keyer but unused by the router: branches are
// inserted level-by-level against an explicit parent node while walking a
// template's own segment list (see Router.Ready), never through
// atom.Tree.Build's ancestor search, so any placement is valid here.
func (b *branch) ChildOf(any) bool { return true }

func newBranch(seg segment) *branch {
	return &branch{seg: seg}
}

// registerTemplate walks segs under root, creating or reusing a branch node
// per segment, and returns the terminal node. It records var/omitted
// children on each traversed parent as it goes.
func registerTemplate(root *atom.Node[string, *branch], segs []segment) *atom.Node[string, *branch] {
	cur := root
	for _, seg := range segs {
		b := newBranch(seg)
		child := cur.SetIfAbsent(b)
		if seg.omitted {
			cur.Element().addOmittedChild(child)
		}
		if seg.variety.IsCapture() {
			cur.Element().addVarChild(child)
		}
		cur = child
	}
	return cur
}

func (b *branch) addVarChild(child *atom.Node[string, *branch]) {
	for _, existing := range b.varChildren {
		if existing == child {
			return
		}
	}
	b.varChildren = append(b.varChildren, child)
}

func (b *branch) addOmittedChild(child *atom.Node[string, *branch]) {
	for _, existing := range b.omittedChildren {
		if existing == child {
			return
		}
	}
	b.omittedChildren = append(b.omittedChildren, child)
}
