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
	"sort"
	"strings"
)

// parseSuffixClause splits a literal segment's trailing suffix clause
// (spec §6.4: "name.ext1|ext2|", trailing empty alternative allowed) off
// its base name. The clause starts at the segment's first boundary
// character, not its last: an alternative is itself allowed to contain the
// boundary character (e.g. "tar.gz"), so splitting on the last occurrence
// would cut a compound extension in half. If segment has no boundary
// character at all, base is the whole segment and alts is [""] — the
// segment accepts no suffix, the same as "name." whose clause is a single
// empty alternative.
func parseSuffixClause(segment string, boundary byte) (base string, alts []string) {
	idx := strings.IndexByte(segment, boundary)
	if idx < 0 {
		return segment, []string{""}
	}
	base = segment[:idx]
	clause := segment[idx+1:]
	alts = strings.Split(clause, "|")
	return base, alts
}

// sortSuffixes orders alts per spec §4.2: alternatives with more boundary
// characters sort first (so "tar.gz" precedes "gz"), ties broken
// lexicographically. The ordering is total (distinct strings never compare
// equal), satisfying spec §8 invariant 6.
func sortSuffixes(boundary byte, alts []string) []string {
	out := append([]string(nil), alts...)
	sort.SliceStable(out, func(i, j int) bool {
		ci := strings.Count(out[i], string(boundary))
		cj := strings.Count(out[j], string(boundary))
		if ci != cj {
			return ci > cj
		}
		return out[i] < out[j]
	})
	return out
}

// matchSuffix returns the first alternative (in sortSuffixes order) for
// which tail equals base, or base+boundary+alt; "" is reported as ok when
// tail == base exactly. Returns ok=false if no alternative matches.
func matchSuffix(boundary byte, base string, suffixes []string, tail string) (suffix string, ok bool) {
	for _, alt := range suffixes {
		if alt == "" {
			if tail == base {
				return "", true
			}
			continue
		}
		if tail == base+string(boundary)+alt {
			return alt, true
		}
	}
	return "", false
}
