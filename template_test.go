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
	"errors"
	"testing"
)

func TestParseCaptureTokenVarieties(t *testing.T) {
	cases := []struct {
		tok     string
		name    string
		variety Variety
		ok      bool
	}{
		{"{id}", "id", Required, true},
		{"{id?}", "id", Optional, true},
		{"{ids*}", "ids", EmptableVector, true},
		{"{ids+}", "ids", Vector, true},
		{"plain", "", 0, false},
		{"{}", "", 0, false},
		{"{?}", "", 0, false},
	}
	for _, c := range cases {
		name, variety, ok := parseCaptureToken(c.tok)
		if ok != c.ok {
			t.Fatalf("parseCaptureToken(%q) ok = %v, want %v", c.tok, ok, c.ok)
		}
		if !ok {
			continue
		}
		if name != c.name || variety != c.variety {
			t.Fatalf("parseCaptureToken(%q) = (%q, %v), want (%q, %v)", c.tok, name, variety, c.name, c.variety)
		}
	}
}

func TestParseTemplateMixedSegments(t *testing.T) {
	segs, err := parseTemplate("/article/(v1)/{id}/detail.html|json|")
	if err != nil {
		t.Fatalf("parseTemplate: %v", err)
	}
	if len(segs) != 4 {
		t.Fatalf("len(segs) = %d, want 4", len(segs))
	}
	if segs[0].variety != Literal || segs[0].base != "article" {
		t.Fatalf("segs[0] = %+v", segs[0])
	}
	if !segs[1].omitted || segs[1].base != "v1" {
		t.Fatalf("segs[1] = %+v, want omitted v1", segs[1])
	}
	if segs[2].variety != Required || segs[2].name != "id" {
		t.Fatalf("segs[2] = %+v", segs[2])
	}
	if segs[3].base != "detail" || len(segs[3].suffixes) != 3 {
		t.Fatalf("segs[3] = %+v", segs[3])
	}
}

func TestParseTemplateRejectsEmptySegment(t *testing.T) {
	_, err := parseTemplate("article//detail")
	if !errors.Is(err, ErrBadTemplate) {
		t.Fatalf("err = %v, want ErrBadTemplate", err)
	}
}

func TestParseTemplateRejectsNonTerminalVector(t *testing.T) {
	_, err := parseTemplate("article/{ids+}/detail")
	if !errors.Is(err, ErrBadTemplate) {
		t.Fatalf("err = %v, want ErrBadTemplate", err)
	}
}

func TestParseTemplateEmptyIsRoot(t *testing.T) {
	segs, err := parseTemplate("/")
	if err != nil {
		t.Fatalf("parseTemplate: %v", err)
	}
	if len(segs) != 0 {
		t.Fatalf("len(segs) = %d, want 0", len(segs))
	}
}
