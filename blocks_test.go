// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package mdhtml

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		markdown string
		want     []string
	}{
		{"", nil},
		{"\n\n\n", nil},
		{"one block", []string{"one block"}},
		{"  padded  \n", []string{"padded"}},
		{
			"# Heading\n\nParagraph\nstill paragraph\n\n- item\n- item",
			[]string{"# Heading", "Paragraph\nstill paragraph", "- item\n- item"},
		},
		{"a\n\n\n\n\nb", []string{"a", "b"}},
		{"a\n  \nb", []string{"a\n  \nb"}},
	}
	for _, test := range tests {
		got := Segment(test.markdown)
		if diff := cmp.Diff(test.want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Segment(%q) (-want +got):\n%s", test.markdown, diff)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		block string
		want  BlockType
	}{
		{"just text", BlockType{Kind: ParagraphKind}},
		{"# h1", BlockType{Kind: HeadingKind, Level: 1}},
		{"### h3", BlockType{Kind: HeadingKind, Level: 3}},
		{"###### h6", BlockType{Kind: HeadingKind, Level: 6}},
		{"####### h7", BlockType{Kind: ParagraphKind}},
		{"#hashtag", BlockType{Kind: ParagraphKind}},
		{"# multi\nline", BlockType{Kind: HeadingKind, Level: 1}},
		{"```\ncode\n```", BlockType{Kind: CodeBlockKind}},
		{"```go\ncode\n```", BlockType{Kind: CodeBlockKind}},
		{"``````", BlockType{Kind: CodeBlockKind}},
		{"```\nunterminated", BlockType{Kind: ParagraphKind}},
		{"> a\n> b", BlockType{Kind: QuoteKind}},
		{">a\n>b", BlockType{Kind: QuoteKind}},
		{"> a\nb", BlockType{Kind: ParagraphKind}},
		{"> a\n  \n> b", BlockType{Kind: ParagraphKind}},
		{"- a\n* b\n+ c", BlockType{Kind: UnorderedListKind}},
		{"- a\n   \n- b", BlockType{Kind: UnorderedListKind}},
		{"  - indented", BlockType{Kind: UnorderedListKind}},
		{"-no space", BlockType{Kind: ParagraphKind}},
		{"- a\nb", BlockType{Kind: ParagraphKind}},
		{"1. a\n2. b", BlockType{Kind: OrderedListKind}},
		{"1. a\n1. b\n42. c", BlockType{Kind: OrderedListKind}},
		{"1.a", BlockType{Kind: ParagraphKind}},
		{"1. a\nb", BlockType{Kind: ParagraphKind}},
		{"> # quoted heading", BlockType{Kind: QuoteKind}},
		{"# heading\n- with list line", BlockType{Kind: HeadingKind, Level: 1}},
		{"```\n> quote inside code\n```", BlockType{Kind: CodeBlockKind}},
	}
	for _, test := range tests {
		if got := Classify(test.block); got != test.want {
			t.Errorf("Classify(%q) = %v; want %v", test.block, got, test.want)
		}
	}
}

func TestSplitBlocks(t *testing.T) {
	got := SplitBlocks("# T\n\n1. x\n\ntext")
	want := []Block{
		{Source: "# T", Type: BlockType{Kind: HeadingKind, Level: 1}},
		{Source: "1. x", Type: BlockType{Kind: OrderedListKind}},
		{Source: "text", Type: BlockType{Kind: ParagraphKind}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SplitBlocks(...) (-want +got):\n%s", diff)
	}
}

func FuzzSegment(f *testing.F) {
	f.Add("")
	f.Add("# a\n\nb\n\n\n\n- c")
	f.Add("```\nx\n```\n\n> q")
	f.Add("\n \n\t\n")

	f.Fuzz(func(t *testing.T, markdown string) {
		for i, block := range Segment(markdown) {
			if strings.TrimSpace(block) == "" {
				t.Errorf("Segment(%q)[%d] is blank", markdown, i)
			}
			if strings.Contains(block, "\n\n") {
				t.Errorf("Segment(%q)[%d] = %q contains a blank line", markdown, i, block)
			}
			typ := Classify(block)
			if typ.Kind < ParagraphKind || typ.Kind > OrderedListKind {
				t.Errorf("Classify(%q) = %v", block, typ)
			}
			if (typ.Kind == HeadingKind) != (typ.Level > 0) || typ.Level > 6 {
				t.Errorf("Classify(%q) = %v; bad heading level", block, typ)
			}
			if again := Classify(block); again != typ {
				t.Errorf("Classify(%q) = %v, then %v", block, typ, again)
			}
		}
	})
}
