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
	"fmt"
	"regexp"
	"strings"
)

// BlockKind is an enumeration of values for [BlockType.Kind].
type BlockKind uint8

const (
	ParagraphKind BlockKind = 1 + iota
	HeadingKind
	CodeBlockKind
	QuoteKind
	UnorderedListKind
	OrderedListKind
)

func (k BlockKind) String() string {
	switch k {
	case ParagraphKind:
		return "ParagraphKind"
	case HeadingKind:
		return "HeadingKind"
	case CodeBlockKind:
		return "CodeBlockKind"
	case QuoteKind:
		return "QuoteKind"
	case UnorderedListKind:
		return "UnorderedListKind"
	case OrderedListKind:
		return "OrderedListKind"
	default:
		return fmt.Sprintf("BlockKind(%d)", uint8(k))
	}
}

// BlockType is the classification of a block.
type BlockType struct {
	Kind BlockKind
	// Level is the heading level (1-6) of a [HeadingKind] block
	// and zero for all other kinds.
	Level int
}

func (t BlockType) String() string {
	if t.Kind == HeadingKind {
		return fmt.Sprintf("%v(%d)", t.Kind, t.Level)
	}
	return t.Kind.String()
}

// Block is a blank-line-delimited chunk of a document
// together with its classification.
type Block struct {
	Source string
	Type   BlockType
}

// codeFence delimits a fenced code block.
const codeFence = "```"

var (
	headingPattern     = regexp.MustCompile(`^(#{1,6}) `)
	orderedItemPattern = regexp.MustCompile(`^\s*\d+\.\s+.+$`)
)

// unorderedMarkers are the accepted bullet list markers, including the space.
var unorderedMarkers = [...]string{"- ", "* ", "+ "}

// Segment splits a document on blank lines ("\n\n"),
// trims each chunk, and drops chunks that are empty after trimming.
// Runs of blank lines collapse to a single separator.
func Segment(markdown string) []string {
	var blocks []string
	for _, chunk := range strings.Split(markdown, "\n\n") {
		if chunk = strings.TrimSpace(chunk); chunk != "" {
			blocks = append(blocks, chunk)
		}
	}
	return blocks
}

// SplitBlocks segments a document and classifies each block.
func SplitBlocks(markdown string) []Block {
	sources := Segment(markdown)
	blocks := make([]Block, 0, len(sources))
	for _, src := range sources {
		blocks = append(blocks, Block{
			Source: src,
			Type:   Classify(src),
		})
	}
	return blocks
}

// Classify determines the type of a block from its shape.
// The checks are made in order and the first match wins:
// fenced code, quote, heading, unordered list, ordered list.
// Anything else is a paragraph.
func Classify(block string) BlockType {
	block = strings.TrimSpace(block)
	lines := strings.Split(block, "\n")
	switch {
	case isCodeBlock(lines):
		return BlockType{Kind: CodeBlockKind}
	case everyLine(lines, isQuoteLine):
		return BlockType{Kind: QuoteKind}
	case HeadingLevel(block) > 0:
		return BlockType{Kind: HeadingKind, Level: HeadingLevel(block)}
	case allLines(lines, isUnorderedItem):
		return BlockType{Kind: UnorderedListKind}
	case allLines(lines, orderedItemPattern.MatchString):
		return BlockType{Kind: OrderedListKind}
	default:
		return BlockType{Kind: ParagraphKind}
	}
}

// HeadingLevel returns the number of leading "#" characters
// if block starts with one to six of them followed by a space,
// or zero otherwise.
func HeadingLevel(block string) int {
	m := headingPattern.FindStringSubmatch(block)
	if m == nil {
		return 0
	}
	return len(m[1])
}

func isCodeBlock(lines []string) bool {
	return strings.HasPrefix(lines[0], codeFence) &&
		strings.HasSuffix(lines[len(lines)-1], codeFence)
}

func isQuoteLine(line string) bool {
	return strings.HasPrefix(line, ">")
}

func isUnorderedItem(line string) bool {
	_, ok := cutListMarker(strings.TrimSpace(line))
	return ok
}

// cutListMarker returns line without its leading bullet marker
// and whether one was found.
func cutListMarker(line string) (string, bool) {
	for _, marker := range unorderedMarkers {
		if rest, ok := strings.CutPrefix(line, marker); ok {
			return rest, true
		}
	}
	return line, false
}

// everyLine reports whether every line satisfies f.
func everyLine(lines []string, f func(string) bool) bool {
	for _, line := range lines {
		if !f(line) {
			return false
		}
	}
	return true
}

// allLines reports whether every non-blank line satisfies f.
func allLines(lines []string, f func(string) bool) bool {
	return everyLine(lines, func(line string) bool {
		return isBlankLine(line) || f(line)
	})
}

func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}
