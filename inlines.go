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
	"strings"

	"github.com/dlclark/regexp2"
)

// Span is a typed fragment of inline text.
type Span struct {
	Kind    SpanKind
	Content string
	// Target is the URL of a [LinkKind] or [ImageKind] span.
	// It is empty for all other kinds.
	Target string
}

// SpanKind is an enumeration of values for [Span.Kind].
type SpanKind uint8

const (
	PlainKind SpanKind = 1 + iota
	BoldKind
	ItalicKind
	CodeKind
	LinkKind
	ImageKind
)

func (k SpanKind) String() string {
	switch k {
	case PlainKind:
		return "PlainKind"
	case BoldKind:
		return "BoldKind"
	case ItalicKind:
		return "ItalicKind"
	case CodeKind:
		return "CodeKind"
	case LinkKind:
		return "LinkKind"
	case ImageKind:
		return "ImageKind"
	default:
		return fmt.Sprintf("SpanKind(%d)", uint8(k))
	}
}

var (
	imagePattern = regexp2.MustCompile(`!\[([^\[\]]*)\]\(([^\(\)]*)\)`, regexp2.None)
	// linkPattern refuses a leading "!" so that image syntax is never read as a link.
	linkPattern = regexp2.MustCompile(`(?<!!)\[([^\[\]]*)\]\(([^\(\)]*)\)`, regexp2.None)
)

// Inline delimiters, in the order they are split.
const (
	BoldDelimiter   = "**"
	ItalicDelimiter = "_"
	CodeDelimiter   = "`"
)

// Tokenize splits a run of inline text into spans.
// Images are extracted first, then links,
// then bold, italic, and code runs.
// Each stage only splits spans that are still [PlainKind],
// so formatting never nests.
// Empty plain text is dropped: Tokenize("") returns no spans.
func Tokenize(text string) ([]Span, error) {
	spans := []Span{{Kind: PlainKind, Content: text}}
	var err error
	for _, stage := range inlineStages {
		spans, err = stage(spans)
		if err != nil {
			return nil, err
		}
	}
	return spans, nil
}

var inlineStages = []func([]Span) ([]Span, error){
	SplitImages,
	SplitLinks,
	func(spans []Span) ([]Span, error) { return SplitDelimiter(spans, BoldDelimiter, BoldKind) },
	func(spans []Span) ([]Span, error) { return SplitDelimiter(spans, ItalicDelimiter, ItalicKind) },
	func(spans []Span) ([]Span, error) { return SplitDelimiter(spans, CodeDelimiter, CodeKind) },
}

// SplitImages replaces every ![alt](url) in the plain spans
// with an [ImageKind] span whose content is the alt text.
func SplitImages(spans []Span) ([]Span, error) {
	return splitPattern(spans, imagePattern, ImageKind)
}

// SplitLinks replaces every [text](url) in the plain spans
// with a [LinkKind] span.
// A bracket immediately preceded by "!" does not start a link.
func SplitLinks(spans []Span) ([]Span, error) {
	return splitPattern(spans, linkPattern, LinkKind)
}

func splitPattern(spans []Span, re *regexp2.Regexp, kind SpanKind) ([]Span, error) {
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Kind != PlainKind {
			out = append(out, s)
			continue
		}
		// regexp2 reports positions in runes.
		text := []rune(s.Content)
		start := 0
		m, err := re.FindRunesMatch(text)
		for ; m != nil && err == nil; m, err = re.FindNextMatch(m) {
			if m.Index > start {
				out = append(out, Span{Kind: PlainKind, Content: string(text[start:m.Index])})
			}
			out = append(out, Span{
				Kind:    kind,
				Content: m.GroupByNumber(1).String(),
				Target:  m.GroupByNumber(2).String(),
			})
			start = m.Index + m.Length
		}
		if err != nil {
			return nil, fmt.Errorf("split %v: %w", kind, err)
		}
		if start < len(text) {
			out = append(out, Span{Kind: PlainKind, Content: string(text[start:])})
		}
	}
	return out, nil
}

// SplitDelimiter splits the plain spans on balanced pairs of delim.
// Text between a pair becomes a span of the given kind
// (possibly empty); text outside the pairs stays plain.
// Pairs are matched left to right: an opener pairs with the next occurrence.
// If an opener has no matching close,
// SplitDelimiter returns an [*UnbalancedDelimiterError].
func SplitDelimiter(spans []Span, delim string, kind SpanKind) ([]Span, error) {
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Kind != PlainKind {
			out = append(out, s)
			continue
		}
		rest := s.Content
		for {
			open := strings.Index(rest, delim)
			if open < 0 {
				if rest != "" {
					out = append(out, Span{Kind: PlainKind, Content: rest})
				}
				break
			}
			inner := rest[open+len(delim):]
			end := strings.Index(inner, delim)
			if end < 0 {
				return nil, &UnbalancedDelimiterError{Delimiter: delim}
			}
			if open > 0 {
				out = append(out, Span{Kind: PlainKind, Content: rest[:open]})
			}
			out = append(out, Span{Kind: kind, Content: inner[:end]})
			rest = inner[end+len(delim):]
		}
	}
	return out, nil
}
