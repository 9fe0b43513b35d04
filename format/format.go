// Copyright 2024 Ross Light
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

// Package format provides a function to format a Markdown document
// into a canonical form that converts to the same HTML.
package format

import (
	"io"
	"strconv"
	"strings"

	"zombiezen.com/go/mdhtml"
)

const codeFence = "```"

// Format writes the canonical form of a Markdown document to w.
// Blocks are separated by exactly one blank line,
// bullet lists use "- ", ordered lists are renumbered from 1,
// and every quote line starts with "> ".
// Format returns an error without writing anything
// if the document's inline text cannot be tokenized.
func Format(w io.Writer, markdown string) error {
	var buf []byte
	for _, b := range mdhtml.SplitBlocks(markdown) {
		start := len(buf)
		if start > 0 {
			buf = append(buf, "\n\n"...)
		}
		blockStart := len(buf)
		var err error
		buf, err = AppendBlock(buf, b)
		if err != nil {
			return err
		}
		if len(buf) == blockStart {
			buf = buf[:start]
		}
	}
	if len(buf) > 0 {
		buf = append(buf, '\n')
	}
	ww := &errWriter{w: w}
	ww.Write(buf)
	return ww.err
}

// AppendBlock appends the canonical form of a block to dst
// and returns the resulting byte slice.
// Lists without items produce no output.
func AppendBlock(dst []byte, b mdhtml.Block) ([]byte, error) {
	switch b.Type.Kind {
	case mdhtml.HeadingKind:
		spans, err := mdhtml.Tokenize(strings.TrimSpace(b.Source[b.Type.Level:]))
		if err != nil {
			return dst, err
		}
		dst = append(dst, strings.Repeat("#", b.Type.Level)...)
		dst = append(dst, ' ')
		return AppendInline(dst, spans), nil
	case mdhtml.CodeBlockKind:
		lang, body := mdhtml.CodeBlockContent(b.Source)
		dst = append(dst, codeFence...)
		dst = append(dst, lang...)
		dst = append(dst, '\n')
		if body != "" {
			dst = append(dst, body...)
			dst = append(dst, '\n')
		}
		return append(dst, codeFence...), nil
	case mdhtml.QuoteKind:
		// Quote lines are joined before tokenizing,
		// so formatting may span lines and each line is kept.
		lines := mdhtml.QuoteLines(b.Source)
		if _, err := mdhtml.Tokenize(strings.Join(lines, " ")); err != nil {
			return dst, err
		}
		for i, line := range lines {
			if i > 0 {
				dst = append(dst, '\n')
			}
			dst = append(dst, '>')
			if line != "" {
				dst = append(dst, ' ')
				dst = append(dst, line...)
			}
		}
		return dst, nil
	case mdhtml.UnorderedListKind, mdhtml.OrderedListKind:
		for i, item := range mdhtml.ListItems(b) {
			spans, err := mdhtml.Tokenize(item)
			if err != nil {
				return dst, err
			}
			if i > 0 {
				dst = append(dst, '\n')
			}
			if b.Type.Kind == mdhtml.OrderedListKind {
				dst = strconv.AppendInt(dst, int64(i+1), 10)
				dst = append(dst, ". "...)
			} else {
				dst = append(dst, "- "...)
			}
			dst = AppendInline(dst, spans)
		}
		return dst, nil
	default:
		spans, err := mdhtml.Tokenize(b.Source)
		if err != nil {
			return dst, err
		}
		return AppendInline(dst, spans), nil
	}
}

// AppendInline appends the Markdown source of a sequence of spans to dst
// and returns the resulting byte slice.
func AppendInline(dst []byte, spans []mdhtml.Span) []byte {
	for _, s := range spans {
		switch s.Kind {
		case mdhtml.BoldKind:
			dst = appendDelimited(dst, mdhtml.BoldDelimiter, s.Content)
		case mdhtml.ItalicKind:
			dst = appendDelimited(dst, mdhtml.ItalicDelimiter, s.Content)
		case mdhtml.CodeKind:
			dst = appendDelimited(dst, mdhtml.CodeDelimiter, s.Content)
		case mdhtml.ImageKind:
			dst = append(dst, '!')
			dst = appendLink(dst, s.Content, s.Target)
		case mdhtml.LinkKind:
			dst = appendLink(dst, s.Content, s.Target)
		default:
			dst = append(dst, s.Content...)
		}
	}
	return dst
}

func appendDelimited(dst []byte, delim, content string) []byte {
	dst = append(dst, delim...)
	dst = append(dst, content...)
	return append(dst, delim...)
}

func appendLink(dst []byte, text, target string) []byte {
	dst = append(dst, '[')
	dst = append(dst, text...)
	dst = append(dst, "]("...)
	dst = append(dst, target...)
	return append(dst, ')')
}

type errWriter struct {
	w   io.Writer
	err error
}

func (w *errWriter) Write(p []byte) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	n, w.err = w.w.Write(p)
	return n, w.err
}
