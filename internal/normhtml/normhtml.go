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

// Package normhtml provides helpers for comparing and checking HTML output
// in tests.
package normhtml

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"

	"go4.org/bytereplacer"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

var htmlEscaper = bytereplacer.New(
	"&", "&amp;",
	`'`, "&apos;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
)

// NormalizeHTML strips insignificant differences from an HTML fragment:
// attributes are sorted by key,
// void elements are written without a trailing slash,
// and runs of whitespace outside of pre elements collapse to a single space.
func NormalizeHTML(b []byte) []byte {
	type htmlAttribute struct {
		key   string
		value string
	}

	tok := html.NewTokenizerFragment(bytes.NewReader(b), "div")
	var output []byte
	preDepth := 0
	for {
		tt := tok.Next()
		switch tt {
		case html.ErrorToken:
			return output
		case html.TextToken:
			data := tok.Text()
			if preDepth == 0 {
				data = whitespaceRE.ReplaceAll(data, []byte(" "))
			}
			output = append(output, htmlEscaper.Replace(bytes.Clone(data))...)
		case html.EndTagToken:
			tagBytes, _ := tok.TagName()
			if atom.Lookup(tagBytes) == atom.Pre && preDepth > 0 {
				preDepth--
			}
			output = append(output, "</"...)
			output = append(output, tagBytes...)
			output = append(output, ">"...)
		case html.StartTagToken, html.SelfClosingTagToken:
			tagBytes, hasAttr := tok.TagName()
			tag := string(tagBytes)
			if atom.Lookup(tagBytes) == atom.Pre && tt == html.StartTagToken {
				preDepth++
			}
			output = append(output, "<"...)
			output = append(output, tag...)
			if hasAttr {
				var attrs []htmlAttribute
				for {
					k, v, more := tok.TagAttr()
					attrs = append(attrs, htmlAttribute{string(k), string(v)})
					if !more {
						break
					}
				}
				sort.Slice(attrs, func(i, j int) bool {
					return attrs[i].key < attrs[j].key
				})
				for _, attr := range attrs {
					output = append(output, " "...)
					output = append(output, attr.key...)
					output = append(output, `="`...)
					output = append(output, html.EscapeString(attr.value)...)
					output = append(output, `"`...)
				}
			}
			output = append(output, ">"...)
		case html.CommentToken:
			output = append(output, tok.Raw()...)
		}
	}
}

// CheckBalanced reports an error if any non-void element in the fragment
// is left open or closed out of order.
func CheckBalanced(b []byte) error {
	tok := html.NewTokenizerFragment(bytes.NewReader(b), "div")
	var open []string
	for {
		switch tok.Next() {
		case html.ErrorToken:
			if len(open) > 0 {
				return fmt.Errorf("unclosed elements %q", open)
			}
			return nil
		case html.StartTagToken:
			tagBytes, _ := tok.TagName()
			if !isVoid(atom.Lookup(tagBytes)) {
				open = append(open, string(tagBytes))
			}
		case html.EndTagToken:
			tagBytes, _ := tok.TagName()
			tag := string(tagBytes)
			if len(open) == 0 {
				return fmt.Errorf("</%s> without matching start tag", tag)
			}
			if last := open[len(open)-1]; last != tag {
				return fmt.Errorf("</%s> closes <%s>", tag, last)
			}
			open = open[:len(open)-1]
		}
	}
}

func isVoid(a atom.Atom) bool {
	switch a {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr,
		atom.Img, atom.Input, atom.Link, atom.Meta, atom.Source, atom.Track, atom.Wbr:
		return true
	default:
		return false
	}
}
