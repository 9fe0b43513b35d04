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
	"regexp"
	"strings"

	"golang.org/x/net/html/atom"
)

var headingTags = [...]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

// orderedMarkerPattern matches the "N. " prefix of an ordered list item.
var orderedMarkerPattern = regexp.MustCompile(`^\d+\. `)

// ToHTML converts a document to an HTML string.
// It is equivalent to calling [BuildDocument] followed by [Render].
func ToHTML(markdown string) (string, error) {
	root, err := BuildDocument(markdown)
	if err != nil {
		return "", err
	}
	return Render(root)
}

// BuildDocument parses a document into a div container
// holding one node per block.
// The returned tree shares no memory with any other call.
func BuildDocument(markdown string) (*Container, error) {
	root := &Container{Tag: atom.Div.String()}
	for _, b := range SplitBlocks(markdown) {
		n, err := blockNode(b)
		if err != nil {
			return nil, err
		}
		if n != nil {
			root.Children = append(root.Children, n)
		}
	}
	return root, nil
}

// blockNode converts a classified block into a node.
// It returns nil for a list that produced no items.
func blockNode(b Block) (Node, error) {
	switch b.Type.Kind {
	case HeadingKind:
		level := b.Type.Level
		children, err := inlineNodes(strings.TrimSpace(b.Source[level:]))
		if err != nil {
			return nil, err
		}
		return Element(headingTags[level-1].String(), children...), nil
	case CodeBlockKind:
		return codeBlockNode(b.Source), nil
	case QuoteKind:
		children, err := inlineNodes(strings.Join(QuoteLines(b.Source), " "))
		if err != nil {
			return nil, err
		}
		return Element(atom.Blockquote.String(), children...), nil
	case UnorderedListKind:
		return listNode(atom.Ul, ListItems(b))
	case OrderedListKind:
		return listNode(atom.Ol, ListItems(b))
	default:
		children, err := inlineNodes(b.Source)
		if err != nil {
			return nil, err
		}
		return Element(atom.P.String(), children...), nil
	}
}

func codeBlockNode(source string) Node {
	lang, body := CodeBlockContent(source)
	code := Element(atom.Code.String(), Text(body))
	if lang != "" {
		code.Attrs = []Attribute{{Key: "class", Value: "language-" + lang}}
	}
	return Element(atom.Pre.String(), code)
}

// CodeBlockContent splits a fenced code block into
// the first word after its opening fence and its body.
// The fence lines are dropped and the remaining lines are kept verbatim.
// A single-line block has an empty body and no language.
func CodeBlockContent(source string) (lang, body string) {
	lines := strings.Split(source, "\n")
	if len(lines) < 2 {
		return "", ""
	}
	info := strings.TrimPrefix(lines[0], codeFence)
	if words := strings.Fields(info); len(words) > 0 {
		lang = words[0]
	}
	return lang, strings.Join(lines[1:len(lines)-1], "\n")
}

// QuoteLines returns the lines of a quote block
// with the leading ">" removed and surrounding whitespace trimmed.
func QuoteLines(source string) []string {
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(strings.TrimPrefix(line, ">"))
	}
	return lines
}

// ListItems returns the text of each item in a list block,
// with the marker removed.
// Lines without a marker ("- ", "* ", "+ ", or "N. ") are skipped.
// ListItems returns nil for blocks that are not lists.
func ListItems(b Block) []string {
	var cutMarker func(string) (string, bool)
	switch b.Type.Kind {
	case UnorderedListKind:
		cutMarker = cutListMarker
	case OrderedListKind:
		cutMarker = func(line string) (string, bool) {
			loc := orderedMarkerPattern.FindStringIndex(line)
			if loc == nil {
				return "", false
			}
			return line[loc[1]:], true
		}
	default:
		return nil
	}
	var items []string
	for _, line := range strings.Split(b.Source, "\n") {
		if text, ok := cutMarker(strings.TrimSpace(line)); ok {
			items = append(items, text)
		}
	}
	return items
}

// listNode builds a list container with one item per entry.
// It returns nil if there are no items.
func listNode(tag atom.Atom, items []string) (Node, error) {
	if len(items) == 0 {
		return nil, nil
	}
	list := &Container{Tag: tag.String()}
	for _, text := range items {
		children, err := inlineNodes(text)
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			list.Children = append(list.Children, &Leaf{Tag: atom.Li.String(), Text: text})
			continue
		}
		list.Children = append(list.Children, Element(atom.Li.String(), children...))
	}
	return list, nil
}

func inlineNodes(text string) ([]Node, error) {
	spans, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	nodes := make([]Node, 0, len(spans))
	for _, s := range spans {
		nodes = append(nodes, SpanNode(s))
	}
	return nodes, nil
}

// SpanNode converts a span to the node it renders as.
// Links become an a container around their text
// and images become an img leaf whose alt attribute holds the content.
func SpanNode(s Span) Node {
	switch s.Kind {
	case BoldKind:
		return &Leaf{Tag: atom.B.String(), Text: s.Content}
	case ItalicKind:
		return &Leaf{Tag: atom.I.String(), Text: s.Content}
	case CodeKind:
		return &Leaf{Tag: atom.Code.String(), Text: s.Content}
	case LinkKind:
		return &Container{
			Tag:      atom.A.String(),
			Children: []Node{Text(s.Content)},
			Attrs:    []Attribute{{Key: "href", Value: s.Target}},
		}
	case ImageKind:
		return &Leaf{
			Tag: atom.Img.String(),
			Attrs: []Attribute{
				{Key: "src", Value: s.Target},
				{Key: "alt", Value: s.Content},
			},
		}
	default:
		return Text(s.Content)
	}
}
