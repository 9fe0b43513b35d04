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
	"io"

	"golang.org/x/net/html/atom"
)

// RenderHTML writes the HTML serialization of root to w.
// Nothing is written if the tree is malformed.
func RenderHTML(w io.Writer, root Node) error {
	buf, err := AppendHTML(nil, root)
	if err != nil {
		return err
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("render markdown to html: %w", err)
	}
	return nil
}

// Render returns the HTML serialization of root.
func Render(root Node) (string, error) {
	buf, err := AppendHTML(nil, root)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// AppendHTML appends the HTML serialization of root to dst
// and returns the resulting byte slice.
// If the tree is malformed, AppendHTML returns dst unchanged
// and a [*StructuralError].
//
// Attributes are written in slice order and are not escaped.
// Elements named img are always written as self-closing tags;
// their children or text are ignored.
func AppendHTML(dst []byte, root Node) ([]byte, error) {
	r := &renderState{dst: dst}
	Walk(root, &WalkOptions{
		Pre:  r.pre,
		Post: r.post,
	})
	if r.err != nil {
		return dst, r.err
	}
	return r.dst, nil
}

type renderState struct {
	dst []byte
	err error
}

func (r *renderState) pre(c *Cursor) bool {
	if r.err != nil {
		return false
	}
	switch n := c.Node().(type) {
	case *Leaf:
		if n == nil {
			r.err = &StructuralError{Reason: "nil leaf"}
			return false
		}
		r.leaf(n)
		return false
	case *Container:
		if n == nil {
			r.err = &StructuralError{Reason: "nil container"}
			return false
		}
		switch {
		case n.Tag == atom.Img.String():
			r.selfClosingTag(n.Tag, n.Attrs)
			return false
		case n.Tag == "":
			r.err = &StructuralError{Reason: "container has no tag"}
			return false
		case len(n.Children) == 0:
			r.err = &StructuralError{Tag: n.Tag, Reason: "container has no children"}
			return false
		}
		r.openTag(n.Tag, n.Attrs)
		return true
	default:
		r.err = &StructuralError{Reason: fmt.Sprintf("unsupported node %T", n)}
		return false
	}
}

func (r *renderState) post(c *Cursor) bool {
	if n, ok := c.Node().(*Container); ok {
		r.closeTag(n.Tag)
	}
	return r.err == nil
}

func (r *renderState) leaf(n *Leaf) {
	switch {
	case n.Tag == "":
		r.dst = append(r.dst, n.Text...)
	case n.Tag == atom.Img.String():
		r.selfClosingTag(n.Tag, n.Attrs)
	case n.Text == "":
		r.err = &StructuralError{Tag: n.Tag, Reason: "leaf has no text"}
	default:
		r.openTag(n.Tag, n.Attrs)
		r.dst = append(r.dst, n.Text...)
		r.closeTag(n.Tag)
	}
}

func (r *renderState) openTagAttr(name string, attrs []Attribute) {
	r.dst = append(r.dst, '<')
	r.dst = append(r.dst, name...)
	r.dst = appendAttrs(r.dst, attrs)
}

func (r *renderState) openTag(name string, attrs []Attribute) {
	r.openTagAttr(name, attrs)
	r.dst = append(r.dst, '>')
}

func (r *renderState) selfClosingTag(name string, attrs []Attribute) {
	r.openTagAttr(name, attrs)
	r.dst = append(r.dst, "/>"...)
}

func (r *renderState) closeTag(name string) {
	r.dst = append(r.dst, "</"...)
	r.dst = append(r.dst, name...)
	r.dst = append(r.dst, '>')
}

// appendAttrs appends each attribute as ` key="value"`.
func appendAttrs(dst []byte, attrs []Attribute) []byte {
	for _, a := range attrs {
		dst = append(dst, ' ')
		dst = append(dst, a.Key...)
		dst = append(dst, `="`...)
		dst = append(dst, a.Value...)
		dst = append(dst, '"')
	}
	return dst
}
