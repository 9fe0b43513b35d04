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

// Node is an element of the HTML tree produced by [BuildDocument].
// A Node is either a [*Leaf] or a [*Container];
// no other implementations exist.
type Node interface {
	node()
}

// Attribute is a single HTML attribute.
type Attribute struct {
	Key   string
	Value string
}

// Leaf is a terminal node.
// A Leaf with an empty Tag renders as its raw Text.
type Leaf struct {
	Tag   string
	Text  string
	Attrs []Attribute
}

// Container is a node that wraps an ordered list of children.
type Container struct {
	Tag      string
	Children []Node
	Attrs    []Attribute
}

func (*Leaf) node()      {}
func (*Container) node() {}

// Text returns an untagged leaf holding s.
func Text(s string) *Leaf {
	return &Leaf{Text: s}
}

// Element returns a container with the given tag and children.
func Element(tag string, children ...Node) *Container {
	return &Container{Tag: tag, Children: children}
}

// Attr returns the value of the attribute with the given key
// and whether it is present.
func Attr(n Node, key string) (string, bool) {
	var attrs []Attribute
	switch n := n.(type) {
	case *Leaf:
		attrs = n.Attrs
	case *Container:
		attrs = n.Attrs
	}
	for _, a := range attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// ChildCount returns the number of children the node has.
// Calling ChildCount on a leaf or nil returns 0.
func ChildCount(n Node) int {
	if c, ok := n.(*Container); ok && c != nil {
		return len(c.Children)
	}
	return 0
}

// Child returns the i'th child of the node.
func Child(n Node, i int) Node {
	c, ok := n.(*Container)
	if !ok {
		panic("Child on non-container Node")
	}
	return c.Children[i]
}
