// Package metadata builds the nested configuration tree described by the
// dotted-key metadata entries of an API description.
package metadata

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/mark3labs/apib2postman/internal/blueprint"
)

// Kind tags a Node as a scalar value or a mapping of child nodes.
type Kind int

const (
	Scalar Kind = iota
	Mapping
)

// Node is one element of the tree. Scalar nodes carry a value; mapping
// nodes carry children in first-insertion order. Nodes are not modified once
// Build returns.
type Node struct {
	kind     Kind
	value    any
	keys     []string
	children map[string]*Node
}

func newMapping() *Node {
	return &Node{kind: Mapping, children: map[string]*Node{}}
}

// Empty returns a mapping node without children.
func Empty() *Node { return newMapping() }

func nodeFor(v any) *Node {
	if m, ok := v.(map[string]any); ok {
		node := newMapping()
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			node.set(k, nodeFor(m[k]))
		}
		return node
	}
	return &Node{kind: Scalar, value: v}
}

// set replaces or appends a child. A replaced key keeps its position.
func (n *Node) set(key string, child *Node) {
	if _, ok := n.children[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.children[key] = child
}

func (n *Node) Kind() Kind { return n.kind }

// Value returns the scalar value, or nil for mappings.
func (n *Node) Value() any {
	if n.kind != Scalar {
		return nil
	}
	return n.value
}

// Keys returns the child keys of a mapping in insertion order.
func (n *Node) Keys() []string {
	return append([]string(nil), n.keys...)
}

// Get returns the named child of a mapping.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.kind != Mapping {
		return nil, false
	}
	c, ok := n.children[key]
	return c, ok
}

// Text returns the scalar value when it is a string.
func (n *Node) Text() (string, bool) {
	if n == nil || n.kind != Scalar {
		return "", false
	}
	s, ok := n.value.(string)
	return s, ok
}

// IsPrimitive reports whether the node is a string, number or boolean scalar.
func (n *Node) IsPrimitive() bool {
	if n == nil || n.kind != Scalar {
		return false
	}
	switch n.value.(type) {
	case string, bool, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

// Plain converts the node into plain Go values (map[string]any for mappings).
func (n *Node) Plain() any {
	if n == nil {
		return nil
	}
	if n.kind == Scalar {
		return n.value
	}
	out := make(map[string]any, len(n.keys))
	for _, k := range n.keys {
		out[k] = n.children[k].Plain()
	}
	return out
}

// MarshalJSON renders mappings as objects with keys in insertion order.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	if n.kind == Scalar {
		return json.Marshal(n.value)
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range n.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := n.children[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Tree is the metadata configuration of one description.
type Tree struct {
	root *Node
}

// Build folds the entries into a tree. For every entry the name is split on
// "." and nested mappings are created for all but the last segment, which is
// set to the entry's value. Later entries overwrite earlier ones, and a scalar
// that is later used as a parent is replaced by a mapping.
func Build(entries []blueprint.Metadata) *Tree {
	root := newMapping()
	for _, e := range entries {
		segments := strings.Split(e.Name, ".")
		target := root
		for _, seg := range segments[:len(segments)-1] {
			child, ok := target.children[seg]
			if !ok || child.kind != Mapping {
				child = newMapping()
				target.set(seg, child)
			}
			target = child
		}
		target.set(segments[len(segments)-1], nodeFor(e.Value))
	}
	return &Tree{root: root}
}

// Root returns the top-level mapping.
func (t *Tree) Root() *Node { return t.root }

// Keys returns the top-level keys in insertion order.
func (t *Tree) Keys() []string { return t.root.Keys() }

// Get returns a top-level node.
func (t *Tree) Get(key string) (*Node, bool) { return t.root.Get(key) }

// Lookup walks a dotted path, e.g. "AUTH.basic.username".
func (t *Tree) Lookup(path string) (*Node, bool) {
	n := t.root
	for _, seg := range strings.Split(path, ".") {
		var ok bool
		if n, ok = n.Get(seg); !ok {
			return nil, false
		}
	}
	return n, true
}

// With returns a copy of the tree with a top-level key set to a scalar value.
// The receiver is left untouched.
func (t *Tree) With(key string, value any) *Tree {
	root := newMapping()
	for _, k := range t.root.keys {
		root.set(k, t.root.children[k])
	}
	root.set(key, nodeFor(value))
	return &Tree{root: root}
}
