// Package tree holds the key/value form of an XML document.
//
// An element becomes a Node: attributes are stored under AttrPrefix+name,
// child elements under their tag name and text under TextKey. An element
// with neither attributes nor children collapses to its text. A child that
// occurs once is stored as a bare value, a repeated child as a []any.
// Elements with children also record their children's tag names in
// document order under OrderKey. The accessors below hide that ambiguity from callers.
package tree

import (
	"strconv"
	"strings"
)

const (
	AttrPrefix = "_"
	TextKey    = "#text"
	// OrderKey lists the tag names of an element's children in document
	// order, repeats included.
	OrderKey = "#order"
)

type Node map[string]any

// Values returns the occurrences of key as a list, whatever its stored
// shape. Missing keys give an empty list.
func (n Node) Values(key string) []any {
	if n == nil {
		return nil
	}
	v, ok := n[key]
	if !ok || v == nil {
		return nil
	}
	if list, ok := v.([]any); ok {
		return list
	}
	return []any{v}
}

// Nodes is Values with every occurrence lifted to a Node. Text-only
// occurrences become a Node holding just TextKey.
func (n Node) Nodes(key string) []Node {
	values := n.Values(key)
	res := make([]Node, 0, len(values))
	for _, v := range values {
		res = append(res, asNode(v))
	}
	return res
}

// Child returns the first occurrence of key as a Node, or nil.
func (n Node) Child(key string) Node {
	values := n.Values(key)
	if len(values) == 0 {
		return nil
	}
	return asNode(values[0])
}

// Has reports whether the path of child keys exists. Lists along the way
// match when any of their elements continues the path.
func (n Node) Has(path ...string) bool {
	if n == nil {
		return false
	}
	if len(path) == 0 {
		return true
	}
	for _, v := range n.Values(path[0]) {
		if len(path) == 1 {
			return true
		}
		if asNode(v).Has(path[1:]...) {
			return true
		}
	}
	return false
}

// Text returns the text of the first occurrence of key.
func (n Node) Text(key string) string {
	values := n.Values(key)
	if len(values) == 0 {
		return ""
	}
	return textOf(values[0])
}

// OwnText returns the node's own text content.
func (n Node) OwnText() string {
	if n == nil {
		return ""
	}
	s, _ := n[TextKey].(string)
	return s
}

// ChildOrder returns the tag names of the children in document order.
func (n Node) ChildOrder() []string {
	if n == nil {
		return nil
	}
	order, _ := n[OrderKey].([]string)
	return order
}

func (n Node) Attr(name string) string {
	if n == nil {
		return ""
	}
	s, _ := n[AttrPrefix+name].(string)
	return s
}

// Int parses the text of key. ok is false when it is absent or not an
// integer.
func (n Node) Int(key string) (int, bool) {
	s := strings.TrimSpace(n.Text(key))
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (n Node) Float(key string) (float64, bool) {
	s := strings.TrimSpace(n.Text(key))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func asNode(v any) Node {
	switch t := v.(type) {
	case Node:
		return t
	case map[string]any:
		return Node(t)
	case string:
		return Node{TextKey: t}
	}
	return nil
}

func textOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case Node:
		return t.OwnText()
	case map[string]any:
		return Node(t).OwnText()
	}
	return ""
}
