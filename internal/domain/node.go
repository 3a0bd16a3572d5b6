package domain

import (
	"fmt"
	"strings"
)

// Wire field names carrying a node's discriminator and identity
const (
	TypeField = "$Type"
	IDField   = "$ID"
)

// Node is one element of a document graph.
//
// Property values are one of: string, *Node, []any (whose elements may be
// *Node or scalars), or a scalar (bool, number, nil). Nodes without an ID can
// only be told apart by pointer identity.
type Node struct {
	Type  string
	ID    string
	Props []Property

	// DerivedID marks an ID the host assigned on load; it is never written back
	DerivedID bool
}

// Property is a named value owned by a node. Order follows the source document.
type Property struct {
	Name  string
	Value any
}

// NewNode creates a node with the given type tag and identifier
func NewNode(typeTag, id string, props ...Property) *Node {
	return &Node{Type: typeTag, ID: id, Props: props}
}

// P is shorthand for building a Property
func P(name string, value any) Property {
	return Property{Name: name, Value: value}
}

// HasID reports whether the node carries a stable identifier
func (n *Node) HasID() bool {
	return n != nil && n.ID != ""
}

// Get returns the value of the named property
func (n *Node) Get(name string) (any, bool) {
	if n == nil {
		return nil, false
	}
	for _, p := range n.Props {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// String returns the named property when it holds a string, or ""
func (n *Node) String(name string) string {
	v, _ := n.Get(name)
	s, _ := v.(string)
	return s
}

// Set replaces the named property, appending it when absent
func (n *Node) Set(name string, value any) {
	for i := range n.Props {
		if n.Props[i].Name == name {
			n.Props[i].Value = value
			return
		}
	}
	n.Props = append(n.Props, Property{Name: name, Value: value})
}

// Children returns every node directly referenced by the node's properties
func (n *Node) Children() []*Node {
	var out []*Node
	for _, p := range n.Props {
		switch v := p.Value.(type) {
		case *Node:
			if v != nil {
				out = append(out, v)
			}
		case []any:
			for _, item := range v {
				if child, ok := item.(*Node); ok && child != nil {
					out = append(out, child)
				}
			}
		}
	}
	return out
}

// FindByID returns the first reachable node (the receiver included) whose
// identifier equals id. Cycles are tolerated.
func (n *Node) FindByID(id string) *Node {
	if n == nil || id == "" {
		return nil
	}
	seen := make(map[*Node]struct{})
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[cur]; ok {
			continue
		}
		seen[cur] = struct{}{}
		if cur.ID == id {
			return cur
		}
		stack = append(stack, cur.Children()...)
	}
	return nil
}

// ApplyChanges applies set-property changes to the document rooted at n.
// Every change is checked before any is applied, so a failing batch leaves
// the document untouched.
func (n *Node) ApplyChanges(changes []Change) error {
	targets := make([]*Node, len(changes))
	for i, c := range changes {
		if c.Type != ChangeSetProperty {
			return fmt.Errorf("%w: %q", ErrUnsupportedChange, c.Type)
		}
		if strings.TrimSpace(c.PropertyName) == "" {
			return fmt.Errorf("%w: empty property name", ErrUnsupportedChange)
		}
		target := n.FindByID(c.TargetID)
		if target == nil {
			return fmt.Errorf("%w: %s", ErrTargetNotFound, c.TargetID)
		}
		targets[i] = target
	}
	for i, c := range changes {
		targets[i].Set(c.PropertyName, c.Value)
	}
	return nil
}
