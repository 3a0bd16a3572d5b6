// Package matcher walks one document graph and reports the name-like
// properties that contain a search term.
package matcher

import (
	"strings"

	"mxfind/internal/domain"
)

const (
	variableTypeProp = "variableType"
	initialValueProp = "initialValue"
)

type frame struct {
	node        *domain.Node
	elementID   string
	elementType string
	label       string
	path        []string
}

// FindMatches walks the document rooted at root depth-first and returns one
// match per owner/property pair whose string value contains termLower.
//
// owner supplies the collection label that opens every path together with the
// collection and model keys stamped on each match. termLower must already be
// lowercased; an empty term matches nothing.
func FindMatches(root *domain.Node, termLower string, info domain.DocumentInfo, owner domain.Descriptor) []domain.Match {
	if root == nil || termLower == "" {
		return nil
	}

	rootID := root.ID
	if rootID == "" {
		rootID = info.ID
	}
	rootType := root.Type
	if rootType == "" {
		rootType = info.Type
	}
	rootLabel := domain.DeriveLabel(root, info.Name, "")

	var path []string
	for _, seg := range []string{owner.Label, info.ModuleName, rootLabel} {
		if !domain.IsBlank(seg) {
			path = append(path, seg)
		}
	}
	if len(path) == 0 {
		path = []string{firstNonBlank(owner.Label, "Document")}
	}

	var (
		matches   []domain.Match
		seenIDs   = make(map[string]struct{})
		seenNodes = make(map[*domain.Node]struct{})
		seenKeys  = make(map[string]struct{})
	)

	stack := []frame{{
		node:        root,
		elementID:   rootID,
		elementType: rootType,
		label:       firstNonBlank(rootLabel, owner.Label, "Document"),
		path:        path,
	}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := cur.node
		if node.ID != "" {
			if _, ok := seenIDs[node.ID]; ok {
				continue
			}
			seenIDs[node.ID] = struct{}{}
			cur.elementID = node.ID
		} else {
			if _, ok := seenNodes[node]; ok {
				continue
			}
			seenNodes[node] = struct{}{}
		}
		if node.Type != "" {
			cur.elementType = node.Type
		}

		label := cur.label
		nodePath := cur.path
		if derived := domain.DeriveLabel(node, cur.label, ""); derived != "" {
			label = derived
			nodePath = domain.AppendToPath(nodePath, derived)
		}

		for _, prop := range node.Props {
			if strings.HasPrefix(prop.Name, "$") || prop.Value == nil {
				continue
			}

			switch v := prop.Value.(type) {
			case string:
				value := strings.TrimSpace(v)
				if value == "" || !strings.Contains(strings.ToLower(value), termLower) {
					continue
				}
				if !domain.IsNameLike(prop.Name) {
					continue
				}
				ownerID := cur.elementID
				if ownerID == "" {
					continue
				}
				key := ownerID + "::" + prop.Name
				if _, ok := seenKeys[key]; ok {
					continue
				}
				seenKeys[key] = struct{}{}

				class := domain.Classify(cur.elementType, prop.Name, label)
				modelKey := owner.ModelKey
				if node == root && prop.Name == "name" {
					modelKey = domain.ProjectsKey
				}
				raw := ""
				if v != value {
					raw = v
				}
				matches = append(matches, domain.Match{
					Value:         value,
					RawValue:      raw,
					TargetID:      ownerID,
					PropertyName:  prop.Name,
					PropertyLabel: domain.HumanizeProperty(prop.Name),
					ElementType:   cur.elementType,
					Kind:          class.Kind,
					KindLabel:     class.Label,
					ValueType:     valueType(node, class.ValueType),
					InitialValue:  node.String(initialValueProp),
					Caption:       firstNonBlank(label, class.Label),
					Path:          nodePath,
					CollectionKey: owner.CollectionKey,
					ModelKey:      modelKey,
				})

			case []any:
				propLabel := domain.HumanizeProperty(prop.Name)
				for _, item := range v {
					child, ok := item.(*domain.Node)
					if !ok || child == nil {
						continue
					}
					stack = append(stack, childFrame(cur, child, nodePath, propLabel, prop.Name))
				}

			case *domain.Node:
				if v == nil {
					continue
				}
				propLabel := domain.HumanizeProperty(prop.Name)
				stack = append(stack, childFrame(cur, v, nodePath, propLabel, prop.Name))
			}
		}
	}
	return matches
}

func childFrame(parent frame, child *domain.Node, path []string, propLabel, propName string) frame {
	childLabel := domain.DeriveLabel(child, propLabel, propName)
	f := frame{
		node:        child,
		elementID:   parent.elementID,
		elementType: parent.elementType,
		label:       childLabel,
		path:        domain.AppendToPath(path, propLabel, childLabel),
	}
	if child.ID != "" {
		f.elementID = child.ID
	}
	if child.Type != "" {
		f.elementType = child.Type
	}
	return f
}

// valueType reads the owner's declared variable type, either a nested type
// node or a plain string, and falls back to the classifier's label.
func valueType(n *domain.Node, fallback string) string {
	v, _ := n.Get(variableTypeProp)
	switch t := v.(type) {
	case *domain.Node:
		if t != nil && t.Type != "" {
			return t.Type
		}
	case string:
		return t
	}
	return fallback
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if !domain.IsBlank(v) {
			return v
		}
	}
	return ""
}
