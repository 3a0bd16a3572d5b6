package domain

import (
	"cmp"
	"slices"
)

// TreeNodeKind tells document rows from match rows in a result tree
type TreeNodeKind int

const (
	TreeRoot TreeNodeKind = iota
	TreeDocument
	TreeMatch
)

// TreeNode represents a row of the result tree for navigation
type TreeNode struct {
	Kind       TreeNodeKind
	Result     *SearchResult // set on document and match rows
	Match      *Match        // set on match rows
	Children   []*TreeNode
	IsExpanded bool
	Parent     *TreeNode
}

// BuildResultTree groups results under a hidden root, one document row per
// result with its matches as children. Documents start expanded.
func BuildResultTree(results []SearchResult) *TreeNode {
	root := &TreeNode{Kind: TreeRoot, IsExpanded: true}
	for i := range results {
		doc := &TreeNode{Kind: TreeDocument, Result: &results[i], IsExpanded: true, Parent: root}
		for j := range results[i].Matches {
			doc.Children = append(doc.Children, &TreeNode{
				Kind:   TreeMatch,
				Result: &results[i],
				Match:  &results[i].Matches[j],
				Parent: doc,
			})
		}
		root.Children = append(root.Children, doc)
	}
	return root
}

// Flatten returns all visible rows below the receiver (for list rendering)
func (n *TreeNode) Flatten() []*TreeNode {
	var result []*TreeNode
	n.flattenRecursive(&result)
	return result
}

func (n *TreeNode) flattenRecursive(result *[]*TreeNode) {
	if n.Kind != TreeRoot {
		*result = append(*result, n)
	}
	if n.IsExpanded {
		for _, child := range n.Children {
			child.flattenRecursive(result)
		}
	}
}

// Depth returns the depth of this node below the hidden root
func (n *TreeNode) Depth() int {
	depth := 0
	current := n.Parent
	for current != nil && current.Kind != TreeRoot {
		depth++
		current = current.Parent
	}
	return depth
}

// Toggle expands or collapses the node
func (n *TreeNode) Toggle() {
	n.IsExpanded = !n.IsExpanded
}

// Expand sets the node as expanded
func (n *TreeNode) Expand() {
	n.IsExpanded = true
}

// Collapse sets the node as collapsed
func (n *TreeNode) Collapse() {
	n.IsExpanded = false
}

// SortResults orders results by display name, then document ID, and the
// matches inside each result by path then owner/property key
func SortResults(results []SearchResult) {
	slices.SortFunc(results, func(a, b SearchResult) int {
		return cmp.Or(
			cmp.Compare(a.DisplayName, b.DisplayName),
			cmp.Compare(a.DocumentID, b.DocumentID),
		)
	})
	for i := range results {
		SortMatches(results[i].Matches)
	}
}

// SortMatches orders matches by path then owner/property key
func SortMatches(matches []Match) {
	slices.SortFunc(matches, func(a, b Match) int {
		return cmp.Or(
			cmp.Compare(a.PathDisplay(), b.PathDisplay()),
			cmp.Compare(a.Key(), b.Key()),
		)
	})
}

// CountMatches sums the matches across results
func CountMatches(results []SearchResult) int {
	total := 0
	for _, r := range results {
		total += len(r.Matches)
	}
	return total
}
