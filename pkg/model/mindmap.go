package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// GeneratedMindMapDepth is the number of hierarchical levels of a freshly
// generated mind map: the root plus three descendant tiers. Manual edits may
// change the shape afterward.
const GeneratedMindMapDepth = 4

// MindMapNode is a titled tree node. Nodes have no stable identifier: lookups
// match by title, and an ambiguous title resolves to the first node found in
// depth-first document order. Sibling titles are expected to be unique by
// construction but this is not enforced.
type MindMapNode struct {
	Title    string         `firestore:"title" json:"title"`
	Children []*MindMapNode `firestore:"children,omitempty" json:"children,omitempty"`
}

// NodePath is a root-to-node path expressed as titles joined by ">".
type NodePath []string

// ParseNodePath splits a ">"-separated path string, trimming whitespace around
// each segment. An empty path is invalid.
func ParseNodePath(s string) (NodePath, error) {
	parts := strings.Split(s, ">")
	path := make(NodePath, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, goerr.Wrap(ErrInvalidInput, "node path has an empty segment", goerr.V("path", s))
		}
		path = append(path, p)
	}
	if len(path) == 0 {
		return nil, goerr.Wrap(ErrInvalidInput, "node path is empty")
	}
	return path, nil
}

func (p NodePath) String() string {
	return strings.Join(p, ">")
}

// FindByTitle returns the first node titled exactly title in depth-first order
// (the node itself first, then children in array order), or nil.
func (n *MindMapNode) FindByTitle(title string) *MindMapNode {
	if n == nil {
		return nil
	}
	if n.Title == title {
		return n
	}
	for _, child := range n.Children {
		if found := child.FindByTitle(title); found != nil {
			return found
		}
	}
	return nil
}

// WalkPath resolves a root-to-node path. The first segment must equal the root
// title, every later segment must match a direct child one level down.
func (n *MindMapNode) WalkPath(path NodePath) (*MindMapNode, error) {
	if n == nil {
		return nil, goerr.Wrap(ErrNotFound, "mind map is empty")
	}
	if len(path) == 0 {
		return nil, goerr.Wrap(ErrInvalidInput, "node path is empty")
	}
	if n.Title != path[0] {
		return nil, goerr.Wrap(ErrPathMismatch, "root title does not match",
			goerr.V("root", n.Title), goerr.V("segment", path[0]))
	}

	current := n
	for i, segment := range path[1:] {
		var next *MindMapNode
		for _, child := range current.Children {
			if child.Title == segment {
				next = child
				break
			}
		}
		if next == nil {
			return nil, goerr.Wrap(ErrNotFound, "node not found on path",
				goerr.V("path", path.String()), goerr.V("segment", segment), goerr.V("depth", i+1))
		}
		current = next
	}

	return current, nil
}

// RemoveChild removes the first direct child titled exactly title and reports
// whether a child was removed.
func (n *MindMapNode) RemoveChild(title string) bool {
	for i, child := range n.Children {
		if child.Title == title {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return true
		}
	}
	return false
}

// Depth returns the number of levels of the tree rooted at n
func (n *MindMapNode) Depth() int {
	if n == nil {
		return 0
	}
	max := 0
	for _, child := range n.Children {
		if d := child.Depth(); d > max {
			max = d
		}
	}
	return max + 1
}

// Truncate prunes the tree so that no path exceeds maxDepth levels
func (n *MindMapNode) Truncate(maxDepth int) {
	if n == nil {
		return
	}
	if maxDepth <= 1 {
		n.Children = nil
		return
	}
	for _, child := range n.Children {
		child.Truncate(maxDepth - 1)
	}
}

// Validate checks that every node of the tree carries a title
func (n *MindMapNode) Validate() error {
	if n == nil {
		return goerr.Wrap(ErrInvalidInput, "mind map node is nil")
	}
	if strings.TrimSpace(n.Title) == "" {
		return goerr.Wrap(ErrInvalidInput, "mind map node title is empty")
	}
	for _, child := range n.Children {
		if err := child.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy of the tree rooted at n
func (n *MindMapNode) Clone() *MindMapNode {
	if n == nil {
		return nil
	}
	copied := &MindMapNode{Title: n.Title}
	if len(n.Children) > 0 {
		copied.Children = make([]*MindMapNode, 0, len(n.Children))
		for _, child := range n.Children {
			copied.Children = append(copied.Children, child.Clone())
		}
	}
	return copied
}
