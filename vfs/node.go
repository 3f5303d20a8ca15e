// Package vfs models the synthetic filesystems the interpreters run against.
package vfs

import (
	"fmt"
	"strings"
)

// Kind is the type of a filesystem node.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// Node is a file or directory in an in-memory tree. Only directories own children.
type Node struct {
	Name        string  `json:"name" yaml:"name"`
	Kind        Kind    `json:"kind" yaml:"kind"`
	Content     string  `json:"content,omitempty" yaml:"content,omitempty"`
	Children    []*Node `json:"children,omitempty" yaml:"children,omitempty"`
	Permissions string  `json:"permissions,omitempty" yaml:"permissions,omitempty"`
	Size        int64   `json:"size,omitempty" yaml:"size,omitempty"`
	ModifiedAt  string  `json:"modifiedAt,omitempty" yaml:"modifiedAt,omitempty"`
}

// NewDirectory returns a directory node with the given children.
func NewDirectory(name string, children ...*Node) *Node {
	return &Node{Name: name, Kind: KindDirectory, Children: children}
}

// NewFile returns a file node.
func NewFile(name, content string) *Node {
	return &Node{Name: name, Kind: KindFile, Content: content}
}

func (n *Node) IsDir() bool {
	return n.Kind == KindDirectory
}

// Child returns the direct child with the given name.
func (n *Node) Child(name string) (*Node, bool) {
	for _, c := range n.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return &c
}

// Validate checks the structural invariants of a seed tree: a single directory
// root named "/", children only under directories, unique sibling names.
func Validate(root *Node) error {
	if root == nil {
		return fmt.Errorf("seed tree has no root")
	}
	if !root.IsDir() || root.Name != "/" {
		return fmt.Errorf("seed tree root must be a directory named \"/\", got %s %q", root.Kind, root.Name)
	}
	return validateChildren(root, "/")
}

func validateChildren(dir *Node, dirPath string) error {
	seen := make(map[string]bool, len(dir.Children))
	for _, child := range dir.Children {
		if child == nil {
			return fmt.Errorf("%s: nil child", dirPath)
		}
		if child.Name == "" || child.Name == "." || child.Name == ".." || strings.Contains(child.Name, "/") {
			return fmt.Errorf("%s: invalid name %q", dirPath, child.Name)
		}
		if seen[child.Name] {
			return fmt.Errorf("%s: duplicate entry %q", dirPath, child.Name)
		}
		seen[child.Name] = true

		childPath := Join(dirPath, child.Name)
		switch child.Kind {
		case KindDirectory:
			if err := validateChildren(child, childPath); err != nil {
				return err
			}
		case KindFile:
			if len(child.Children) > 0 {
				return fmt.Errorf("%s: file has children", childPath)
			}
		default:
			return fmt.Errorf("%s: unknown kind %q", childPath, child.Kind)
		}
	}
	return nil
}

// Join builds a child path from parent + name.
func Join(parent, name string) string {
	if parent == "/" {
		return "/" + name
	}
	return parent + "/" + name
}

// CountNodes counts all nodes in a tree.
func CountNodes(root *Node) int {
	if root == nil {
		return 0
	}
	count := 1
	for _, child := range root.Children {
		count += CountNodes(child)
	}
	return count
}
