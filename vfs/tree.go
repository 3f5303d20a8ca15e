package vfs

import (
	"fmt"
	"strings"
)

// Tree is the hierarchical backend used by the sandbox interpreter.
type Tree struct {
	root       *Node
	home       string
	modifiedAt string
}

// NewTree validates the seed tree and takes a private copy of it. home must
// name an existing directory.
func NewTree(root *Node, home, modifiedAt string) (*Tree, error) {
	if err := Validate(root); err != nil {
		return nil, fmt.Errorf("invalid seed tree: %w", err)
	}
	t := &Tree{
		root:       root.Clone(),
		home:       "/",
		modifiedAt: modifiedAt,
	}

	if home != "" {
		node, abs, err := t.lookup(home, "/")
		if err != nil {
			return nil, fmt.Errorf("home directory %q: %w", home, err)
		}
		if !node.IsDir() {
			return nil, fmt.Errorf("home directory %q: %w", home, ErrNotDir)
		}
		t.home = abs
	}

	return t, nil
}

func (t *Tree) Home() string {
	return t.home
}

func (t *Tree) Root() *Node {
	return t.root
}

func (t *Tree) Resolve(path, cwd string) (Entry, string, error) {
	node, abs, err := t.lookup(path, cwd)
	if err != nil {
		return Entry{}, "", err
	}
	return t.entry(node, abs), abs, nil
}

func (t *Tree) ListChildren(dir string) ([]Entry, error) {
	node, abs, err := t.lookup(dir, "/")
	if err != nil {
		return nil, err
	}
	if !node.IsDir() {
		return nil, &PathError{Path: dir, Segment: node.Name, Err: ErrNotDir}
	}

	entries := make([]Entry, 0, len(node.Children))
	for _, child := range node.Children {
		entries = append(entries, t.entry(child, Join(abs, child.Name)))
	}
	return entries, nil
}

func (t *Tree) ReadFile(path, cwd string) (string, error) {
	node, _, err := t.lookup(path, cwd)
	if err != nil {
		return "", err
	}
	if node.IsDir() {
		return "", &PathError{Path: path, Segment: node.Name, Err: ErrIsDir}
	}
	return node.Content, nil
}

// lookup walks path from the root (absolute paths, ~) or from cwd. ".." never
// climbs above the root.
func (t *Tree) lookup(path, cwd string) (*Node, string, error) {
	target := path
	switch {
	case target == "":
		target = cwd
	case target == "~":
		target = t.home
	case strings.HasPrefix(target, "~/"):
		target = t.home + target[1:]
	}
	if !strings.HasPrefix(target, "/") {
		target = cwd + "/" + target
	}

	stack := []*Node{t.root}
	names := []string{}
	for _, seg := range strings.Split(target, "/") {
		cur := stack[len(stack)-1]
		if seg == "" || seg == "." {
			continue
		}
		if !cur.IsDir() {
			return nil, "", &PathError{Path: path, Segment: cur.Name, Err: ErrNotDir}
		}
		if seg == ".." {
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
				names = names[:len(names)-1]
			}
			continue
		}
		child, ok := cur.Child(seg)
		if !ok {
			return nil, "", &PathError{Path: path, Segment: seg, Err: ErrNotExist}
		}
		stack = append(stack, child)
		names = append(names, seg)
	}

	node := stack[len(stack)-1]
	if strings.HasSuffix(path, "/") && !node.IsDir() {
		return nil, "", &PathError{Path: path, Segment: node.Name, Err: ErrNotDir}
	}
	return node, "/" + strings.Join(names, "/"), nil
}

func (t *Tree) entry(n *Node, abs string) Entry {
	e := Entry{
		Name:        n.Name,
		Path:        abs,
		IsDir:       n.IsDir(),
		Size:        n.Size,
		Permissions: n.Permissions,
		ModifiedAt:  n.ModifiedAt,
		Links:       1,
	}
	if e.Permissions == "" {
		e.Permissions = DefaultPermissions(n.Name, e.IsDir)
	}
	if e.ModifiedAt == "" {
		e.ModifiedAt = t.modifiedAt
	}
	if e.IsDir {
		e.Links = 2
		for _, c := range n.Children {
			if c.IsDir() {
				e.Links++
			}
		}
		if e.Size == 0 {
			e.Size = DirSize
		}
	} else if e.Size == 0 {
		e.Size = int64(len(n.Content))
	}
	return e
}
