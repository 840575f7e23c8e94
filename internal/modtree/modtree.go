// Package modtree arranges discovered Python files into the package and
// module hierarchy the import system would see.
package modtree

import (
	"path/filepath"
	"strings"
)

// Node is one entry in the module tree. Directories become packages,
// .py and .pyi files become modules. Children keep the sorted order of
// the file list they were built from.
type Node struct {
	Name     string  `json:"name" yaml:"name"`
	Type     string  `json:"type" yaml:"type"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

const (
	TypePackage = "package"
	TypeModule  = "module"
)

// Build folds a sorted file list into a tree rooted at base. The base
// directory itself becomes the root package, named after its directory.
// An __init__.py marks its directory as a package without appearing as
// a child module.
func Build(files []string, base string) *Node {
	root := &Node{Name: rootName(base), Type: TypePackage}

	for _, file := range files {
		rel, err := filepath.Rel(base, file)
		if err != nil || strings.HasPrefix(rel, "..") {
			// Files outside the base keep their own path.
			rel = file
		}
		parts := strings.Split(strings.TrimPrefix(filepath.ToSlash(rel), "/"), "/")
		insert(root, parts)
	}
	return root
}

func rootName(base string) string {
	abs, err := filepath.Abs(base)
	if err != nil {
		abs = base
	}
	name := filepath.Base(abs)
	if name == "." || name == string(filepath.Separator) {
		return "root"
	}
	return name
}

func insert(node *Node, parts []string) {
	if len(parts) == 0 {
		return
	}

	head := parts[0]
	if len(parts) == 1 {
		name := strings.TrimSuffix(strings.TrimSuffix(head, ".pyi"), ".py")
		if name == "__init__" {
			return
		}
		node.Children = append(node.Children, &Node{Name: name, Type: TypeModule})
		return
	}

	child := findChild(node, head)
	if child == nil {
		child = &Node{Name: head, Type: TypePackage}
		node.Children = append(node.Children, child)
	}
	insert(child, parts[1:])
}

func findChild(node *Node, name string) *Node {
	for _, c := range node.Children {
		if c.Name == name && c.Type == TypePackage {
			return c
		}
	}
	return nil
}

// ModuleNames returns the names of all modules in the tree, in tree
// order. Duplicate names (the same module under different packages)
// appear once per occurrence.
func (n *Node) ModuleNames() []string {
	var names []string
	if n.Type == TypeModule {
		names = append(names, n.Name)
	}
	for _, c := range n.Children {
		names = append(names, c.ModuleNames()...)
	}
	return names
}

// Prune returns a copy of the tree keeping only the modules whose names
// are in keep, plus the packages leading to them. The root always
// survives, possibly childless.
func (n *Node) Prune(keep map[string]bool) *Node {
	out := &Node{Name: n.Name, Type: n.Type}
	for _, c := range n.Children {
		switch c.Type {
		case TypeModule:
			if keep[c.Name] {
				out.Children = append(out.Children, &Node{Name: c.Name, Type: TypeModule})
			}
		case TypePackage:
			if sub := c.Prune(keep); len(sub.Children) > 0 {
				out.Children = append(out.Children, sub)
			}
		}
	}
	return out
}

// Count returns the number of modules in the tree.
func (n *Node) Count() int {
	total := 0
	if n.Type == TypeModule {
		total = 1
	}
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}
