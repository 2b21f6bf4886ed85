// Package tree defines the canonical wire value exchanged with the
// external runtime: an immutable binary tree with exactly two node kinds,
// a leaf and a branch holding two subtrees. The tree carries no type
// information; both sides must agree out-of-band on the type a tree was
// encoded from before decoding it.
package tree

import "strings"

// Tree is a branch node. A nil *Tree is the leaf, so every traversal and
// constructor is total and the zero wire value costs no allocation.
// Trees are immutable after construction and compared structurally.
type Tree struct {
	left, right *Tree
}

// Leaf returns the leaf value.
func Leaf() *Tree { return nil }

// Branch builds a branch holding the two given subtrees.
func Branch(left, right *Tree) *Tree {
	return &Tree{left: left, right: right}
}

// IsLeaf reports whether t is the leaf.
func (t *Tree) IsLeaf() bool { return t == nil }

// Left returns the left subtree of a branch, or the leaf when t is a leaf.
func (t *Tree) Left() *Tree {
	if t == nil {
		return nil
	}
	return t.left
}

// Right returns the right subtree of a branch, or the leaf when t is a leaf.
func (t *Tree) Right() *Tree {
	if t == nil {
		return nil
	}
	return t.right
}

// Equal reports structural equality. Iterates down the right spine so
// deep list-shaped trees (long sequences, strings) do not grow the stack
// proportionally.
func (t *Tree) Equal(o *Tree) bool {
	for {
		if t == nil || o == nil {
			return t == nil && o == nil
		}
		if !t.left.Equal(o.left) {
			return false
		}
		t, o = t.right, o.right
	}
}

// Size returns the total number of nodes, leaves included.
func (t *Tree) Size() int {
	n := 0
	for t != nil {
		n += 1 + t.left.Size()
		t = t.right
	}
	return n + 1 // terminal leaf of the right spine
}

// String renders the tree for diagnostics: "*" for a leaf and "(l r)"
// for a branch. Intended for test failures and logs, not as a wire form.
func (t *Tree) String() string {
	var b strings.Builder
	t.render(&b)
	return b.String()
}

func (t *Tree) render(b *strings.Builder) {
	if t == nil {
		b.WriteByte('*')
		return
	}
	b.WriteByte('(')
	t.left.render(b)
	b.WriteByte(' ')
	t.right.render(b)
	b.WriteByte(')')
}
