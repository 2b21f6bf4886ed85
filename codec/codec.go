// Package codec converts typed values to and from the canonical tree
// form. One codec exists per type; composite codecs are assembled from
// the codecs of their component types, passed in explicitly at
// construction. Every codec is total in both directions: Encode never
// fails, and Decode maps every tree shape to some value, applying a
// per-type fallback rule to shapes Encode would never produce. The
// round-trip law Decode(Encode(v)) == v holds for every codec here; the
// reverse direction does not (many trees decode to the same value).
package codec

import "github.com/0x4FCA/coqFFI/tree"

// Codec encodes/decodes values V to the canonical tree form.
type Codec[V any] interface {
	Encode(V) *tree.Tree
	Decode(*tree.Tree) V
}

// Unit codes the empty value. Encode is always a leaf; Decode ignores
// the tree entirely.
type Unit struct{}

var _ Codec[struct{}] = Unit{}

func (Unit) Encode(struct{}) *tree.Tree { return tree.Leaf() }
func (Unit) Decode(*tree.Tree) struct{} { return struct{}{} }

// Bool codes false as a leaf and true as a branch of two leaves.
// Decode treats any branch as true.
type Bool struct{}

var _ Codec[bool] = Bool{}

func (Bool) Encode(v bool) *tree.Tree {
	if v {
		return tree.Branch(tree.Leaf(), tree.Leaf())
	}
	return tree.Leaf()
}

func (Bool) Decode(t *tree.Tree) bool { return !t.IsLeaf() }
