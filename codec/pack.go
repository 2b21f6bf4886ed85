package codec

import "github.com/0x4FCA/coqFFI/tree"

// Packing helpers bundle already-encoded trees into one tree when a
// caller needs to hand several independently typed values across the
// boundary at once. They are plain structural nesting, not codecs; the
// receiver unpacks by walking the same fixed shape.

// Pack2 bundles two encoded trees.
func Pack2(x, y *tree.Tree) *tree.Tree { return tree.Branch(x, y) }

// Pack3 bundles three encoded trees as Branch(Branch(x, y), z).
func Pack3(x, y, z *tree.Tree) *tree.Tree {
	return tree.Branch(tree.Branch(x, y), z)
}

// Pack4 bundles four encoded trees as Branch(Pack3(w, x, y), z).
func Pack4(w, x, y, z *tree.Tree) *tree.Tree {
	return tree.Branch(Pack3(w, x, y), z)
}
