package codec

import (
	"math/big"

	"github.com/0x4FCA/coqFFI/tree"
)

var bigOne = big.NewInt(1)

// Pos codes positive integers (>= 1) one binary digit per node, least
// significant digit outermost. The terminal most-significant 1 is a
// leaf; a 0 digit is a branch with a leaf on the left, a 1 digit a
// branch with a two-leaf marker on the left. Decode reads any non-leaf
// left subtree as a 1 digit.
//
// Values below 1 have no representation; Encode clamps them to 1 so it
// stays total. Decode always allocates a fresh big.Int.
type Pos struct{}

var _ Codec[*big.Int] = Pos{}

func (Pos) Encode(v *big.Int) *tree.Tree {
	if v == nil || v.Sign() < 1 {
		v = bigOne
	}
	return posEncode(v)
}

func (Pos) Decode(t *tree.Tree) *big.Int { return posDecode(t) }

func posEncode(n *big.Int) *tree.Tree {
	if n.Cmp(bigOne) == 0 {
		return tree.Leaf()
	}
	rest := posEncode(new(big.Int).Rsh(n, 1))
	if n.Bit(0) == 0 {
		return tree.Branch(tree.Leaf(), rest)
	}
	return tree.Branch(tree.Branch(tree.Leaf(), tree.Leaf()), rest)
}

func posDecode(t *tree.Tree) *big.Int {
	if t.IsLeaf() {
		return big.NewInt(1)
	}
	n := posDecode(t.Right())
	n.Lsh(n, 1)
	if !t.Left().IsLeaf() {
		n.Add(n, bigOne)
	}
	return n
}

// Nat codes non-negative integers: zero as a leaf, a positive p as a
// branch wrapping the Pos form of p. Encode clamps negative inputs to
// zero.
type Nat struct{}

var _ Codec[*big.Int] = Nat{}

func (Nat) Encode(v *big.Int) *tree.Tree {
	if v == nil || v.Sign() <= 0 {
		return tree.Leaf()
	}
	return tree.Branch(tree.Leaf(), posEncode(v))
}

func (Nat) Decode(t *tree.Tree) *big.Int {
	if t.IsLeaf() {
		return big.NewInt(0)
	}
	return posDecode(t.Right())
}

// Int codes signed integers: zero as a leaf, +p and -p as branches
// whose left subtree carries the sign (leaf = positive, two-leaf
// marker = negative) and whose right subtree is the Pos form of p.
// Decode reads any non-leaf left subtree as the negative tag.
type Int struct{}

var _ Codec[*big.Int] = Int{}

func (Int) Encode(v *big.Int) *tree.Tree {
	if v == nil || v.Sign() == 0 {
		return tree.Leaf()
	}
	if v.Sign() > 0 {
		return tree.Branch(tree.Leaf(), posEncode(v))
	}
	return tree.Branch(
		tree.Branch(tree.Leaf(), tree.Leaf()),
		posEncode(new(big.Int).Neg(v)),
	)
}

func (Int) Decode(t *tree.Tree) *big.Int {
	if t.IsLeaf() {
		return big.NewInt(0)
	}
	n := posDecode(t.Right())
	if !t.Left().IsLeaf() {
		n.Neg(n)
	}
	return n
}

// Uint64 routes uint64 through the compact Nat form. The conversions
// are exact on the whole uint64 range, so the round-trip law is
// inherited from Nat.
func Uint64() Morph[uint64, *big.Int] {
	return Morph[uint64, *big.Int]{
		Inner: Nat{},
		To:    func(v uint64) *big.Int { return new(big.Int).SetUint64(v) },
		From:  func(n *big.Int) uint64 { return n.Uint64() },
	}
}

// Int64 routes int64 through the Int form.
func Int64() Morph[int64, *big.Int] {
	return Morph[int64, *big.Int]{
		Inner: Int{},
		To:    func(v int64) *big.Int { return big.NewInt(v) },
		From:  func(n *big.Int) int64 { return n.Int64() },
	}
}
