package codec

import "github.com/0x4FCA/coqFFI/tree"

// Morph derives a codec for A from an existing codec for B plus a pair
// of conversion functions. Encode runs To then the inner Encode; Decode
// runs the inner Decode then From. The round-trip law carries over
// exactly when From(To(v)) == v for every v and Inner is itself sound.
type Morph[A, B any] struct {
	Inner Codec[B]
	To    func(A) B
	From  func(B) A
}

func (m Morph[A, B]) Encode(v A) *tree.Tree { return m.Inner.Encode(m.To(v)) }
func (m Morph[A, B]) Decode(t *tree.Tree) A { return m.From(m.Inner.Decode(t)) }

// Pair holds two independently coded values.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Product codes a Pair as a branch over the two component encodings.
// Decoding a leaf hands a leaf to each component, so each component's
// own fallback rule applies independently.
type Product[A, B any] struct {
	First  Codec[A]
	Second Codec[B]
}

func (c Product[A, B]) Encode(v Pair[A, B]) *tree.Tree {
	return tree.Branch(c.First.Encode(v.First), c.Second.Encode(v.Second))
}

func (c Product[A, B]) Decode(t *tree.Tree) Pair[A, B] {
	return Pair[A, B]{
		First:  c.First.Decode(t.Left()),
		Second: c.Second.Decode(t.Right()),
	}
}

// Either is a left- or right-tagged value.
type Either[A, B any] struct {
	L       A
	R       B
	IsRight bool
}

// Left builds a left-tagged Either.
func Left[A, B any](v A) Either[A, B] { return Either[A, B]{L: v} }

// Right builds a right-tagged Either.
func Right[A, B any](v B) Either[A, B] { return Either[A, B]{R: v, IsRight: true} }

// Sum codes an Either with the tag in the left subtree: a leaf for
// left, a two-leaf marker for right. Decode treats a bare leaf as a
// left whose payload is a leaf, and any non-leaf tag as right.
type Sum[A, B any] struct {
	Left  Codec[A]
	Right Codec[B]
}

func (c Sum[A, B]) Encode(v Either[A, B]) *tree.Tree {
	if v.IsRight {
		return tree.Branch(tree.Branch(tree.Leaf(), tree.Leaf()), c.Right.Encode(v.R))
	}
	return tree.Branch(tree.Leaf(), c.Left.Encode(v.L))
}

func (c Sum[A, B]) Decode(t *tree.Tree) Either[A, B] {
	if t.IsLeaf() || t.Left().IsLeaf() {
		return Left[A, B](c.Left.Decode(t.Right()))
	}
	return Right[A](c.Right.Decode(t.Right()))
}

// Seq codes a slice as a right-nested list: the empty slice is a leaf,
// a non-empty one a branch of the encoded head and the encoded tail.
// Decode of the empty form returns a nil slice.
type Seq[T any] struct {
	Elem Codec[T]
}

func (c Seq[T]) Encode(v []T) *tree.Tree {
	t := tree.Leaf()
	for i := len(v) - 1; i >= 0; i-- {
		t = tree.Branch(c.Elem.Encode(v[i]), t)
	}
	return t
}

func (c Seq[T]) Decode(t *tree.Tree) []T {
	var out []T
	for !t.IsLeaf() {
		out = append(out, c.Elem.Decode(t.Left()))
		t = t.Right()
	}
	return out
}

// Opt is an optional value.
type Opt[T any] struct {
	Value T
	Ok    bool
}

// Some builds a present Opt.
func Some[T any](v T) Opt[T] { return Opt[T]{Value: v, Ok: true} }

// None builds an absent Opt.
func None[T any]() Opt[T] { return Opt[T]{} }

// Option codes an Opt: absent as a leaf, present as a branch with a
// leaf on the left and the encoded value on the right. Any other shape
// decodes as absent.
type Option[T any] struct {
	Elem Codec[T]
}

func (c Option[T]) Encode(v Opt[T]) *tree.Tree {
	if !v.Ok {
		return tree.Leaf()
	}
	return tree.Branch(tree.Leaf(), c.Elem.Encode(v.Value))
}

func (c Option[T]) Decode(t *tree.Tree) Opt[T] {
	if t.IsLeaf() || !t.Left().IsLeaf() {
		return Opt[T]{}
	}
	return Some(c.Elem.Decode(t.Right()))
}
