package codec

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/0x4FCA/coqFFI/tree"
)

func leaf() *tree.Tree                  { return tree.Leaf() }
func branch(l, r *tree.Tree) *tree.Tree { return tree.Branch(l, r) }

func mustEqualTree(t *testing.T, got, want *tree.Tree) {
	t.Helper()
	if !got.Equal(want) {
		t.Fatalf("tree mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestUnit(t *testing.T) {
	c := Unit{}
	mustEqualTree(t, c.Encode(struct{}{}), leaf())
	// decode ignores the tree entirely
	c.Decode(leaf())
	c.Decode(branch(branch(leaf(), leaf()), leaf()))
}

func TestBoolVectors(t *testing.T) {
	c := Bool{}
	mustEqualTree(t, c.Encode(false), leaf())
	mustEqualTree(t, c.Encode(true), branch(leaf(), leaf()))

	if c.Decode(leaf()) {
		t.Fatalf("decode(leaf) should be false")
	}
	if !c.Decode(branch(leaf(), leaf())) {
		t.Fatalf("decode(branch(leaf,leaf)) should be true")
	}
	// any branch shape reads as true
	if !c.Decode(branch(branch(leaf(), leaf()), leaf())) {
		t.Fatalf("decode of non-canonical branch should be true")
	}
}

func TestPosVectors(t *testing.T) {
	c := Pos{}
	cases := []struct {
		v    int64
		want *tree.Tree
	}{
		{1, leaf()},
		{2, branch(leaf(), leaf())},
		{3, branch(branch(leaf(), leaf()), leaf())},
		{4, branch(leaf(), branch(leaf(), leaf()))},
		{5, branch(branch(leaf(), leaf()), branch(leaf(), leaf()))},
	}
	for _, tc := range cases {
		got := c.Encode(big.NewInt(tc.v))
		if !got.Equal(tc.want) {
			t.Fatalf("encode(%d) = %s, want %s", tc.v, got, tc.want)
		}
		back := c.Decode(got)
		if back.Int64() != tc.v {
			t.Fatalf("decode(encode(%d)) = %v", tc.v, back)
		}
	}
}

func TestPosEncodeClampsBelowOne(t *testing.T) {
	c := Pos{}
	mustEqualTree(t, c.Encode(big.NewInt(0)), leaf())
	mustEqualTree(t, c.Encode(big.NewInt(-7)), leaf())
	mustEqualTree(t, c.Encode(nil), leaf())
}

func TestPosRoundTripExhaustiveSmall(t *testing.T) {
	c := Pos{}
	for v := int64(1); v <= 512; v++ {
		got := c.Decode(c.Encode(big.NewInt(v)))
		if got.Int64() != v {
			t.Fatalf("round trip of %d = %v", v, got)
		}
	}
}

func TestPosRoundTripRandomWide(t *testing.T) {
	c := Pos{}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		v := new(big.Int).Rand(rng, new(big.Int).Lsh(bigOne, 256))
		v.Add(v, bigOne) // >= 1
		if got := c.Decode(c.Encode(v)); got.Cmp(v) != 0 {
			t.Fatalf("round trip of %v = %v", v, got)
		}
	}
}

func TestNat(t *testing.T) {
	c := Nat{}
	mustEqualTree(t, c.Encode(big.NewInt(0)), leaf())
	mustEqualTree(t, c.Encode(nil), leaf())
	mustEqualTree(t, c.Encode(big.NewInt(-3)), leaf())
	mustEqualTree(t, c.Encode(big.NewInt(1)), branch(leaf(), leaf()))

	if got := c.Decode(leaf()); got.Sign() != 0 {
		t.Fatalf("decode(leaf) = %v, want 0", got)
	}
	for v := int64(0); v <= 300; v++ {
		if got := c.Decode(c.Encode(big.NewInt(v))); got.Int64() != v {
			t.Fatalf("round trip of %d = %v", v, got)
		}
	}
}

func TestIntVectors(t *testing.T) {
	c := Int{}
	mustEqualTree(t, c.Encode(big.NewInt(0)), leaf())
	mustEqualTree(t, c.Encode(big.NewInt(2)),
		branch(leaf(), branch(leaf(), leaf())))
	// -2: negative tag, then the positive form of 2
	minusTwo := branch(branch(leaf(), leaf()), branch(leaf(), leaf()))
	mustEqualTree(t, c.Encode(big.NewInt(-2)), minusTwo)
	if got := c.Decode(minusTwo); got.Int64() != -2 {
		t.Fatalf("decode = %v, want -2", got)
	}
}

func TestIntRoundTrip(t *testing.T) {
	c := Int{}
	for v := int64(-300); v <= 300; v++ {
		if got := c.Decode(c.Encode(big.NewInt(v))); got.Int64() != v {
			t.Fatalf("round trip of %d = %v", v, got)
		}
	}
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		v := new(big.Int).Rand(rng, new(big.Int).Lsh(bigOne, 200))
		if rng.Intn(2) == 0 {
			v.Neg(v)
		}
		if got := c.Decode(c.Encode(v)); got.Cmp(v) != 0 {
			t.Fatalf("round trip of %v = %v", v, got)
		}
	}
}

func TestUint64RoundTrip(t *testing.T) {
	c := Uint64()
	cases := []uint64{0, 1, 2, 3, 255, 256, 1<<32 - 1, 1 << 32, 1<<64 - 1}
	for _, v := range cases {
		if got := c.Decode(c.Encode(v)); got != v {
			t.Fatalf("round trip of %d = %d", v, got)
		}
	}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		v := rng.Uint64()
		if got := c.Decode(c.Encode(v)); got != v {
			t.Fatalf("round trip of %d = %d", v, got)
		}
	}
}

func TestInt64RoundTrip(t *testing.T) {
	c := Int64()
	cases := []int64{0, 1, -1, 2, -2, 1<<62 - 1, -(1 << 62), 1<<63 - 1, -1 << 63}
	for _, v := range cases {
		if got := c.Decode(c.Encode(v)); got != v {
			t.Fatalf("round trip of %d = %d", v, got)
		}
	}
}
