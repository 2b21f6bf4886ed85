// Package wire frames canonical trees as bytes for transport to the
// external runtime. Unlike the tree-level codecs, unmarshaling here is
// strict: bytes that did not come out of a Marshaler are rejected with
// ErrCorrupt rather than decoded best-effort. Totality is a property of
// the typed codec layer, not of the byte boundary.
//
// All marshalers share one structural form: the tree is walked in
// preorder and each node contributes one bit, 1 for a branch and 0 for
// a leaf, packed most-significant bit first. The node count alongside
// the bits makes truncation detectable.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/0x4FCA/coqFFI/tree"
)

// Marshaler converts trees to and from a byte framing.
type Marshaler interface {
	Marshal(*tree.Tree) ([]byte, error)
	Unmarshal([]byte) (*tree.Tree, error)
}

// ErrCorrupt reports bytes that are not a valid tree frame.
var ErrCorrupt = errors.New("wire: corrupt tree frame")

const version byte = 1

var magic4 = [...]byte{'T', 'R', 'E', 'E'}

// packBits flattens t to its preorder bit form.
func packBits(t *tree.Tree) (nodes uint32, bits []byte, err error) {
	n := t.Size()
	if uint64(n) > math.MaxUint32 {
		return 0, nil, fmt.Errorf("wire: tree of %d nodes exceeds frame limit", n)
	}

	bits = make([]byte, (n+7)/8)
	i := 0
	stack := []*tree.Tree{t}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !cur.IsLeaf() {
			bits[i/8] |= 1 << (7 - i%8)
			// right first so the left subtree pops first (preorder)
			stack = append(stack, cur.Right(), cur.Left())
		}
		i++
	}
	return uint32(n), bits, nil
}

// unpackBits rebuilds a tree from its preorder bit form. Scanning the
// bits in reverse lets the tree come together bottom-up on an explicit
// stack, so list-shaped trees of any depth rebuild in constant stack.
func unpackBits(nodes uint32, bits []byte) (*tree.Tree, error) {
	n := int(nodes)
	if n == 0 || len(bits) != (n+7)/8 {
		return nil, ErrCorrupt
	}
	// padding bits in the final byte must be zero
	if pad := len(bits)*8 - n; pad > 0 && bits[len(bits)-1]&(1<<pad-1) != 0 {
		return nil, ErrCorrupt
	}

	stack := make([]*tree.Tree, 0, 16)
	for i := n - 1; i >= 0; i-- {
		if bits[i/8]&(1<<(7-i%8)) == 0 {
			stack = append(stack, tree.Leaf())
			continue
		}
		if len(stack) < 2 {
			return nil, ErrCorrupt
		}
		l := stack[len(stack)-1]
		r := stack[len(stack)-2]
		stack = stack[:len(stack)-2]
		stack = append(stack, tree.Branch(l, r))
	}
	if len(stack) != 1 {
		return nil, ErrCorrupt
	}
	return stack[0], nil
}

// Binary is the default framing:
//
//	magic(4) | ver(1) | nodes(u32 be) | bits((nodes+7)/8 bytes)
//
// The zero value is ready to use.
type Binary struct{}

var _ Marshaler = Binary{}

func (Binary) Marshal(t *tree.Tree) ([]byte, error) {
	nodes, bits, err := packBits(t)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(4 + 1 + 4 + len(bits))

	buf.Write(magic4[:])
	buf.WriteByte(version)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], nodes)
	buf.Write(u4[:])

	buf.Write(bits)
	return buf.Bytes(), nil
}

func (Binary) Unmarshal(b []byte) (*tree.Tree, error) {
	const hdr = 4 + 1 + 4
	if len(b) < hdr || !bytes.Equal(b[:4], magic4[:]) || b[4] != version {
		return nil, ErrCorrupt
	}
	nodes := binary.BigEndian.Uint32(b[5:9])
	bits := b[hdr:]
	if len(bits) != (int(nodes)+7)/8 { // rejects trailing bytes
		return nil, ErrCorrupt
	}
	return unpackBits(nodes, bits)
}
