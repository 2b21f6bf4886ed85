package wire

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/0x4FCA/coqFFI/tree"
)

// cborEnvelope is the self-describing carrier: node count plus the
// preorder bit form. A flat byte string instead of nested arrays keeps
// deep trees clear of CBOR nesting limits.
type cborEnvelope struct {
	Nodes uint32 `cbor:"nodes"`
	Bits  []byte `cbor:"bits"`
}

// CBOR is a Marshaler that wraps the preorder bit form in a CBOR map
// using fxamacker/cbor. The zero value is NOT ready to use. Construct
// with NewCBOR or MustCBOR.
//
// Use deterministic=true for canonical encoding (RFC 8949 Core
// Deterministic) when the frame feeds hashing or content addressing.
type CBOR struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var _ Marshaler = CBOR{}

// NewCBOR constructs a CBOR marshaler.
//   - Deterministic is true, uses CoreDetEncOptions (RFC 8949).
//   - Otherwise uses PreferredUnsortedEncOptions.
func NewCBOR(deterministic bool) (CBOR, error) {
	var eo cbor.EncOptions
	if deterministic {
		eo = cbor.CoreDetEncOptions()
	} else {
		eo = cbor.PreferredUnsortedEncOptions()
	}
	em, err := eo.EncMode()
	if err != nil {
		return CBOR{}, err
	}
	dm, err := (cbor.DecOptions{}).DecMode()
	if err != nil {
		return CBOR{}, err
	}
	return CBOR{enc: em, dec: dm}, nil
}

// MustCBOR is like NewCBOR but panics on error. Handy for package-level
// variables in tests and examples.
func MustCBOR(deterministic bool) CBOR {
	m, err := NewCBOR(deterministic)
	if err != nil {
		panic(err)
	}
	return m
}

func (m CBOR) Marshal(t *tree.Tree) ([]byte, error) {
	nodes, bits, err := packBits(t)
	if err != nil {
		return nil, err
	}
	return m.enc.Marshal(cborEnvelope{Nodes: nodes, Bits: bits})
}

func (m CBOR) Unmarshal(b []byte) (*tree.Tree, error) {
	var env cborEnvelope
	if err := m.dec.Unmarshal(b, &env); err != nil {
		return nil, ErrCorrupt
	}
	return unpackBits(env.Nodes, env.Bits)
}
