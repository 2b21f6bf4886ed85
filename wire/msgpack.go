package wire

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/0x4FCA/coqFFI/tree"
)

type msgpackEnvelope struct {
	Nodes uint32 `msgpack:"nodes"`
	Bits  []byte `msgpack:"bits"`
}

// Msgpack is a Marshaler that wraps the preorder bit form in a msgpack
// map using vmihailenco/msgpack/v5. The zero value is ready to use.
type Msgpack struct{}

var _ Marshaler = Msgpack{}

func (Msgpack) Marshal(t *tree.Tree) ([]byte, error) {
	nodes, bits, err := packBits(t)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(msgpackEnvelope{Nodes: nodes, Bits: bits})
}

func (Msgpack) Unmarshal(b []byte) (*tree.Tree, error) {
	var env msgpackEnvelope
	if err := msgpack.Unmarshal(b, &env); err != nil {
		return nil, ErrCorrupt
	}
	return unpackBits(env.Nodes, env.Bits)
}
