package codec

import (
	"errors"

	"github.com/0x4FCA/coqFFI/tree"
)

// ErrLossyTree reports that a tree's shape is not one the codec's
// Encode produces, so decoding it applied a fallback rule.
var ErrLossyTree = errors.New("codec: tree shape not canonical for type")

// Strict wraps another codec to detect non-canonical input on demand.
// Encode and Decode forward to Inner unchanged, so the wrapper is still
// a total Codec; DecodeStrict is the opt-in checked path for callers
// that must defend against corrupted or misrouted trees.
type Strict[V any] struct {
	Inner Codec[V]
}

func (c Strict[V]) Encode(v V) *tree.Tree { return c.Inner.Encode(v) }
func (c Strict[V]) Decode(t *tree.Tree) V { return c.Inner.Decode(t) }

// DecodeStrict decodes t and verifies that re-encoding the result
// reproduces t exactly. A mismatch means some fallback rule fired and
// information was lost; the decoded value is discarded and ErrLossyTree
// returned.
func (c Strict[V]) DecodeStrict(t *tree.Tree) (V, error) {
	v := c.Inner.Decode(t)
	if !c.Inner.Encode(v).Equal(t) {
		var zero V
		return zero, ErrLossyTree
	}
	return v, nil
}
