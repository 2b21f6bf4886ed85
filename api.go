package coqffi

import (
	"context"
	"time"

	gen "github.com/0x4FCA/coqFFI/genstore"
	pr "github.com/0x4FCA/coqFFI/provider"
	"github.com/0x4FCA/coqFFI/tree"
	"github.com/0x4FCA/coqFFI/wire"
)

// SetCostFunc computes the provider cost of a framed deposit.
type SetCostFunc func(key string, framed []byte) int64

// Exchange is the hand-off surface between the producer and consumer
// sides of the boundary: encoded trees are deposited under string keys
// and fetched by the other side. Deposits carry the key's generation so
// a racing invalidation makes the stale tree invisible to readers.
type Exchange interface {
	Enabled() bool
	Close(context.Context) error

	// Put deposits a tree under key at the key's current generation.
	Put(ctx context.Context, key string, t *tree.Tree, ttl time.Duration) error

	// PutWithGen deposits only if the key's generation still equals
	// observedGen (snapshot taken before producing the tree). A moved
	// generation skips the write silently.
	PutWithGen(ctx context.Context, key string, t *tree.Tree, observedGen uint64, ttl time.Duration) error

	// Get fetches the tree deposited under key. Corrupt or stale
	// entries are deleted and reported as a miss.
	Get(ctx context.Context, key string) (*tree.Tree, bool, error)

	// SnapshotGen returns the key's current generation (missing => 0).
	SnapshotGen(ctx context.Context, key string) (uint64, error)

	// Invalidate bumps the key's generation and deletes its deposit.
	Invalidate(ctx context.Context, key string) error
}

// Options tune the exchange. Only Namespace and Provider are required;
// others have usable defaults.
type Options struct {
	// Required
	Namespace string // logical namespace to avoid collisions, e.g. "tactic", "query"
	Provider  pr.Provider

	Marshaler      wire.Marshaler // nil => wire.Binary{}
	Logger         Logger         // nil => NopLogger
	Hooks          Hooks          // nil => NopHooks
	GenStore       gen.GenStore   // nil => local in-process generations
	DefaultTTL     time.Duration  // 0 => 10m
	SweepInterval  time.Duration  // local gen pruning; 0 => 1h
	GenRetention   time.Duration  // local gen retention; 0 => 30d
	ComputeSetCost SetCostFunc    // nil => framed length
	Disabled       bool           // default false (enabled)
}

// New builds an Exchange from opts.
func New(opts Options) (Exchange, error) {
	return newExchange(opts)
}
