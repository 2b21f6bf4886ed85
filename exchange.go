package coqffi

import (
	"context"
	"fmt"
	"time"

	gen "github.com/0x4FCA/coqFFI/genstore"
	"github.com/0x4FCA/coqFFI/internal/frame"
	pr "github.com/0x4FCA/coqFFI/provider"
	"github.com/0x4FCA/coqFFI/tree"
	"github.com/0x4FCA/coqFFI/wire"
)

const (
	defaultTTL          = 10 * time.Minute
	defaultSweep        = time.Hour
	defaultGenRetention = 30 * 24 * time.Hour
)

type exchange struct {
	ns             string
	provider       pr.Provider
	mar            wire.Marshaler
	gen            gen.GenStore
	log            Logger
	hooks          Hooks
	enabled        bool
	defaultTTL     time.Duration
	computeSetCost SetCostFunc
}

func newExchange(opts Options) (*exchange, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("coqffi: provider is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("coqffi: namespace is required")
	}

	e := &exchange{
		ns:       opts.Namespace,
		provider: opts.Provider,
		enabled:  !opts.Disabled,
	}

	// defaults
	e.mar = opts.Marshaler
	if e.mar == nil {
		e.mar = wire.Binary{}
	}
	e.log = coalesce[Logger](opts.Logger, NopLogger{})
	e.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	e.defaultTTL = coalesce[time.Duration](opts.DefaultTTL, defaultTTL)

	if opts.ComputeSetCost != nil {
		e.computeSetCost = opts.ComputeSetCost
	} else {
		e.computeSetCost = func(_ string, framed []byte) int64 { return int64(len(framed)) }
	}

	if opts.GenStore != nil {
		e.gen = opts.GenStore
	} else {
		// in-process generations with periodic pruning
		sweep := coalesce[time.Duration](opts.SweepInterval, defaultSweep)
		retention := coalesce[time.Duration](opts.GenRetention, defaultGenRetention)
		e.gen = gen.NewLocalGenStore(sweep, retention)
	}

	return e, nil
}

func (e *exchange) Enabled() bool { return e.enabled }

func (e *exchange) Close(ctx context.Context) error {
	// close gen store first (best effort)
	if e.gen != nil {
		_ = e.gen.Close(ctx)
	}
	if e.provider != nil {
		return e.provider.Close(ctx)
	}
	return nil
}

func (e *exchange) Get(ctx context.Context, key string) (*tree.Tree, bool, error) {
	if !e.enabled {
		return nil, false, nil
	}
	k := e.storageKey(key)
	raw, ok, err := e.provider.Get(ctx, k)
	if err != nil || !ok {
		return nil, false, err
	}
	entryGen, payload, err := frame.DecodeEntry(raw)
	if err != nil {
		e.selfHeal(ctx, k, "corrupt")
		return nil, false, nil
	}
	cur, err := e.gen.Snapshot(ctx, k)
	if err != nil {
		return nil, false, err
	}
	if entryGen != cur {
		e.selfHeal(ctx, k, "gen_mismatch")
		return nil, false, nil
	}
	t, err := e.mar.Unmarshal(payload)
	if err != nil {
		e.selfHeal(ctx, k, "unmarshal")
		return nil, false, nil
	}
	return t, true, nil
}

func (e *exchange) Put(ctx context.Context, key string, t *tree.Tree, ttl time.Duration) error {
	if !e.enabled {
		return nil
	}
	cur, err := e.gen.Snapshot(ctx, e.storageKey(key))
	if err != nil {
		return err
	}
	return e.PutWithGen(ctx, key, t, cur, ttl)
}

func (e *exchange) PutWithGen(ctx context.Context, key string, t *tree.Tree, observedGen uint64, ttl time.Duration) error {
	if !e.enabled {
		return nil
	}
	if ttl == 0 {
		ttl = e.defaultTTL
	}
	k := e.storageKey(key)
	cur, err := e.gen.Snapshot(ctx, k)
	if err != nil {
		return err
	}
	if cur != observedGen {
		// generation moved; skip stale deposit
		e.log.Debug("PutWithGen skipped (gen mismatch)", Fields{"key": key, "obs": observedGen, "cur": cur})
		e.hooks.StaleWriteSkipped(k, observedGen, cur)
		return nil
	}
	payload, err := e.mar.Marshal(t)
	if err != nil {
		return err
	}
	framed := frame.EncodeEntry(observedGen, payload)
	ok, err := e.provider.Set(ctx, k, framed, e.computeSetCost(k, framed), ttl)
	if err != nil {
		return err
	}
	if !ok {
		e.log.Debug("PutWithGen rejected by provider (pressure)", Fields{"key": key})
		e.hooks.ProviderSetRejected(k)
	}
	return nil
}

func (e *exchange) SnapshotGen(ctx context.Context, key string) (uint64, error) {
	return e.gen.Snapshot(ctx, e.storageKey(key))
}

func (e *exchange) Invalidate(ctx context.Context, key string) error {
	if !e.enabled {
		return nil
	}
	k := e.storageKey(key)
	newGen, bumpErr := e.gen.Bump(ctx, k)
	delErr := e.provider.Del(ctx, k)
	if bumpErr != nil || delErr != nil {
		if bumpErr != nil && delErr != nil {
			e.hooks.InvalidateOutage(key, bumpErr, delErr)
		}
		return &InvalidateError{Key: key, BumpErr: bumpErr, DelErr: delErr}
	}
	e.log.Debug("invalidated key (bumped gen + cleared deposit)", Fields{"key": key, "newGen": newGen})
	return nil
}

func (e *exchange) selfHeal(ctx context.Context, storageKey, reason string) {
	_ = e.provider.Del(ctx, storageKey)
	e.hooks.SelfHeal(storageKey, reason)
}

func (e *exchange) storageKey(userKey string) string {
	// isolate by namespace
	return "tree:" + e.ns + ":" + userKey
}
