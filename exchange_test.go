package coqffi

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/0x4FCA/coqFFI/codec"
	"github.com/0x4FCA/coqFFI/internal/frame"
	pr "github.com/0x4FCA/coqFFI/provider"
	"github.com/0x4FCA/coqFFI/wire"
)

type memEntry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

type memProvider struct {
	m      map[string]memEntry
	reject bool // when set, Set reports ok=false
}

var _ pr.Provider = (*memProvider)(nil)

func newMemProvider() *memProvider { return &memProvider{m: make(map[string]memEntry)} }

func (p *memProvider) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := p.m[key]
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		delete(p.m, key)
		return nil, false, nil
	}
	return e.v, true, nil
}

func (p *memProvider) Set(_ context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	if p.reject {
		return false, nil
	}
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	p.m[key] = memEntry{v: value, exp: exp}
	return true, nil
}

func (p *memProvider) Del(_ context.Context, key string) error { delete(p.m, key); return nil }
func (p *memProvider) Close(_ context.Context) error           { return nil }

type recordingHooks struct {
	mu         sync.Mutex
	selfHeal   []string // reasons, in call order
	staleSkips int
	rejected   int
}

func (h *recordingHooks) SelfHeal(_, reason string) {
	h.mu.Lock()
	h.selfHeal = append(h.selfHeal, reason)
	h.mu.Unlock()
}
func (h *recordingHooks) StaleWriteSkipped(string, uint64, uint64) {
	h.mu.Lock()
	h.staleSkips++
	h.mu.Unlock()
}
func (h *recordingHooks) ProviderSetRejected(string) {
	h.mu.Lock()
	h.rejected++
	h.mu.Unlock()
}
func (h *recordingHooks) InvalidateOutage(string, error, error) {}

func newTestExchange(t *testing.T, mp pr.Provider, optsOpt func(*Options)) Exchange {
	t.Helper()
	opts := Options{
		Namespace: "test",
		Provider:  mp,
	}
	if optsOpt != nil {
		optsOpt(&opts)
	}
	ex, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ex
}

func TestNewValidatesOptions(t *testing.T) {
	if _, err := New(Options{Namespace: "x"}); err == nil {
		t.Fatalf("expected error without provider")
	}
	if _, err := New(Options{Provider: newMemProvider()}); err == nil {
		t.Fatalf("expected error without namespace")
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	ex := newTestExchange(t, newMemProvider(), nil)
	defer ex.Close(ctx)

	in := codec.String().Encode("extracted value")
	if err := ex.Put(ctx, "k", in, 0); err != nil {
		t.Fatalf("Put: %v", err)
	}
	out, ok, err := ex.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if !out.Equal(in) {
		t.Fatalf("fetched tree differs from deposit")
	}
	if got := codec.String().Decode(out); got != "extracted value" {
		t.Fatalf("decoded %q", got)
	}
}

func TestGetMiss(t *testing.T) {
	ctx := context.Background()
	ex := newTestExchange(t, newMemProvider(), nil)
	defer ex.Close(ctx)

	if _, ok, err := ex.Get(ctx, "absent"); ok || err != nil {
		t.Fatalf("expected clean miss, ok=%v err=%v", ok, err)
	}
}

func TestCorruptEntrySelfHeals(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	hooks := &recordingHooks{}
	ex := newTestExchange(t, mp, func(o *Options) { o.Hooks = hooks })
	defer ex.Close(ctx)

	k := "tree:test:bad"
	mp.m[k] = memEntry{v: []byte("junk written by someone else")}

	if _, ok, err := ex.Get(ctx, "bad"); ok || err != nil {
		t.Fatalf("expected miss on corrupt entry, ok=%v err=%v", ok, err)
	}
	if _, still := mp.m[k]; still {
		t.Fatalf("corrupt entry should be deleted")
	}
	if len(hooks.selfHeal) != 1 || hooks.selfHeal[0] != "corrupt" {
		t.Fatalf("self-heal hook = %v", hooks.selfHeal)
	}
}

func TestGenMismatchSelfHeals(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	hooks := &recordingHooks{}
	ex := newTestExchange(t, mp, func(o *Options) { o.Hooks = hooks })
	defer ex.Close(ctx)

	payload, err := wire.Binary{}.Marshal(codec.Bool{}.Encode(true))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	// framed under a generation that was never current
	mp.m["tree:test:stale"] = memEntry{v: frame.EncodeEntry(7, payload)}

	if _, ok, err := ex.Get(ctx, "stale"); ok || err != nil {
		t.Fatalf("expected miss on stale entry, ok=%v err=%v", ok, err)
	}
	if len(hooks.selfHeal) != 1 || hooks.selfHeal[0] != "gen_mismatch" {
		t.Fatalf("self-heal hook = %v", hooks.selfHeal)
	}
}

func TestUndecodablePayloadSelfHeals(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	hooks := &recordingHooks{}
	ex := newTestExchange(t, mp, func(o *Options) { o.Hooks = hooks })
	defer ex.Close(ctx)

	// entry framing is valid, tree payload is not
	mp.m["tree:test:garbled"] = memEntry{v: frame.EncodeEntry(0, []byte("not a tree"))}

	if _, ok, err := ex.Get(ctx, "garbled"); ok || err != nil {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}
	if len(hooks.selfHeal) != 1 || hooks.selfHeal[0] != "unmarshal" {
		t.Fatalf("self-heal hook = %v", hooks.selfHeal)
	}
}

func TestPutWithGenSkipsStaleWrite(t *testing.T) {
	ctx := context.Background()
	hooks := &recordingHooks{}
	ex := newTestExchange(t, newMemProvider(), func(o *Options) { o.Hooks = hooks })
	defer ex.Close(ctx)

	obs, err := ex.SnapshotGen(ctx, "k")
	if err != nil {
		t.Fatalf("SnapshotGen: %v", err)
	}
	if err := ex.Invalidate(ctx, "k"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	// deposit produced against the old observation must be dropped
	if err := ex.PutWithGen(ctx, "k", codec.Bool{}.Encode(true), obs, 0); err != nil {
		t.Fatalf("PutWithGen: %v", err)
	}
	if _, ok, _ := ex.Get(ctx, "k"); ok {
		t.Fatalf("stale deposit must not be visible")
	}
	if hooks.staleSkips != 1 {
		t.Fatalf("staleSkips = %d, want 1", hooks.staleSkips)
	}

	// a fresh snapshot writes through
	cur, _ := ex.SnapshotGen(ctx, "k")
	if err := ex.PutWithGen(ctx, "k", codec.Bool{}.Encode(true), cur, 0); err != nil {
		t.Fatalf("PutWithGen: %v", err)
	}
	if _, ok, _ := ex.Get(ctx, "k"); !ok {
		t.Fatalf("current deposit should be visible")
	}
}

func TestInvalidateClearsDeposit(t *testing.T) {
	ctx := context.Background()
	ex := newTestExchange(t, newMemProvider(), nil)
	defer ex.Close(ctx)

	if err := ex.Put(ctx, "k", codec.Bool{}.Encode(true), 0); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok, _ := ex.Get(ctx, "k"); !ok {
		t.Fatalf("deposit should be visible before invalidate")
	}
	if err := ex.Invalidate(ctx, "k"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok, _ := ex.Get(ctx, "k"); ok {
		t.Fatalf("deposit should be gone after invalidate")
	}
}

func TestProviderRejectionIsReported(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	mp.reject = true
	hooks := &recordingHooks{}
	ex := newTestExchange(t, mp, func(o *Options) { o.Hooks = hooks })
	defer ex.Close(ctx)

	if err := ex.Put(ctx, "k", codec.Bool{}.Encode(true), 0); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if hooks.rejected != 1 {
		t.Fatalf("rejected = %d, want 1", hooks.rejected)
	}
}

func TestDisabledExchangeIsInert(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	ex := newTestExchange(t, mp, func(o *Options) { o.Disabled = true })
	defer ex.Close(ctx)

	if ex.Enabled() {
		t.Fatalf("exchange should report disabled")
	}
	if err := ex.Put(ctx, "k", codec.Bool{}.Encode(true), 0); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if len(mp.m) != 0 {
		t.Fatalf("disabled exchange must not write")
	}
	if _, ok, err := ex.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("disabled exchange must miss cleanly")
	}
}

func TestTTLExpiry(t *testing.T) {
	ctx := context.Background()
	ex := newTestExchange(t, newMemProvider(), nil)
	defer ex.Close(ctx)

	if err := ex.Put(ctx, "k", codec.Bool{}.Encode(true), 5*time.Millisecond); err != nil {
		t.Fatalf("Put: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, ok, _ := ex.Get(ctx, "k"); ok {
		t.Fatalf("deposit should expire")
	}
}

func TestMarshalerOptionIsHonored(t *testing.T) {
	ctx := context.Background()
	for _, m := range []wire.Marshaler{wire.Binary{}, wire.MustCBOR(true), wire.Msgpack{}} {
		ex := newTestExchange(t, newMemProvider(), func(o *Options) { o.Marshaler = m })
		in := codec.String().Encode("payload")
		if err := ex.Put(ctx, "k", in, 0); err != nil {
			t.Fatalf("Put: %v", err)
		}
		out, ok, err := ex.Get(ctx, "k")
		if err != nil || !ok || !out.Equal(in) {
			t.Fatalf("round trip failed: ok=%v err=%v", ok, err)
		}
		_ = ex.Close(ctx)
	}
}
