// Package asynchook decouples slow hook sinks from the exchange's hot
// paths by queueing events to a small worker pool.
//
// usage:
//
//	raw := sloghook.New(slog.Default(), sloghook.Options{SelfHealEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	ex, _ := coqffi.New(coqffi.Options{
//	    Namespace: "tactic",
//	    Provider:  provider,
//	    Hooks:     hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	coqffi "github.com/0x4FCA/coqFFI"
)

type Hooks struct {
	inner coqffi.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ coqffi.Hooks = (*Hooks)(nil)

func New(inner coqffi.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains the queue and stops the workers.
func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

// enqueue drops the event when the queue is full; hooks are advisory.
func (h *Hooks) enqueue(f func()) {
	select {
	case h.q <- f:
	default:
	}
}

func (h *Hooks) SelfHeal(storageKey, reason string) {
	h.enqueue(func() { h.inner.SelfHeal(storageKey, reason) })
}

func (h *Hooks) StaleWriteSkipped(storageKey string, observedGen, currentGen uint64) {
	h.enqueue(func() { h.inner.StaleWriteSkipped(storageKey, observedGen, currentGen) })
}

func (h *Hooks) ProviderSetRejected(storageKey string) {
	h.enqueue(func() { h.inner.ProviderSetRejected(storageKey) })
}

func (h *Hooks) InvalidateOutage(key string, bumpErr, delErr error) {
	h.enqueue(func() { h.inner.InvalidateOutage(key, bumpErr, delErr) })
}
