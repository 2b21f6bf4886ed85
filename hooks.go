package coqffi

// Hooks are lightweight callbacks for high-signal exchange events.
// Implementations MUST be cheap and non-blocking; the exchange calls
// them on hot paths. Wrap with hooks/async to decouple slow sinks.
type Hooks interface {
	// A deposit was deleted on read.
	// reason ∈ {"corrupt", "gen_mismatch", "unmarshal"}
	SelfHeal(storageKey, reason string)

	// PutWithGen observed a moved generation and skipped the write.
	StaleWriteSkipped(storageKey string, observedGen, currentGen uint64)

	// Provider returned ok=false on Set (backpressure/eviction).
	ProviderSetRejected(storageKey string)

	// Both gen bump and delete failed during Invalidate (likely
	// backend outage).
	InvalidateOutage(key string, bumpErr, delErr error)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) SelfHeal(string, string)                  {}
func (NopHooks) StaleWriteSkipped(string, uint64, uint64) {}
func (NopHooks) ProviderSetRejected(string)               {}
func (NopHooks) InvalidateOutage(string, error, error)    {}
