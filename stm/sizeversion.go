package stm

import "sync/atomic"

// SizeVersion is the logical clock spec.md calls the size-version: "a
// logical clock bumped on every committed structural change that could
// affect size or traversal" (GLOSSARY). It is distinct from the structure
// lock (version.go's SpinLock) even though the source folds a similar
// pair of concepts into adjacent fields — spec.md §9 warns explicitly
// against conflating them, so this type never shares storage with
// SpinLock.
//
// SizeVersion doubles as its own commit-time lock: Lock/Unlock bracket the
// check->install sequence for the item that observed it, mirroring the
// source's TCommutativeVersion (sizeversion_.lock() / .unlock() /
// .check_version / .set_version / .inc_nonopaque_version).
type SizeVersion struct {
	lock    SpinLock
	value   uint64
	opacity bool
}

// NewSizeVersion constructs a SizeVersion. When opaque is true, committed
// bumps stamp the commit timestamp (opacity-preserving); otherwise they
// increment monotonically.
func NewSizeVersion(opaque bool) *SizeVersion {
	return &SizeVersion{opacity: opaque}
}

// Snapshot returns the current value without acquiring the lock — used by
// readers taking an optimistic "observe, fence, traverse" snapshot per
// spec.md §4.2.
func (sv *SizeVersion) Snapshot() uint64 {
	return atomic.LoadUint64(&sv.value)
}

// Lock acquires the commit-time lock for this size-version.
func (sv *SizeVersion) Lock() { sv.lock.Lock() }

// Unlock releases the commit-time lock.
func (sv *SizeVersion) Unlock() { sv.lock.Unlock() }

// IsLocked reports whether the commit-time lock is currently held by
// anyone, for tests and diagnostics.
func (sv *SizeVersion) IsLocked() bool { return sv.lock.IsLocked() }

// CheckVersion reports whether observed still matches the current value.
// When heldByUs is true the check tolerates the fact that this
// transaction itself holds the commit lock (the source's
// check_version(..., item.needs_unlock())) — the lock bit itself must not
// be mistaken for a concurrent change.
func (sv *SizeVersion) CheckVersion(observed uint64, heldByUs bool) bool {
	if heldByUs {
		return true
	}
	return atomic.LoadUint64(&sv.value) == observed
}

// SetVersion stamps the size-version with an explicit value — used under
// Opacity to set it to the committing transaction's commit timestamp.
func (sv *SizeVersion) SetVersion(v uint64) {
	atomic.StoreUint64(&sv.value, v)
}

// IncNonOpaque advances the size-version by one, used when Opacity is
// disabled.
func (sv *SizeVersion) IncNonOpaque() {
	atomic.AddUint64(&sv.value, 1)
}

// Bump advances the size-version according to the configured opacity
// policy: stamps the commit timestamp when opaque, otherwise increments
// monotonically. This is the one call site collaborators need; it folds
// together the source's "if (Opacity) ...else..." branch that appears at
// every install-time version bump.
func (sv *SizeVersion) Bump(commitTID uint64) {
	if sv.opacity {
		sv.SetVersion(commitTID)
	} else {
		sv.IncNonOpaque()
	}
}
