package stm

import "sync/atomic"

// SpinLock is a short-held, CAS-based lock: the structure lock spec.md §5
// describes as "a short spinlock held only across the fragment of an
// insert or remove that modifies head/next pointers. Never held across
// STM commits." Grounded on G-M-twostay-Go-Utils's SpinMap/ConcLinkedQueue,
// which gate their structural mutations with
// atomic.CompareAndSwapUint32(&word, 0, 1) spin loops rather than a
// sync.Mutex.
type SpinLock struct {
	word uint32
}

// Lock spins until the lock is acquired.
func (s *SpinLock) Lock() {
	for !atomic.CompareAndSwapUint32(&s.word, 0, 1) {
		// busy-spin: held only across a pointer-splice fragment, never
		// across an STM commit, so contention is expected to be brief.
	}
}

// Unlock releases the lock. Unlock without a matching Lock is undefined,
// matching spec.md §7's treatment of caller misuse as undefined behavior.
func (s *SpinLock) Unlock() {
	atomic.StoreUint32(&s.word, 0)
}

// TryLock attempts to acquire the lock without spinning.
func (s *SpinLock) TryLock() bool {
	return atomic.CompareAndSwapUint32(&s.word, 0, 1)
}

// IsLocked reports whether the lock is currently held, used only for
// diagnostics/tests — no production code should branch on it.
func (s *SpinLock) IsLocked() bool {
	return atomic.LoadUint32(&s.word) != 0
}
