package stm

import (
	"sync"

	"github.com/avinassh/txlist/internal/gen"
)

// reclaimEntry pairs a freed object with the epoch (the Runtime's
// timestamp counter at the moment it was unlinked) at which it became
// unreachable from the canonical structure.
type reclaimEntry struct {
	epoch uint64
	obj   any
}

// Reclaimer defers freeing objects (list nodes, in tlist's case) until no
// transaction that began before the object was unlinked can still be
// traversing it — spec.md §3's "Freed nodes are handed to the STM's
// deferred reclamation mechanism... because concurrent readers may still
// be traversing them." Go's garbage collector reclaims the memory once no
// reference survives; the Reclaimer's job is only to decide *when* it is
// safe to drop the last reference, i.e. to hand the object back from
// Drain and let the pending queue shrink.
type Reclaimer struct {
	mu      sync.Mutex
	pending []reclaimEntry
	recent  gen.EvictStack[any]
}

// NewReclaimer constructs an empty Reclaimer.
func NewReclaimer() *Reclaimer {
	return &Reclaimer{}
}

// Delete enqueues obj for reclamation once it predates every transaction
// currently observable by the Runtime, implementing spec.md §6's
// rcu_delete(node).
func (rc *Reclaimer) Delete(rt *Runtime, obj any) {
	epoch := rt.nextTS()
	rc.mu.Lock()
	rc.pending = append(rc.pending, reclaimEntry{epoch: epoch, obj: obj})
	rc.mu.Unlock()
}

// Drain drops every pending entry whose epoch predates minLiveEpoch,
// returning the reclaimed objects so a caller may run type-specific
// cleanup (tlist has none; nodes carry no external resources). Safe to
// call from any goroutine; a no-op when nothing is eligible.
func (rc *Reclaimer) Drain(minLiveEpoch uint64) []any {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	var reclaimed []any
	kept := rc.pending[:0]
	for _, e := range rc.pending {
		if e.epoch < minLiveEpoch {
			reclaimed = append(reclaimed, e.obj)
			rc.recent.Push(e.obj)
		} else {
			kept = append(kept, e)
		}
	}
	rc.pending = kept
	return reclaimed
}

// RecentlyReclaimed returns up to the last few objects actually freed by
// Drain, most recent first. Intended for tests and the bench CLI, not for
// correctness-sensitive code.
func (rc *Reclaimer) RecentlyReclaimed() []any {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	var out []any
	snap := rc.recent
	for {
		v, ok := snap.Pop()
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out
}

// Pending reports how many objects are still queued for reclamation.
func (rc *Reclaimer) Pending() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.pending)
}

// MinLiveEpoch returns the smallest beginTs among transactions the Runtime
// currently considers live, or the current counter value if none are
// live. Collaborators call this before Drain to compute a safe watermark.
func (rt *Runtime) MinLiveEpoch() uint64 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if len(rt.live) == 0 {
		return rt.counter
	}
	min := ^uint64(0)
	for ts := range rt.live {
		if ts < min {
			min = ts
		}
	}
	return min
}
