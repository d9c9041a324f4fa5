package tlist

import (
	"sync/atomic"

	"github.com/avinassh/txlist/stm"
)

// List implements stm.Collaborator, driving the four commit-time
// callbacks spec.md §4.3 describes: lock, check, install, unlock, plus
// cleanup. The runtime calls Lock and Install only for items with a
// write armed, and Check only for items with a read armed, in the
// stable order the items were first acquired; an item this list created
// and then released within the same transaction (insert undone by a
// later delete) carries neither mark and is skipped entirely.

// Lock is spec.md §4.3's lock(item): only the list-key item causes a
// real lock acquisition, taking the size-version's commit lock for the
// duration of this transaction's check->install phase. Per-node items
// are otherwise unprotected at this layer — see stm.Runtime's commitMu
// for why that is still safe.
func (l *List[T]) Lock(item *stm.Item, tx *stm.Tx) bool {
	if _, ok := item.Key().(listKeySentinel); ok {
		l.sizeVersion.Lock()
	}
	return true
}

// Check is spec.md §4.3's check(item).
func (l *List[T]) Check(item *stm.Item, tx *stm.Tx) bool {
	switch k := item.Key().(type) {
	case listKeySentinel:
		observed, _ := item.ReadValue().(uint64)
		return l.sizeVersion.CheckVersion(observed, item.HasWrite())
	case sizeKeySentinel:
		return true
	case *node[T]:
		return l.validityCheck(k, item)
	default:
		return true
	}
}

// Install is spec.md §4.3's install(item). Per the redesign flag in
// spec.md §9 (open question 1), every branch that changes structure or
// value bumps the size-version — including doupdate, where the source
// left it un-bumped ("XXX BUG").
func (l *List[T]) Install(item *stm.Item, tx *stm.Tx) {
	n, ok := item.Key().(*node[T])
	if !ok {
		// list-key and size-key items exist only to order locking and to
		// stash the local size delta; they have nothing to install.
		return
	}
	switch {
	case item.HasFlags(flagDelete):
		l.removeByIdentity(n, true, false)
		atomic.AddInt64(&l.count, -1)
		l.sizeVersion.Bump(tx.CommitTID())
	case item.HasFlags(flagDoupdate):
		n.value, _ = item.WriteValue().(T)
		l.sizeVersion.Bump(tx.CommitTID())
	default:
		n.markValid()
		atomic.AddInt64(&l.count, 1)
		l.sizeVersion.Bump(tx.CommitTID())
	}
}

// Unlock is spec.md §4.3's unlock(item).
func (l *List[T]) Unlock(item *stm.Item) {
	if _, ok := item.Key().(listKeySentinel); ok {
		l.sizeVersion.Unlock()
	}
}

// Cleanup is spec.md §4.3's cleanup(item, committed): on abort, any
// reserved (never-installed) node must be physically removed so no
// zombie node remains linked.
func (l *List[T]) Cleanup(item *stm.Item, committed bool) {
	if committed {
		return
	}
	n, ok := item.Key().(*node[T])
	if !ok || !item.HasFlags(flagInsert) {
		return
	}
	// txnal=true: this node was never installed, so count was never
	// incremented for it — removeByIdentity must not decrement it either.
	l.removeByIdentity(n, true, false)
}
