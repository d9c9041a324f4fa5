// Package tlist implements the transactional linked list: a singly-linked
// container that can be mutated either immediately under a single
// list-wide spinlock, or speculatively inside an stm.Tx and committed
// atomically alongside every other collaborator the transaction touched.
package tlist

import (
	"sync/atomic"

	"github.com/avinassh/txlist/stm"
)

// listKeySentinel and sizeKeySentinel are the two per-transaction
// sentinel keys spec.md §3 calls the "list-key" and "size-key" items:
// the source uses a nullptr list_node* and (list_node*)1 respectively;
// Go has no equivalent "reserved pointer value" trick that stays type-safe,
// so two distinct zero-size types stand in for them.
type listKeySentinel struct{}
type sizeKeySentinel struct{}

var theListKey = listKeySentinel{}
var theSizeKey = sizeKeySentinel{}

// List is the transactional linked list described by spec.md. It is safe
// for concurrent non-transactional use (structural mutations serialize on
// the structure lock) and for concurrent transactional use through the
// stm.Runtime supplied at construction.
type List[T any] struct {
	rt        *stm.Runtime
	reclaimer *stm.Reclaimer

	head       atomic.Pointer[node[T]]
	count      int64 // atomic
	structLock stm.SpinLock

	sizeVersion *stm.SizeVersion
	opts        *options[T]
}

// New constructs a List bound to rt, using compare as its total order
// (or equality test, when WithSorted(false) is supplied).
func New[T any](rt *stm.Runtime, compare Compare[T], opts ...Option[T]) *List[T] {
	o := newOptions[T](compare, opts...)
	return &List[T]{
		rt:          rt,
		reclaimer:   stm.NewReclaimer(),
		sizeVersion: stm.NewSizeVersion(o.opacity),
		opts:        o,
	}
}

// NewOrdered is a convenience constructor for element types with a
// natural order, defaulting Compare to DefaultCompare[T]() the way the
// source's DefaultCompare<T> template argument defaults do.
func NewOrdered[T Ordered](rt *stm.Runtime, opts ...Option[T]) *List[T] {
	return New[T](rt, DefaultCompare[T](), opts...)
}

// findNode walks from head, returning the first node matching elem under
// the list's order policy. With Sorted, traversal stops (returning nil)
// as soon as a strictly-greater node is seen — spec.md §4.1.
func (l *List[T]) findNode(elem T) *node[T] {
	cur := l.head.Load()
	for cur != nil {
		c := l.opts.compare(cur.value, elem)
		if c == 0 {
			return cur
		}
		if l.opts.sorted && c > 0 {
			return nil
		}
		cur = cur.next.load()
	}
	return nil
}

// Find returns the value of the first linked node equal to elem. It does
// not test the invalid bit, so a node reserved by a not-yet-committed
// transactional insert is found as well.
func (l *List[T]) Find(elem T) (T, bool) {
	n := l.findNode(elem)
	if n == nil {
		var zero T
		return zero, false
	}
	return n.value, true
}

// insertNode splices a new node for elem under the structure lock,
// following spec.md §4.1. An unsorted list that allows duplicates needs
// no scan, so it prepends at head (insertion order is reverse-
// chronological); every other list walks from head, returning an
// existing equal node when duplicates are forbidden, and otherwise
// splicing before the first node that compares >= elem (sorted) or at
// the tail (unsorted). txnal marks the new node invalid so the
// transactional install callback is what makes it visible.
func (l *List[T]) insertNode(elem T, txnal bool) (n *node[T], inserted bool) {
	l.structLock.Lock()
	defer l.structLock.Unlock()

	if !l.opts.sorted && l.opts.duplicates {
		newHead := newNode(elem, l.head.Load(), txnal)
		l.head.Store(newHead)
		if !txnal {
			atomic.AddInt64(&l.count, 1)
		}
		return newHead, true
	}

	var prev *node[T]
	cur := l.head.Load()
	for cur != nil {
		c := l.opts.compare(cur.value, elem)
		if !l.opts.duplicates && c == 0 {
			return cur, false
		} else if l.opts.sorted && c >= 0 {
			break
		}
		prev = cur
		cur = cur.next.load()
	}

	ret := newNode(elem, cur, txnal)
	if prev != nil {
		prev.next.store(ret)
	} else {
		l.head.Store(ret)
	}
	if !txnal {
		atomic.AddInt64(&l.count, 1)
	}
	return ret, true
}

// Insert adds elem to the list. It returns false without inserting when
// Duplicates is disabled and an equal value is already present.
func (l *List[T]) Insert(elem T) bool {
	_, inserted := l.insertNode(elem, false)
	return inserted
}

// removeMatch unlinks the first node satisfying match, under the
// structure lock unless locked reports the caller already holds it.
// txnal routes the freed node to the deferred reclaimer instead of
// letting it drop immediately, per spec.md §3's Ownership note.
func (l *List[T]) removeMatch(match func(*node[T]) bool, txnal, locked bool) (*node[T], bool) {
	if !locked {
		l.structLock.Lock()
		defer l.structLock.Unlock()
	}
	var prev *node[T]
	cur := l.head.Load()
	for cur != nil {
		if match(cur) {
			cur.markInvalid()
			next := cur.next.load()
			if prev != nil {
				prev.next.store(next)
			} else {
				l.head.Store(next)
			}
			if txnal {
				l.reclaimer.Delete(l.rt, cur)
			} else {
				atomic.AddInt64(&l.count, -1)
			}
			return cur, true
		}
		prev = cur
		cur = cur.next.load()
	}
	return nil, false
}

func (l *List[T]) removeByValue(elem T, txnal, locked bool) (*node[T], bool) {
	return l.removeMatch(func(n *node[T]) bool { return l.opts.compare(n.value, elem) == 0 }, txnal, locked)
}

func (l *List[T]) removeByIdentity(target *node[T], txnal, locked bool) (*node[T], bool) {
	return l.removeMatch(func(n *node[T]) bool { return n == target }, txnal, locked)
}

// Remove deletes the first linked node equal to elem. Like Find, it does
// not test the invalid bit.
func (l *List[T]) Remove(elem T) bool {
	_, ok := l.removeByValue(elem, false, false)
	return ok
}

// Clear empties the list by repeatedly removing head, per spec.md §4.1.
func (l *List[T]) Clear() {
	for l.removeHead() {
	}
}

func (l *List[T]) removeHead() bool {
	l.structLock.Lock()
	h := l.head.Load()
	if h == nil {
		l.structLock.Unlock()
		return false
	}
	h.markInvalid()
	l.head.Store(h.next.load())
	l.structLock.Unlock()
	atomic.AddInt64(&l.count, -1)
	return true
}

// Size returns the number of visible nodes.
func (l *List[T]) Size() int {
	return int(atomic.LoadInt64(&l.count))
}

// UnsafeSize returns count without any transactional observation,
// mirroring the source's unsafe_size()/nontrans_size() escape hatches
// used by diagnostics.
func (l *List[T]) UnsafeSize() int {
	return l.Size()
}

// reclaim drains nodes no longer observable by any live transaction. It
// is not required for correctness under Go's garbage collector (an
// unreferenced node is simply collected), but running it periodically
// keeps the reclaimer's pending queue bounded and lets tests assert on
// RecentlyReclaimed.
func (l *List[T]) reclaim() {
	l.reclaimer.Drain(l.rt.MinLiveEpoch())
}
