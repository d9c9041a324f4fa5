package tlist

import "github.com/avinassh/txlist/stm"

// Iterator walks a List forward, once per Reset, per spec.md §4.4. A
// non-transactional Iterator (from List.Iter) performs no conflict
// tracking; a transactional Iterator (from List.TransIter) hides this
// transaction's own deletes and aborts on any foreign invalidation.
type Iterator[T any] struct {
	list  *List[T]
	tx    *stm.Tx
	cur   *node[T]
	txnal bool
}

// Iter returns a non-transactional iterator starting at head.
func (l *List[T]) Iter() *Iterator[T] {
	return &Iterator[T]{list: l, cur: l.head.Load()}
}

// TransIter returns a transactional iterator, registering a size-version
// observation at construction so any committed structural change
// invalidates this iteration, per spec.md §4.4.
func (l *List[T]) TransIter(tx *stm.Tx) *Iterator[T] {
	listv := l.sizeVersion.Snapshot()
	l.verifyList(tx, listv)
	it := &Iterator[T]{list: l, tx: tx, cur: l.head.Load(), txnal: true}
	it.ensureValid()
	return it
}

// HasNext reports whether Next would yield a value.
func (it *Iterator[T]) HasNext() bool {
	return it.cur != nil
}

// Next advances the iterator and returns the value it was sitting on
// before advancing, or false once exhausted.
func (it *Iterator[T]) Next() (T, bool) {
	if it.cur == nil {
		var zero T
		return zero, false
	}
	v := it.cur.value
	it.cur = it.cur.next.load()
	if it.txnal {
		it.ensureValid()
	}
	return v, true
}

// Reset rewinds the iterator to head for a fresh forward pass.
func (it *Iterator[T]) Reset() {
	it.cur = it.list.head.Load()
	if it.txnal {
		it.ensureValid()
	}
}

// ensureValid implements the transactional advance procedure of
// spec.md §4.4: abort on a foreign invalid node (spec.md §9's resolution
// of the source's inconsistent handling), skip this transaction's own
// pending deletes, otherwise stop at the next node to yield.
func (it *Iterator[T]) ensureValid() {
	for it.cur != nil {
		item, found := it.tx.CheckItem(it.list, it.cur)
		if !it.cur.isValid() {
			if !found || !hasInsert(item) {
				it.tx.Abort("iterator: encountered a node invalidated by a concurrent commit")
			}
		}
		if found && item.HasFlags(flagDelete) {
			it.cur = it.cur.next.load()
			continue
		}
		break
	}
}
