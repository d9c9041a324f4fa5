package tlist

import "github.com/avinassh/txlist/stm"

// Per-item intent flags, spec.md §4.3's flag semantics table. These are
// mutually exclusive except where read/write marks compose with them —
// see hasInsert below.
const (
	flagInsert stm.Flags = 1 << iota
	flagDelete
	flagDoupdate
)

// tItem gets-or-creates this list's transaction-local item for node,
// spec.md §4.2's t_item(node).
func (l *List[T]) tItem(tx *stm.Tx, key any) *stm.Item {
	return tx.Item(l, key)
}

// validityCheck mirrors the source's bool validityCheck(n, item):
// a node is safe to observe if it is committed-visible, or if this
// transaction is the one that reserved it via insert.
func (l *List[T]) validityCheck(n *node[T], item *stm.Item) bool {
	return n.isValid() || item.HasFlags(flagInsert)
}

// hasInsert composes has_write ∧ ¬delete ∧ ¬doupdate, spec.md §4.3's
// table. In practice every insert item also carries the explicit
// flagInsert bit (validityCheck and Cleanup key off that bit directly),
// so the two tests coincide; this composed form exists for the call
// site (the iterator) that mirrors the source's has_insert(item) rather
// than a raw flag test.
func hasInsert(item *stm.Item) bool {
	return item.HasWrite() && !item.HasFlags(flagDelete) && !item.HasFlags(flagDoupdate)
}

// verifyList registers an observation of the size-version as of readv on
// the list-key item, spec.md §4.1's verify_list: any concurrent committer
// that bumps the size-version before this transaction commits will fail
// this transaction's list-key check.
func (l *List[T]) verifyList(tx *stm.Tx, readv uint64) {
	l.tItem(tx, theListKey).AddRead(readv)
}

// addLockListItem arms a write on the list-key item, which at commit
// time causes Lock to take the size-version's commit lock for the
// duration of this transaction's check->install phase.
func (l *List[T]) addLockListItem(tx *stm.Tx) {
	l.tItem(tx, theListKey).AddWrite(struct{}{})
}

// addTransSizeOffs accumulates delta into this transaction's local size
// adjustment, stashed on the size-key item (spec.md §3's TxItem
// (size-key)).
func (l *List[T]) addTransSizeOffs(tx *stm.Tx, delta int) {
	item := l.tItem(tx, theSizeKey)
	cur, _ := item.Stash(0).(int)
	item.SetStash(cur + delta)
}

func (l *List[T]) transSizeOffs(tx *stm.Tx) int {
	item, ok := tx.CheckItem(l, theSizeKey)
	if !ok {
		return 0
	}
	v, _ := item.Stash(0).(int)
	return v
}

// TransFind is spec.md §4.2's transFind(key).
func (l *List[T]) TransFind(tx *stm.Tx, elem T) (T, bool) {
	var zero T
	listv := l.sizeVersion.Snapshot()
	n := l.findNode(elem)
	if n == nil {
		l.verifyList(tx, listv)
		return zero, false
	}
	item := l.tItem(tx, n)
	if !l.validityCheck(n, item) {
		tx.Abort("transFind: node invalidated by a concurrent commit")
	}
	if item.HasFlags(flagDelete) {
		return zero, false
	}
	item.AddRead(struct{}{})
	return n.value, true
}

// TransInsert is spec.md §4.2's transInsert(value).
func (l *List[T]) TransInsert(tx *stm.Tx, elem T) bool {
	n, inserted := l.insertNode(elem, true)
	item := l.tItem(tx, n)

	if !inserted {
		if !l.validityCheck(n, item) {
			tx.Abort("transInsert: node invalidated by a concurrent commit")
		}
		if item.HasFlags(flagInsert) {
			// intratransactional insert-then-insert = failed insert
			return false
		}
		if item.HasFlags(flagDoupdate) {
			// delete-then-insert, then insert -- failed insert
			return false
		}
		if item.HasFlags(flagDelete) {
			// delete-then-insert collapses into an update
			item.ClearWrite().AddWrite(elem)
			item.AssignFlags(flagDoupdate)
			l.addTransSizeOffs(tx, 1)
			return true
		}
		// "normal" insert-then-insert = failed insert, but we still need
		// to witness the node's presence at commit time.
		item.AddRead(struct{}{})
		return false
	}

	l.addTransSizeOffs(tx, 1)
	l.addLockListItem(tx)
	item.AddWrite(elem)
	item.AddFlags(flagInsert)
	return true
}

// TransDelete is spec.md §4.2's transDelete(key).
func (l *List[T]) TransDelete(tx *stm.Tx, elem T) bool {
	listv := l.sizeVersion.Snapshot()
	n := l.findNode(elem)
	if n == nil {
		l.verifyList(tx, listv)
		return false
	}

	item := l.tItem(tx, n)
	if !l.validityCheck(n, item) {
		tx.Abort("transDelete: node invalidated by a concurrent commit")
	}
	if item.HasFlags(flagDelete) {
		// deleting our own delete
		return false
	}
	if item.HasFlags(flagDoupdate) {
		// back to deleting
		item.AssignFlags(flagDelete)
		l.addTransSizeOffs(tx, -1)
		return true
	}
	if item.HasFlags(flagInsert) {
		// insert-then-delete becomes nothing: physically undo the
		// reservation now, under the structure lock.
		l.removeByIdentity(n, true, false)
		item.ClearFlags(flagInsert).RemoveRead().RemoveWrite()
		l.addTransSizeOffs(tx, -1)
		l.verifyList(tx, listv)
		return true
	}

	item.AssignFlags(flagDelete)
	item.AddWrite(struct{}{})
	item.AddRead(struct{}{})
	l.addLockListItem(tx)
	l.addTransSizeOffs(tx, -1)
	return true
}

// TransSize is spec.md §4.2's size(), transactional variant.
func (l *List[T]) TransSize(tx *stm.Tx) int {
	listv := l.sizeVersion.Snapshot()
	l.verifyList(tx, listv)
	return l.Size() + l.transSizeOffs(tx)
}
