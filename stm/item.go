package stm

// Flags is a bitset of caller-defined intent flags stashed alongside an
// Item. The runtime itself interprets none of the bits — they all belong
// to the collaborator that owns the keyed object (see tlist's
// insert/delete/doupdate bits).
type Flags uint32

// Item is a transaction-local record keyed by (owner, key), following
// spec.md §6's item()/check_item() contract. It is created lazily on first
// access and discarded when the owning transaction ends.
//
// The read/write marks and stash slot are modeled directly on the
// teacher's per-row bookkeeping in tx.go ("// TODO: add this row to read
// set" / "// TODO: add to update set") and on lukechampine/stm's
// Tx.reads/Tx.writes maps, generalized from one entry per *Var to one
// entry per (owner, key).
type Item struct {
	owner any
	key   any

	seq uint64 // assigned at first touch; defines commit lock order

	flags Flags

	hasRead  bool
	readVal  any
	hasWrite bool
	writeVal any

	hasStash bool
	stashVal any
}

// Owner returns the collaborator this item belongs to.
func (it *Item) Owner() any { return it.owner }

// Key returns the keyed object this item tracks.
func (it *Item) Key() any { return it.key }

// FlagsValue returns the item's current user flags.
func (it *Item) FlagsValue() Flags { return it.flags }

// HasFlags reports whether every bit in want is set.
func (it *Item) HasFlags(want Flags) bool { return it.flags&want == want }

// AddFlags ORs bits into the item's flags.
func (it *Item) AddFlags(f Flags) *Item {
	it.flags |= f
	return it
}

// ClearFlags clears bits from the item's flags.
func (it *Item) ClearFlags(f Flags) *Item {
	it.flags &^= f
	return it
}

// AssignFlags replaces the item's flags outright, mirroring the teacher's
// item.assign_flags(doupdate_bit)-style overwrite of mutually exclusive
// intent bits.
func (it *Item) AssignFlags(f Flags) *Item {
	it.flags = f
	return it
}

// AddRead arms a read witness on the item, recording val as the value
// observed at the time of the read.
func (it *Item) AddRead(val any) *Item {
	it.hasRead = true
	it.readVal = val
	return it
}

// HasRead reports whether a read witness is armed.
func (it *Item) HasRead() bool { return it.hasRead }

// ReadValue returns the value recorded by AddRead.
func (it *Item) ReadValue() any { return it.readVal }

// RemoveRead clears the read witness, used when a transaction unwinds its
// own insert-then-delete composition back to a no-op.
func (it *Item) RemoveRead() *Item {
	it.hasRead = false
	it.readVal = nil
	return it
}

// AddWrite arms a write intent on the item with the given pending value.
func (it *Item) AddWrite(val any) *Item {
	it.hasWrite = true
	it.writeVal = val
	return it
}

// HasWrite reports whether a write intent is armed.
func (it *Item) HasWrite() bool { return it.hasWrite }

// WriteValue returns the value recorded by AddWrite.
func (it *Item) WriteValue() any { return it.writeVal }

// ClearWrite clears the write intent and its pending value. The stash
// slot (SetStash) is left untouched.
func (it *Item) ClearWrite() *Item {
	it.hasWrite = false
	it.writeVal = nil
	return it
}

// RemoveWrite is an alias for ClearWrite kept for symmetry with RemoveRead,
// mirroring the source's item.remove_write().
func (it *Item) RemoveWrite() *Item { return it.ClearWrite() }

// SetStash stores an arbitrary typed payload on the item, used for the
// size-key item's signed delta accumulator (spec.md §4.2).
func (it *Item) SetStash(val any) *Item {
	it.hasStash = true
	it.stashVal = val
	return it
}

// Stash returns the stashed payload, or def if none has been set.
func (it *Item) Stash(def any) any {
	if !it.hasStash {
		return def
	}
	return it.stashVal
}
