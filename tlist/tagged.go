package tlist

import "sync/atomic"

// flagBits are the bits the source packs into the low bits of its
// TaggedLow<list_node> next pointer. invalidBit is the only flag this
// module needs.
type flagBits uint32

const invalidBit flagBits = 1 << 0

// taggedPtr is a node's (next, flags) pair: spec.md §9's "Tagged
// next-pointer" design note, realized as two atomically-updated fields
// rather than bit-packed into one machine word — see SPEC_FULL.md §9 for
// why packing into unsafe.Pointer was rejected. The flags here describe
// the *owning* node's own validity (mirroring the source, which stores
// the invalid bit of a node inside that same node's outgoing next
// pointer), not the pointee's.
type taggedPtr[T any] struct {
	ptr   atomic.Pointer[node[T]]
	flags atomic.Uint32
}

func (t *taggedPtr[T]) load() *node[T] {
	return t.ptr.Load()
}

func (t *taggedPtr[T]) store(n *node[T]) {
	t.ptr.Store(n)
}

// casPtr atomically swaps the pointer field if it still holds old. The
// list's splice fragments do not call it; they run under the structure
// lock and use store.
func (t *taggedPtr[T]) casPtr(old, new *node[T]) bool {
	return t.ptr.CompareAndSwap(old, new)
}

func (t *taggedPtr[T]) isValid() bool {
	return flagBits(t.flags.Load())&invalidBit == 0
}

func (t *taggedPtr[T]) markInvalid() {
	for {
		old := t.flags.Load()
		if t.flags.CompareAndSwap(old, old|uint32(invalidBit)) {
			return
		}
	}
}

func (t *taggedPtr[T]) markValid() {
	for {
		old := t.flags.Load()
		if t.flags.CompareAndSwap(old, old&^uint32(invalidBit)) {
			return
		}
	}
}

func (t *taggedPtr[T]) setInitialInvalid(invalid bool) {
	if invalid {
		t.flags.Store(uint32(invalidBit))
	} else {
		t.flags.Store(0)
	}
}
