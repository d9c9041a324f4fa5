package tlist

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avinassh/txlist/stm"
)

func drain[T any](l *List[T]) []T {
	var out []T
	it := l.Iter()
	for it.HasNext() {
		v, _ := it.Next()
		out = append(out, v)
	}
	return out
}

func TestList_SortedNoDuplicates(t *testing.T) {
	rt := stm.NewRuntime()
	l := NewOrdered[int](rt)

	assert.True(t, l.Insert(3))
	assert.True(t, l.Insert(1))
	assert.True(t, l.Insert(5))
	assert.Equal(t, []int{1, 3, 5}, drain(l))
	assert.Equal(t, 3, l.Size())

	// duplicate insert of an existing value fails
	assert.False(t, l.Insert(3))
	assert.Equal(t, 3, l.Size())
}

func TestList_UnsortedDuplicatesAllowed_HeadInsert(t *testing.T) {
	rt := stm.NewRuntime()
	l := NewOrdered[int](rt, WithSorted[int](false), WithDuplicates[int](true))

	l.Insert(1)
	l.Insert(2)
	l.Insert(3)
	// unsorted+duplicates-allowed always prepends, so order is reverse
	// insertion order, spec.md §4.1's edge case.
	assert.Equal(t, []int{3, 2, 1}, drain(l))
}

func TestList_SortedDuplicatesAllowed_AdjacentInsertionOrder(t *testing.T) {
	rt := stm.NewRuntime()
	l := NewOrdered[int](rt, WithDuplicates[int](true))

	l.Insert(5)
	l.Insert(3)
	l.Insert(3)
	l.Insert(3)
	l.Insert(7)
	// duplicates of 3 appear adjacently, in insertion order among equals.
	assert.Equal(t, []int{3, 3, 3, 5, 7}, drain(l))
}

func TestList_FindAndRemove(t *testing.T) {
	rt := stm.NewRuntime()
	l := NewOrdered[int](rt)
	for _, v := range []int{1, 3, 5, 7} {
		l.Insert(v)
	}

	v, ok := l.Find(5)
	assert.True(t, ok)
	assert.Equal(t, 5, v)

	_, ok = l.Find(9)
	assert.False(t, ok)

	assert.True(t, l.Remove(5))
	assert.False(t, l.Remove(5))
	assert.Equal(t, []int{1, 3, 7}, drain(l))
	assert.Equal(t, 3, l.Size())
}

func TestList_Clear(t *testing.T) {
	rt := stm.NewRuntime()
	l := NewOrdered[int](rt)
	for _, v := range []int{1, 2, 3, 4} {
		l.Insert(v)
	}
	l.Clear()
	assert.Equal(t, 0, l.Size())
	assert.Empty(t, drain(l))

	// clearing an already-empty list is a no-op, not a panic.
	l.Clear()
	assert.Equal(t, 0, l.Size())
}

func TestList_SortedStopsEarly(t *testing.T) {
	rt := stm.NewRuntime()
	l := NewOrdered[int](rt)
	for _, v := range []int{2, 4, 6} {
		l.Insert(v)
	}
	// 3 would sort between 2 and 4; a sorted list must report it absent
	// rather than keep scanning past 4.
	_, ok := l.Find(3)
	assert.False(t, ok)
}
