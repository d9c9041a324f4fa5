package tlist

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avinassh/txlist/stm"
)

func newTestList(rt *stm.Runtime) *List[int] {
	return NewOrdered[int](rt)
}

// --- composition laws, spec.md §8 ---

func TestComposition_InsertInsert(t *testing.T) {
	rt := stm.NewRuntime()
	l := newTestList(rt)
	err := rt.Atomically(func(tx *stm.Tx) error {
		assert.True(t, l.TransInsert(tx, 3))
		assert.False(t, l.TransInsert(tx, 3))
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, l.Size())
}

func TestComposition_InsertThenDelete_NetsToNothing(t *testing.T) {
	rt := stm.NewRuntime()
	l := newTestList(rt)
	err := rt.Atomically(func(tx *stm.Tx) error {
		assert.True(t, l.TransInsert(tx, 3))
		assert.True(t, l.TransDelete(tx, 3))
		assert.Equal(t, 0, l.TransSize(tx))
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, l.Size())
	_, ok := l.Find(3)
	assert.False(t, ok)
}

func TestComposition_DeleteThenInsert_UpgradesToUpdate(t *testing.T) {
	rt := stm.NewRuntime()
	l := newTestList(rt)
	l.Insert(3)

	err := rt.Atomically(func(tx *stm.Tx) error {
		assert.True(t, l.TransDelete(tx, 3))
		assert.True(t, l.TransInsert(tx, 3))
		v, ok := l.TransFind(tx, 3)
		assert.True(t, ok)
		assert.Equal(t, 3, v)
		assert.Equal(t, 1, l.TransSize(tx))
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, l.Size())
}

func TestComposition_DeleteInsertDelete(t *testing.T) {
	rt := stm.NewRuntime()
	l := newTestList(rt)
	l.Insert(3)

	err := rt.Atomically(func(tx *stm.Tx) error {
		assert.True(t, l.TransDelete(tx, 3))
		assert.True(t, l.TransInsert(tx, 3))
		assert.True(t, l.TransDelete(tx, 3))
		// net effect of delete, insert (upgrade to update), delete again is
		// a single delete: the list still has one committed node, offset
		// by this transaction's pending -1.
		assert.Equal(t, 0, l.TransSize(tx))
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, l.Size())
}

func TestComposition_DeleteDelete(t *testing.T) {
	rt := stm.NewRuntime()
	l := newTestList(rt)
	l.Insert(3)

	err := rt.Atomically(func(tx *stm.Tx) error {
		assert.True(t, l.TransDelete(tx, 3))
		assert.False(t, l.TransDelete(tx, 3))
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, l.Size())
}

// --- concrete scenarios, spec.md §8 ---

// S1: two concurrent inserts of the same value; exactly one commits.
func TestScenario_S1_ConcurrentInsertSameValue(t *testing.T) {
	rt := stm.NewRuntime()
	l := newTestList(rt)

	var wg sync.WaitGroup
	results := make([]bool, 2)
	wg.Add(2)
	for i := 0; i < 2; i++ {
		i := i
		go func() {
			defer wg.Done()
			err := rt.Atomically(func(tx *stm.Tx) error {
				results[i] = l.TransInsert(tx, 3)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	successes := 0
	for _, r := range results {
		if r {
			successes++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, l.Size())
	v, ok := l.Find(3)
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

// S2: inserting into the middle of a sorted list.
func TestScenario_S2_SortedMiddleInsert(t *testing.T) {
	rt := stm.NewRuntime()
	l := newTestList(rt)
	for _, v := range []int{1, 3, 5} {
		l.Insert(v)
	}

	err := rt.Atomically(func(tx *stm.Tx) error {
		assert.True(t, l.TransInsert(tx, 4))
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4, 5}, drain(l))
	assert.Equal(t, 4, l.Size())
}

// S3: delete then re-insert the same key within one transaction is an
// in-place update, preserving node identity and bumping the size-version
// exactly once.
func TestScenario_S3_DeleteReinsertPreservesIdentity(t *testing.T) {
	rt := stm.NewRuntime()
	l := newTestList(rt)
	for _, v := range []int{1, 2, 3} {
		l.Insert(v)
	}
	before := l.findNode(2)
	versionBefore := l.sizeVersion.Snapshot()

	err := rt.Atomically(func(tx *stm.Tx) error {
		assert.True(t, l.TransDelete(tx, 2))
		assert.True(t, l.TransInsert(tx, 2))
		v, ok := l.TransFind(tx, 2)
		assert.True(t, ok)
		assert.Equal(t, 2, v)
		return nil
	})
	assert.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, drain(l))
	assert.Equal(t, 3, l.Size())
	after := l.findNode(2)
	assert.Same(t, before, after)
	assert.Equal(t, versionBefore+1, l.sizeVersion.Snapshot())
}

// S4: an absence witness must be invalidated by a concurrent insert that
// fills the gap before commit.
func TestScenario_S4_AbsenceWitnessAborts(t *testing.T) {
	rt := stm.NewRuntime()
	l := newTestList(rt)
	l.Insert(1)
	l.Insert(3)

	tx1 := rt.Begin()
	_, ok := l.TransFind(tx1, 2)
	assert.False(t, ok)

	err := rt.Atomically(func(tx2 *stm.Tx) error {
		assert.True(t, l.TransInsert(tx2, 2))
		return nil
	})
	assert.NoError(t, err)

	committed := rt.TryCommit(tx1)
	assert.False(t, committed, "tx1 must abort: its absence witness for 2 was invalidated")
}

// S6: aborting a transaction that inserted a value leaves no trace.
func TestScenario_S6_AbortRollsBackReservedNode(t *testing.T) {
	rt := stm.NewRuntime()
	l := newTestList(rt)

	tx := rt.Begin()
	assert.True(t, l.TransInsert(tx, 7))
	rt.Discard(tx)

	_, ok := l.Find(7)
	assert.False(t, ok)
	assert.Equal(t, 0, l.Size())
}

func TestTransDelete_AbsentKey_VerifiesList(t *testing.T) {
	rt := stm.NewRuntime()
	l := newTestList(rt)
	l.Insert(1)

	err := rt.Atomically(func(tx *stm.Tx) error {
		assert.False(t, l.TransDelete(tx, 99))
		return nil
	})
	assert.NoError(t, err)
}
