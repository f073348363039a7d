package cache_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/robcache/internal/core/domain"
	"go.trai.ch/robcache/internal/engine/cache"
	"go.trai.ch/zerr"
)

func frag(id domain.FragmentID, payload string) *domain.Fragment {
	return &domain.Fragment{ID: id, Payload: []byte(payload)}
}

func TestSlotCache_ResetClearsEverything(t *testing.T) {
	c := cache.NewSlotCache()
	assert.Equal(t, domain.SlotIdle, c.State())

	c.Reset(domain.EventIdentity{RunNumber: 1, L1ID: 10})
	c.Insert(frag(1, "A"))
	c.Insert(frag(2, "B"))
	c.SetStatus(0x7)
	c.MarkComplete()

	c.Reset(domain.EventIdentity{RunNumber: 1, L1ID: 11})

	found, missing := c.LookupMany([]domain.FragmentID{1, 2}, nil, nil)
	assert.Empty(t, found)
	assert.Equal(t, []domain.FragmentID{1, 2}, missing)
	assert.False(t, c.IsComplete())
	assert.Equal(t, uint32(0), c.Status())
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, uint32(11), c.Identity().L1ID)
	assert.Equal(t, domain.SlotEventOpen, c.State())
}

func TestSlotCache_InsertLastWriteWins(t *testing.T) {
	c := cache.NewSlotCache()
	c.Reset(domain.EventIdentity{})

	assert.True(t, c.Insert(frag(7, "first")))
	assert.False(t, c.Insert(frag(7, "second")))

	found, missing := c.LookupMany([]domain.FragmentID{7}, nil, nil)
	require.Len(t, found, 1)
	assert.Empty(t, missing)
	assert.Equal(t, "second", string(found[0].Payload))
	assert.Equal(t, 1, c.Len())
}

func TestSlotCache_LookupManyAppendsToScratch(t *testing.T) {
	c := cache.NewSlotCache()
	c.Reset(domain.EventIdentity{})
	c.Insert(frag(1, "A"))
	c.Insert(frag(3, "C"))

	foundBuf := make([]*domain.Fragment, 0, 8)
	missingBuf := make([]domain.FragmentID, 0, 8)

	found, missing := c.LookupMany([]domain.FragmentID{1, 2, 3, 4}, foundBuf, missingBuf)
	assert.Len(t, found, 2)
	assert.Equal(t, []domain.FragmentID{2, 4}, missing)

	// Reuse the same backing arrays for a second lookup.
	found, missing = c.LookupMany([]domain.FragmentID{3}, found[:0], missing[:0])
	require.Len(t, found, 1)
	assert.Equal(t, domain.FragmentID(3), found[0].ID)
	assert.Empty(t, missing)
}

func TestSlotCache_ForEachStopsEarly(t *testing.T) {
	c := cache.NewSlotCache()
	c.Reset(domain.EventIdentity{})
	for id := domain.FragmentID(1); id <= 5; id++ {
		c.Insert(frag(id, "x"))
	}

	visited := 0
	c.ForEach(func(*domain.Fragment) bool {
		visited++
		return visited < 2
	})
	assert.Equal(t, 2, visited)

	all := map[domain.FragmentID]bool{}
	c.ForEach(func(f *domain.Fragment) bool {
		all[f.ID] = true
		return true
	})
	assert.Len(t, all, 5)
}

func TestSlotCache_CompletionIsMonotonic(t *testing.T) {
	c := cache.NewSlotCache()
	c.Reset(domain.EventIdentity{})

	c.MarkPartial()
	assert.Equal(t, domain.SlotPartiallyCollected, c.State())

	c.MarkComplete()
	assert.True(t, c.IsComplete())

	// A late partial collection does not undo completion.
	c.MarkPartial()
	assert.True(t, c.IsComplete())
	assert.Equal(t, domain.SlotEventComplete, c.State())
}

func TestSlotCache_StatusBits(t *testing.T) {
	c := cache.NewSlotCache()
	c.Reset(domain.EventIdentity{})

	c.OrStatus(domain.EventStatusFragmentErrors)
	c.OrStatus(domain.EventStatusIncomplete)
	assert.Equal(t, domain.EventStatusFragmentErrors|domain.EventStatusIncomplete, c.Status())

	c.SetStatus(0x40)
	assert.Equal(t, uint32(0x40), c.Status())
}

func TestSlotCache_ConcurrentResetIsAtomic(t *testing.T) {
	c := cache.NewSlotCache()
	ids := []domain.FragmentID{1, 2, 3, 4}

	// Every event inserts the full id set tagged with its L1 id, so a reader
	// must never see fragments from two events at once.
	fill := func(l1 uint32) {
		c.Reset(domain.EventIdentity{L1ID: l1})
		for _, id := range ids {
			c.Insert(&domain.Fragment{ID: id, L1ID: l1})
		}
	}
	fill(0)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for l1 := uint32(1); l1 < 200; l1++ {
			fill(l1)
		}
	}()

	for range 500 {
		found, _ := c.LookupMany(ids, nil, nil)
		seen := map[uint32]bool{}
		for _, f := range found {
			seen[f.L1ID] = true
		}
		assert.LessOrEqual(t, len(seen), 1)
	}
	wg.Wait()
}

func TestRegistry_ForSlot(t *testing.T) {
	r := cache.NewRegistry(3)
	assert.Equal(t, 3, r.Len())

	a, err := r.ForSlot(0)
	require.NoError(t, err)
	b, err := r.ForSlot(2)
	require.NoError(t, err)
	assert.NotSame(t, a, b)

	again, err := r.ForSlot(0)
	require.NoError(t, err)
	assert.Same(t, a, again)
}

func TestRegistry_OutOfRange(t *testing.T) {
	r := cache.NewRegistry(2)

	for _, slot := range []int{-1, 2, 100} {
		_, err := r.ForSlot(slot)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrOutOfRangeSlot))

		var zErr *zerr.Error
		require.ErrorAs(t, err, &zErr)
		assert.Equal(t, slot, zErr.Metadata()["slot"])
	}
}

func TestRegistry_NoCrossSlotLeakage(t *testing.T) {
	r := cache.NewRegistry(2)
	a, _ := r.ForSlot(0)
	b, _ := r.ForSlot(1)
	a.Reset(domain.EventIdentity{L1ID: 1})
	b.Reset(domain.EventIdentity{L1ID: 2})

	a.Insert(frag(42, "only-in-a"))

	_, missing := b.LookupMany([]domain.FragmentID{42}, nil, nil)
	assert.Equal(t, []domain.FragmentID{42}, missing)
	assert.True(t, a.Contains(42))
	assert.False(t, b.Contains(42))
}

func TestSlotCache_InsertAll(t *testing.T) {
	c := cache.NewSlotCache()
	ev := domain.EventIdentity{RunNumber: 3, L1ID: 5}

	_, ok := c.InsertAll(ev, []*domain.Fragment{frag(1, "A")}, nil)
	assert.False(t, ok, "idle slot must reject inserts")

	c.Reset(ev)
	overwritten, ok := c.InsertAll(ev, []*domain.Fragment{frag(1, "A"), frag(2, "B"), frag(1, "A2")}, nil)
	require.True(t, ok)
	assert.Equal(t, []domain.FragmentID{1}, overwritten)
	assert.Equal(t, 2, c.Len())

	c.Reset(domain.EventIdentity{RunNumber: 3, L1ID: 6})
	_, ok = c.InsertAll(ev, []*domain.Fragment{frag(9, "stale")}, nil)
	assert.False(t, ok)
	assert.False(t, c.Contains(9))
}
