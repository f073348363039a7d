// Package cache implements the per-slot fragment caches and their registry.
package cache

import (
	"sync"

	"go.trai.ch/robcache/internal/core/domain"
)

// SlotCache holds the fragments of the event currently processed in one slot.
//
// All methods are safe for concurrent use. A single RWMutex guards the map
// membership together with the event identity and status, so a reader racing
// with Reset sees either the old event or the new one, never a mix.
type SlotCache struct {
	mu        sync.RWMutex
	identity  domain.EventIdentity
	fragments map[domain.FragmentID]*domain.Fragment
	status    uint32
	complete  bool
	state     domain.SlotState
}

// NewSlotCache creates an idle SlotCache.
func NewSlotCache() *SlotCache {
	return &SlotCache{
		fragments: make(map[domain.FragmentID]*domain.Fragment),
		state:     domain.SlotIdle,
	}
}

// Reset discards every cached fragment and opens the event id.
func (c *SlotCache) Reset(id domain.EventIdentity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.fragments)
	c.identity = id
	c.status = 0
	c.complete = false
	c.state = domain.SlotEventOpen
}

// Insert caches f, replacing any fragment with the same id.
// It reports whether the id was not cached before.
func (c *SlotCache) Insert(f *domain.Fragment) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, exists := c.fragments[f.ID]
	c.fragments[f.ID] = f
	return !exists
}

// InsertAll caches frags for event, appending the ids that replaced an
// already cached fragment to overwritten. If the slot no longer holds event
// (it was reset while the caller was fetching), nothing is inserted and ok
// is false.
func (c *SlotCache) InsertAll(
	event domain.EventIdentity,
	frags []*domain.Fragment,
	overwritten []domain.FragmentID,
) (_ []domain.FragmentID, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.IsOpen() || c.identity != event {
		return overwritten, false
	}
	for _, f := range frags {
		if _, exists := c.fragments[f.ID]; exists {
			overwritten = append(overwritten, f.ID)
		}
		c.fragments[f.ID] = f
	}
	return overwritten, true
}

// LookupMany partitions ids into cached fragments and missing ids in one pass.
// Results are appended to found and missing, which the caller may reuse
// across calls by passing them resliced to zero length.
func (c *SlotCache) LookupMany(
	ids []domain.FragmentID,
	found []*domain.Fragment,
	missing []domain.FragmentID,
) ([]*domain.Fragment, []domain.FragmentID) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, id := range ids {
		if f, ok := c.fragments[id]; ok {
			found = append(found, f)
		} else {
			missing = append(missing, id)
		}
	}
	return found, missing
}

// Contains reports whether id is cached.
func (c *SlotCache) Contains(id domain.FragmentID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.fragments[id]
	return ok
}

// ForEach calls fn for every cached fragment until fn returns false.
// The read lock is held for the whole traversal, so fn must not call
// methods that take the write lock on the same SlotCache.
func (c *SlotCache) ForEach(fn func(*domain.Fragment) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, f := range c.fragments {
		if !fn(f) {
			return
		}
	}
}

// Len returns the number of cached fragments.
func (c *SlotCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.fragments)
}

// Identity returns the identity of the current event.
func (c *SlotCache) Identity() domain.EventIdentity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity
}

// SetStatus replaces the event status word.
func (c *SlotCache) SetStatus(word uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = word
}

// OrStatus raises bits in the event status word.
func (c *SlotCache) OrStatus(bits uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status |= bits
}

// Status returns the event status word.
func (c *SlotCache) Status() uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// MarkComplete flags the event as complete. Only Reset clears the flag.
func (c *SlotCache) MarkComplete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.complete = true
	c.state = domain.SlotEventComplete
}

// IsComplete reports whether the event has been marked complete.
func (c *SlotCache) IsComplete() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.complete
}

// State returns the lifecycle state of the slot.
func (c *SlotCache) State() domain.SlotState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// MarkPartial records that a full collection left fragments missing.
// It has no effect on an idle or complete slot.
func (c *SlotCache) MarkPartial() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == domain.SlotEventOpen {
		c.state = domain.SlotPartiallyCollected
	}
}
