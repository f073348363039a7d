package cache

import (
	"go.trai.ch/robcache/internal/core/domain"
	"go.trai.ch/zerr"
)

// Registry is a fixed arena of SlotCaches indexed by slot number.
// It is read-only after construction and needs no locking of its own.
type Registry struct {
	slots []*SlotCache
}

// NewRegistry creates a Registry with maxSlots idle slots.
func NewRegistry(maxSlots int) *Registry {
	if maxSlots < 0 {
		maxSlots = 0
	}
	slots := make([]*SlotCache, maxSlots)
	for i := range slots {
		slots[i] = NewSlotCache()
	}
	return &Registry{slots: slots}
}

// ForSlot returns the SlotCache for slot.
func (r *Registry) ForSlot(slot int) (*SlotCache, error) {
	if slot < 0 || slot >= len(r.slots) {
		err := zerr.Wrap(domain.ErrOutOfRangeSlot, "slot lookup failed")
		err = zerr.With(err, "slot", slot)
		return nil, zerr.With(err, "max_slots", len(r.slots))
	}
	return r.slots[slot], nil
}

// Len returns the number of slots.
func (r *Registry) Len() int {
	return len(r.slots)
}
