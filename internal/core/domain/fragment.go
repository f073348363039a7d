package domain

import "fmt"

// FragmentID identifies a readout fragment (ROB) by its source identifier.
// Bits 16..23 carry the sub-detector id and bits 0..15 the module id.
type FragmentID uint32

// NewFragmentID builds a FragmentID from a sub-detector id and a module id.
func NewFragmentID(subDetector uint8, module uint16) FragmentID {
	return FragmentID(uint32(subDetector)<<16 | uint32(module))
}

// SubDetector returns the sub-detector part of the source identifier.
func (id FragmentID) SubDetector() uint8 {
	return uint8(id >> 16)
}

// Module returns the module part of the source identifier.
func (id FragmentID) Module() uint16 {
	return uint16(id)
}

// String renders the id the way source identifiers are usually written.
func (id FragmentID) String() string {
	return fmt.Sprintf("0x%06x", uint32(id))
}

// Generic status bits carried in the low half of the first status word.
const (
	StatusBCIDCheckFail    uint32 = 0x1
	StatusL1IDCheckFail    uint32 = 0x2
	StatusTimeout          uint32 = 0x4
	StatusDataCorruption   uint32 = 0x8
	StatusInternalOverflow uint32 = 0x10

	// HardErrorMask selects the generic bits that mark the owning event as corrupted.
	HardErrorMask = StatusDataCorruption | StatusInternalOverflow
)

// Fragment is one raw-data block of an event.
//
// A Fragment is treated as immutable once it has been handed to the cache.
// Payload is a view into storage owned by whoever decoded the fragment; the
// cache never copies it, so the owner must keep it valid until the event ends.
type Fragment struct {
	ID      FragmentID
	Payload []byte
	Status  []uint32
	L1ID    uint32
	BCID    uint16
}

// SubDetector returns the sub-detector id of the fragment's source.
func (f *Fragment) SubDetector() uint8 {
	return f.ID.SubDetector()
}

// StatusWord returns the first status word, or 0 when the fragment carries none.
func (f *Fragment) StatusWord() uint32 {
	if len(f.Status) == 0 {
		return 0
	}
	return f.Status[0]
}

// IsEmpty reports whether the fragment has no payload.
func (f *Fragment) IsEmpty() bool {
	return len(f.Payload) == 0
}

// HasHardError reports whether the fragment carries a generic status bit that
// corrupts the event.
func (f *Fragment) HasHardError() bool {
	return f.StatusWord()&HardErrorMask != 0
}

// Classification is the filter verdict for a fragment.
type Classification int

const (
	// Keep inserts the fragment unchanged.
	Keep Classification = iota
	// Drop keeps the fragment out of the cache.
	Drop
	// KeepAsEmpty inserts the fragment flagged as empty.
	KeepAsEmpty
)

// String returns the string representation of the Classification.
func (c Classification) String() string {
	switch c {
	case Keep:
		return "keep"
	case Drop:
		return "drop"
	case KeepAsEmpty:
		return "keep-as-empty"
	default:
		return "unknown"
	}
}
