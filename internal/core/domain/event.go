package domain

// EventIdentity names the event currently held by a slot.
type EventIdentity struct {
	RunNumber         uint32
	GlobalEventNumber uint64
	L1ID              uint32
	BCID              uint16
}

// Event status bits.
const (
	// EventStatusFragmentErrors is raised when a kept fragment carries a hard error.
	EventStatusFragmentErrors uint32 = 0x1
	// EventStatusIncomplete is raised when collection ends with mandatory fragments missing.
	EventStatusIncomplete uint32 = 0x2
)

// SlotState is the lifecycle state of one slot.
type SlotState string

const (
	// SlotIdle indicates no event has been opened in the slot yet.
	SlotIdle SlotState = "idle"
	// SlotEventOpen indicates an event is open and accepting fragments.
	SlotEventOpen SlotState = "open"
	// SlotPartiallyCollected indicates a full collection ran with fragments still missing.
	SlotPartiallyCollected SlotState = "partial"
	// SlotEventComplete indicates every mandatory fragment has been collected.
	SlotEventComplete SlotState = "complete"
)

// IsOpen reports whether retrievals are allowed in this state.
func (s SlotState) IsOpen() bool {
	return s != SlotIdle && s != ""
}

// Event is a recorded event as read from a replay log.
type Event struct {
	Identity EventIdentity
	// Initial lists the fragments delivered with the event itself (the Level-1 result).
	Initial   []FragmentID
	Fragments []*Fragment
}

// Fragment returns the recorded fragment with the given id.
func (e *Event) Fragment(id FragmentID) (*Fragment, bool) {
	for _, f := range e.Fragments {
		if f.ID == id {
			return f, true
		}
	}
	return nil, false
}

// InitialFragments returns the recorded fragments listed in Initial, in order.
// Ids without a recorded fragment are skipped.
func (e *Event) InitialFragments() []*Fragment {
	out := make([]*Fragment, 0, len(e.Initial))
	for _, id := range e.Initial {
		if f, ok := e.Fragment(id); ok {
			out = append(out, f)
		}
	}
	return out
}
