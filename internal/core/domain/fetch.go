package domain

// FetchRequest asks the readout system for fragments of one event.
type FetchRequest struct {
	Slot   int
	Event  EventIdentity
	Wanted []FragmentID
}

// FetchResult is what a gateway managed to resolve for a FetchRequest.
type FetchResult struct {
	Obtained     []*Fragment
	StillMissing []FragmentID
}

// NewFetchResult builds a FetchResult, deriving StillMissing as the wanted ids
// absent from obtained.
func NewFetchResult(wanted []FragmentID, obtained []*Fragment) FetchResult {
	got := make(map[FragmentID]struct{}, len(obtained))
	for _, f := range obtained {
		got[f.ID] = struct{}{}
	}
	var missing []FragmentID
	for _, id := range wanted {
		if _, ok := got[id]; !ok {
			missing = append(missing, id)
		}
	}
	return FetchResult{Obtained: obtained, StillMissing: missing}
}

// Retrieval is the outcome of a synchronous retrieve.
// Fragments holds the requested ids that ended up cached, in request order.
type Retrieval struct {
	Fragments []*Fragment
	Missing   []FragmentID
}

// MissingCount returns the number of requested ids that could not be resolved.
func (r Retrieval) MissingCount() int {
	return len(r.Missing)
}

// Collection is the outcome of collecting the complete event.
type Collection struct {
	// Missing lists every enabled id still absent after the collection.
	Missing []FragmentID
	// MandatoryMissing counts the mandatory ids among Missing.
	MandatoryMissing int
	Complete         bool
}

// MissingCount returns the number of enabled ids still missing.
func (c Collection) MissingCount() int {
	return len(c.Missing)
}
