package service

import "sync/atomic"

// Stats is a snapshot of the service counters.
type Stats struct {
	// FetchCalls counts gateway round-trips.
	FetchCalls int64 `json:"fetchCalls"`
	// FetchErrors counts round-trips that failed in transport.
	FetchErrors int64 `json:"fetchErrors"`
	// FetchedFragments counts fragments returned by the gateway, before filtering.
	FetchedFragments int64 `json:"fetchedFragments"`
	// DuplicateInserts counts fragments that replaced an already cached one.
	DuplicateInserts int64 `json:"duplicateInserts"`
	// DroppedFragments counts fragments rejected by the filter.
	DroppedFragments int64 `json:"droppedFragments"`
	// OmittedFragments counts requested ids left out of retrieval results.
	OmittedFragments int64 `json:"omittedFragments"`
}

type counters struct {
	fetchCalls  atomic.Int64
	fetchErrors atomic.Int64
	fetched     atomic.Int64
	duplicates  atomic.Int64
	dropped     atomic.Int64
	omitted     atomic.Int64
}

// Stats returns the current counter values.
func (s *Service) Stats() Stats {
	return Stats{
		FetchCalls:       s.stats.fetchCalls.Load(),
		FetchErrors:      s.stats.fetchErrors.Load(),
		FetchedFragments: s.stats.fetched.Load(),
		DuplicateInserts: s.stats.duplicates.Load(),
		DroppedFragments: s.stats.dropped.Load(),
		OmittedFragments: s.stats.omitted.Load(),
	}
}
