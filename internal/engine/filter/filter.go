// Package filter decides which fragments may enter a slot cache.
package filter

import (
	"slices"

	"go.trai.ch/robcache/internal/core/domain"
)

// Filter classifies fragments against an ordered list of exclusion rules.
// It holds no mutable state and is safe for concurrent use.
type Filter struct {
	rules       []domain.ExclusionRule
	filterEmpty bool
}

// New creates a Filter. The rules are copied; their order is significant.
func New(rules []domain.ExclusionRule, filterEmpty bool) *Filter {
	return &Filter{
		rules:       slices.Clone(rules),
		filterEmpty: filterEmpty,
	}
}

// NewFromConfig creates a Filter from the service configuration.
func NewFromConfig(cfg *domain.Config) *Filter {
	return New(cfg.Rules, cfg.FilterEmpty)
}

// Classify returns the verdict of the first matching rule. Without a match,
// an empty fragment is KeepAsEmpty when empty filtering is on, else Keep.
func (f *Filter) Classify(frag *domain.Fragment) domain.Classification {
	for _, r := range f.rules {
		if r.Matches(frag) {
			return r.Action.Classification()
		}
	}
	if f.filterEmpty && frag.IsEmpty() {
		return domain.KeepAsEmpty
	}
	return domain.Keep
}

// IsEventCorrupted reports whether any fragment carries a hard-error status bit.
func (f *Filter) IsEventCorrupted(frags []*domain.Fragment) bool {
	for _, frag := range frags {
		if frag.HasHardError() {
			return true
		}
	}
	return false
}

// Partition classifies frags and appends the ones allowed into the cache to kept.
// KeepAsEmpty fragments are replaced by a copy without payload.
// It returns kept and the number of dropped fragments.
func (f *Filter) Partition(frags, kept []*domain.Fragment) ([]*domain.Fragment, int) {
	dropped := 0
	for _, frag := range frags {
		switch f.Classify(frag) {
		case domain.Drop:
			dropped++
		case domain.KeepAsEmpty:
			kept = append(kept, emptied(frag))
		default:
			kept = append(kept, frag)
		}
	}
	return kept, dropped
}

func emptied(frag *domain.Fragment) *domain.Fragment {
	if frag.IsEmpty() {
		return frag
	}
	cp := *frag
	cp.Payload = frag.Payload[:0]
	return &cp
}
