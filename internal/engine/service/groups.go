package service

import (
	"slices"

	"go.trai.ch/robcache/internal/core/domain"
	"go.trai.ch/robcache/internal/engine/cache"
)

// indexGroups maps every grouped id to the members of the groups it belongs to.
func indexGroups(groups map[string][]domain.FragmentID) map[domain.FragmentID][]domain.FragmentID {
	if len(groups) == 0 {
		return nil
	}
	idx := make(map[domain.FragmentID][]domain.FragmentID)
	for _, members := range groups {
		for _, id := range members {
			idx[id] = append(idx[id], members...)
		}
	}
	return idx
}

// expandGroups returns a new request list holding missing followed by the
// uncached members of every prefetch group touched by missing.
func (s *Service) expandGroups(c *cache.SlotCache, missing []domain.FragmentID) []domain.FragmentID {
	wanted := slices.Clone(missing)
	if len(s.groups) == 0 {
		return wanted
	}

	seen := make(map[domain.FragmentID]struct{}, len(missing))
	for _, id := range missing {
		seen[id] = struct{}{}
	}

	var extra []domain.FragmentID
	for _, id := range missing {
		for _, member := range s.groups[id] {
			if _, ok := seen[member]; ok {
				continue
			}
			seen[member] = struct{}{}
			extra = append(extra, member)
		}
	}
	if len(extra) == 0 {
		return wanted
	}

	_, uncached := c.LookupMany(extra, nil, nil)
	return append(wanted, uncached...)
}
