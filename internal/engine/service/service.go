// Package service implements the fragment cache service used by event workers.
package service

import (
	"context"
	"slices"
	"time"

	"go.trai.ch/robcache/internal/core/domain"
	"go.trai.ch/robcache/internal/core/ports"
	"go.trai.ch/robcache/internal/engine/cache"
	"go.trai.ch/robcache/internal/engine/filter"
	"go.trai.ch/zerr"
)

// Service caches the fragments of every in-flight event and fetches missing
// ones from the readout system on demand.
//
// Slots are independent. Within one slot, SetNextEvent must precede every
// other call for that event; this ordering is the caller's responsibility.
type Service struct {
	registry *cache.Registry
	filter   *filter.Filter
	gateway  ports.FetchGateway
	tracer   ports.Tracer
	logger   ports.Logger

	enabled   []domain.FragmentID
	mandatory map[domain.FragmentID]struct{}
	groups    map[domain.FragmentID][]domain.FragmentID
	timeout   time.Duration

	stats counters
}

// New creates a Service for cfg. The configuration is copied and never
// consulted again, so later changes to cfg have no effect.
func New(
	cfg *domain.Config,
	gateway ports.FetchGateway,
	tracer ports.Tracer,
	logger ports.Logger,
) *Service {
	mandatory := make(map[domain.FragmentID]struct{}, len(cfg.MandatoryIDs()))
	for _, id := range cfg.MandatoryIDs() {
		mandatory[id] = struct{}{}
	}

	return &Service{
		registry:  cache.NewRegistry(cfg.MaxSlots),
		filter:    filter.NewFromConfig(cfg),
		gateway:   gateway,
		tracer:    tracer,
		logger:    logger,
		enabled:   slices.Clone(cfg.Enabled),
		mandatory: mandatory,
		groups:    indexGroups(cfg.PrefetchGroups),
		timeout:   cfg.Gateway.Timeout,
	}
}

// MaxSlots returns the number of slots.
func (s *Service) MaxSlots() int {
	return s.registry.Len()
}

// SetNextEvent resets slot for event id and caches the initial fragments
// that pass the filter. Duplicates in initial are tolerated; the last wins.
func (s *Service) SetNextEvent(
	ctx context.Context,
	slot int,
	id domain.EventIdentity,
	initial []*domain.Fragment,
) error {
	c, err := s.registry.ForSlot(slot)
	if err != nil {
		return err
	}

	_, span := s.tracer.Start(ctx, "robcache.set_next_event",
		ports.WithAttribute("slot", slot),
		ports.WithAttribute("l1_id", int64(id.L1ID)),
	)
	defer span.End()

	c.Reset(id)

	kept := s.insertFiltered(slot, c, id, initial)
	if s.filter.IsEventCorrupted(kept) {
		c.SetStatus(domain.EventStatusFragmentErrors)
	}
	span.SetAttribute("initial", len(initial))
	span.SetAttribute("kept", len(kept))
	return nil
}

// AddROBData is a prefetch hint: it fetches the ids of the request that are
// not cached yet and returns how many remain missing afterwards.
// Missing fragments are not an error.
func (s *Service) AddROBData(ctx context.Context, slot int, ids []domain.FragmentID) (int, error) {
	c, err := s.openSlot(slot)
	if err != nil {
		return 0, err
	}

	_, missing := c.LookupMany(ids, nil, nil)
	if len(missing) == 0 {
		return 0, nil
	}

	s.fetch(ctx, slot, c, missing)

	_, still := c.LookupMany(missing, nil, missing[:0])
	return len(still), nil
}

// GetROBData returns the cached fragments for ids, fetching the ones not yet
// cached. Ids that stay unresolved after the fetch, including fragments the
// filter dropped, are reported in Retrieval.Missing rather than as an error.
func (s *Service) GetROBData(ctx context.Context, slot int, ids []domain.FragmentID) (domain.Retrieval, error) {
	c, err := s.openSlot(slot)
	if err != nil {
		return domain.Retrieval{}, err
	}

	found, missing := c.LookupMany(ids, make([]*domain.Fragment, 0, len(ids)), nil)
	if len(missing) > 0 {
		s.fetch(ctx, slot, c, missing)
		found, missing = c.LookupMany(ids, found[:0], missing[:0])
		s.stats.omitted.Add(int64(len(missing)))
	}

	return domain.Retrieval{Fragments: found, Missing: missing}, nil
}

// CollectCompleteEventData retrieves every enabled fragment of the event.
// The event is marked complete once all mandatory fragments are cached;
// otherwise the slot is left partially collected and flagged incomplete.
func (s *Service) CollectCompleteEventData(ctx context.Context, slot int) (domain.Collection, error) {
	c, err := s.openSlot(slot)
	if err != nil {
		return domain.Collection{}, err
	}

	ctx, span := s.tracer.Start(ctx, "robcache.collect", ports.WithAttribute("slot", slot))
	defer span.End()

	r, err := s.GetROBData(ctx, slot, s.enabled)
	if err != nil {
		span.RecordError(err)
		return domain.Collection{}, err
	}

	res := domain.Collection{Missing: r.Missing}
	for _, id := range r.Missing {
		if _, ok := s.mandatory[id]; ok {
			res.MandatoryMissing++
		}
	}

	if res.MandatoryMissing == 0 {
		c.MarkComplete()
		res.Complete = true
	} else {
		c.MarkPartial()
		c.OrStatus(domain.EventStatusIncomplete)
	}

	span.SetAttribute("missing", res.MissingCount())
	span.SetAttribute("complete", res.Complete)
	return res, nil
}

// IsEventComplete reports whether the event in slot has been marked complete.
func (s *Service) IsEventComplete(slot int) (bool, error) {
	c, err := s.registry.ForSlot(slot)
	if err != nil {
		return false, err
	}
	return c.IsComplete(), nil
}

// EventStatus returns the status word of the event in slot.
func (s *Service) EventStatus(slot int) (uint32, error) {
	c, err := s.registry.ForSlot(slot)
	if err != nil {
		return 0, err
	}
	return c.Status(), nil
}

// SetEventStatus replaces the status word of the event in slot.
func (s *Service) SetEventStatus(slot int, word uint32) error {
	c, err := s.openSlot(slot)
	if err != nil {
		return err
	}
	c.SetStatus(word)
	return nil
}

// ForEachCachedFragment calls fn for every fragment cached in slot until fn
// returns false. fn must not call back into the Service for the same slot
// with operations that insert fragments.
func (s *Service) ForEachCachedFragment(slot int, fn func(*domain.Fragment) bool) error {
	c, err := s.registry.ForSlot(slot)
	if err != nil {
		return err
	}
	c.ForEach(fn)
	return nil
}

// SlotState returns the lifecycle state of slot.
func (s *Service) SlotState(slot int) (domain.SlotState, error) {
	c, err := s.registry.ForSlot(slot)
	if err != nil {
		return "", err
	}
	return c.State(), nil
}

// Identity returns the identity of the event held by slot.
func (s *Service) Identity(slot int) (domain.EventIdentity, error) {
	c, err := s.openSlot(slot)
	if err != nil {
		return domain.EventIdentity{}, err
	}
	return c.Identity(), nil
}

func (s *Service) openSlot(slot int) (*cache.SlotCache, error) {
	c, err := s.registry.ForSlot(slot)
	if err != nil {
		return nil, err
	}
	if !c.State().IsOpen() {
		return nil, zerr.With(zerr.Wrap(domain.ErrSlotNotOpen, "retrieval before first event"), "slot", slot)
	}
	return c, nil
}

// fetch asks the gateway for missing and caches what comes back. Transport
// failures degrade to "everything still missing".
func (s *Service) fetch(ctx context.Context, slot int, c *cache.SlotCache, missing []domain.FragmentID) {
	req := domain.FetchRequest{
		Slot:   slot,
		Event:  c.Identity(),
		Wanted: s.expandGroups(c, missing),
	}

	ctx, span := s.tracer.Start(ctx, "robcache.fetch",
		ports.WithAttribute("slot", slot),
		ports.WithAttribute("requested", len(req.Wanted)),
	)
	defer span.End()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.stats.fetchCalls.Add(1)
	res, err := s.gateway.Fetch(ctx, req)
	if err != nil {
		s.stats.fetchErrors.Add(1)
		span.RecordError(err)
		s.logger.Warn("fragment fetch failed, treating request as missing",
			"slot", slot,
			"l1_id", req.Event.L1ID,
			"requested", len(req.Wanted),
			"error", err,
		)
		return
	}

	s.stats.fetched.Add(int64(len(res.Obtained)))
	kept := s.insertFiltered(slot, c, req.Event, res.Obtained)
	if s.filter.IsEventCorrupted(kept) {
		c.OrStatus(domain.EventStatusFragmentErrors)
	}
	span.SetAttribute("obtained", len(res.Obtained))
	span.SetAttribute("kept", len(kept))
}

// insertFiltered classifies frags, caches the kept ones for event and returns them.
func (s *Service) insertFiltered(
	slot int,
	c *cache.SlotCache,
	event domain.EventIdentity,
	frags []*domain.Fragment,
) []*domain.Fragment {
	kept, dropped := s.filter.Partition(frags, make([]*domain.Fragment, 0, len(frags)))
	s.stats.dropped.Add(int64(dropped))

	overwritten, ok := c.InsertAll(event, kept, nil)
	if !ok {
		s.logger.Warn("slot moved to another event during fetch, discarding fragments",
			"slot", slot,
			"l1_id", event.L1ID,
			"discarded", len(kept),
		)
		return nil
	}
	for _, id := range overwritten {
		s.stats.duplicates.Add(1)
		s.logger.Warn("fragment delivered twice, keeping the latest",
			"slot", slot,
			"l1_id", event.L1ID,
			"fragment", id.String(),
		)
	}
	return kept
}
