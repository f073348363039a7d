package readout

import (
	"context"

	"go.trai.ch/robcache/internal/core/domain"
	"go.trai.ch/robcache/internal/core/ports"
)

// Replay answers fetches from recorded events, looked up by L1 id.
// Unknown events resolve nothing; that is not a transport failure.
type Replay struct {
	events map[uint32]*domain.Event
}

// NewReplay indexes events by L1 id. Later duplicates replace earlier ones.
func NewReplay(events []domain.Event) *Replay {
	idx := make(map[uint32]*domain.Event, len(events))
	for i := range events {
		idx[events[i].Identity.L1ID] = &events[i]
	}
	return &Replay{events: idx}
}

var _ ports.FetchGateway = (*Replay)(nil)

// Fetch returns the recorded fragments of the request's event.
func (r *Replay) Fetch(ctx context.Context, req domain.FetchRequest) (domain.FetchResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.FetchResult{}, err
	}
	return domain.NewFetchResult(req.Wanted, r.lookup(req.Event.L1ID, req.Wanted)), nil
}

// Event returns the recorded event with the given L1 id.
func (r *Replay) Event(l1id uint32) (*domain.Event, bool) {
	ev, ok := r.events[l1id]
	return ev, ok
}

func (r *Replay) lookup(l1id uint32, wanted []domain.FragmentID) []*domain.Fragment {
	ev, ok := r.events[l1id]
	if !ok {
		return nil
	}
	out := make([]*domain.Fragment, 0, len(wanted))
	for _, id := range wanted {
		if f, ok := ev.Fragment(id); ok {
			out = append(out, f)
		}
	}
	return out
}
