// Package readout implements the FetchGateway variants and the readout server.
package readout

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/robcache/internal/core/domain"
	"go.trai.ch/robcache/internal/core/ports"
	"go.trai.ch/zerr"
)

// Emulator synthesises fragments locally. Payloads are deterministic in the
// event and fragment id, so repeated fetches return identical bytes.
type Emulator struct {
	latency   time.Duration
	missing   map[domain.FragmentID]struct{}
	corrupted map[domain.FragmentID]struct{}
}

// NewEmulator creates an Emulator from the emulator settings of cfg.
func NewEmulator(cfg domain.GatewayConfig) *Emulator {
	return &Emulator{
		latency:   cfg.Latency,
		missing:   idSet(cfg.Missing),
		corrupted: idSet(cfg.Corrupted),
	}
}

var _ ports.FetchGateway = (*Emulator)(nil)

// Fetch waits for the configured latency and returns a fragment for every
// wanted id that is not configured as missing.
func (e *Emulator) Fetch(ctx context.Context, req domain.FetchRequest) (domain.FetchResult, error) {
	if e.latency > 0 {
		t := time.NewTimer(e.latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return domain.FetchResult{}, zerr.With(zerr.Wrap(ctx.Err(), "emulated readout interrupted"), "slot", req.Slot)
		case <-t.C:
		}
	}

	obtained := make([]*domain.Fragment, 0, len(req.Wanted))
	for _, id := range req.Wanted {
		if _, ok := e.missing[id]; ok {
			continue
		}
		f := &domain.Fragment{
			ID:      id,
			Payload: Payload(req.Event, id),
			L1ID:    req.Event.L1ID,
			BCID:    req.Event.BCID,
		}
		if _, ok := e.corrupted[id]; ok {
			f.Status = []uint32{domain.StatusDataCorruption}
		}
		obtained = append(obtained, f)
	}
	return domain.NewFetchResult(req.Wanted, obtained), nil
}

// Payload returns the synthetic payload of fragment id in event ev. Its length
// in 32-bit words is 1 plus the module number modulo 16.
func Payload(ev domain.EventIdentity, id domain.FragmentID) []byte {
	words := 1 + int(id.Module()%16)
	out := make([]byte, 0, 4*words)

	var seed [20]byte
	binary.LittleEndian.PutUint32(seed[0:], ev.RunNumber)
	binary.LittleEndian.PutUint64(seed[4:], ev.GlobalEventNumber)
	binary.LittleEndian.PutUint32(seed[12:], ev.L1ID)
	binary.LittleEndian.PutUint32(seed[16:], uint32(id))

	d := xxhash.New()
	for len(out) < 4*words {
		_, _ = d.Write(seed[:])
		out = binary.LittleEndian.AppendUint64(out, d.Sum64())
	}
	return out[:4*words]
}

func idSet(ids []domain.FragmentID) map[domain.FragmentID]struct{} {
	set := make(map[domain.FragmentID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
