package readout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"go.trai.ch/robcache/internal/core/domain"
	"go.trai.ch/robcache/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// HTTPGateway fetches fragments from a remote readout server. Large requests
// are split into batches that run concurrently, bounded across all callers by
// MaxInFlight.
type HTTPGateway struct {
	endpoint  string
	client    *http.Client
	batchSize int
	inFlight  *semaphore.Weighted
}

// NewHTTPGateway creates an HTTPGateway for cfg. A nil client means
// http.DefaultClient.
func NewHTTPGateway(cfg domain.GatewayConfig, client *http.Client) *HTTPGateway {
	if client == nil {
		client = http.DefaultClient
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 64
	}
	inFlight := cfg.MaxInFlight
	if inFlight <= 0 {
		inFlight = 1
	}
	return &HTTPGateway{
		endpoint:  strings.TrimSuffix(cfg.Endpoint, "/"),
		client:    client,
		batchSize: batch,
		inFlight:  semaphore.NewWeighted(int64(inFlight)),
	}
}

var _ ports.FetchGateway = (*HTTPGateway)(nil)

// Fetch requests every wanted id. Any failed batch fails the whole fetch.
func (g *HTTPGateway) Fetch(ctx context.Context, req domain.FetchRequest) (domain.FetchResult, error) {
	var (
		mu       sync.Mutex
		obtained = make([]*domain.Fragment, 0, len(req.Wanted))
	)

	eg, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(req.Wanted); start += g.batchSize {
		batch := req.Wanted[start:min(start+g.batchSize, len(req.Wanted))]
		eg.Go(func() error {
			if err := g.inFlight.Acquire(ctx, 1); err != nil {
				return err
			}
			defer g.inFlight.Release(1)

			frags, err := g.post(ctx, req.Event, batch)
			if err != nil {
				return err
			}
			mu.Lock()
			obtained = append(obtained, frags...)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return domain.FetchResult{}, err
	}
	return domain.NewFetchResult(req.Wanted, obtained), nil
}

func (g *HTTPGateway) post(ctx context.Context, ev domain.EventIdentity, ids []domain.FragmentID) ([]*domain.Fragment, error) {
	body := fetchRequest{RunNumber: ev.RunNumber, IDs: make([]uint32, len(ids))}
	for i, id := range ids {
		body.IDs[i] = uint32(id)
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode fetch request")
	}

	url := fmt.Sprintf("%s/v1/events/%d/fragments", g.endpoint, ev.L1ID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrReadoutRequestFailed, err.Error()), "url", url)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrReadoutRequestFailed, err.Error()), "url", url)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		// The server has never seen the event: nothing resolved.
		return nil, nil
	default:
		return nil, zerr.With(
			zerr.With(zerr.Wrap(domain.ErrReadoutRequestFailed, "unexpected status"), "url", url),
			"status", resp.StatusCode,
		)
	}

	var out fetchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrReadoutRequestFailed, "malformed response: "+err.Error()), "url", url)
	}

	frags := make([]*domain.Fragment, len(out.Fragments))
	for i := range out.Fragments {
		frags[i] = out.Fragments[i].toDomain()
	}
	return frags, nil
}
