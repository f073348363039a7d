package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/natefinch/atomic"
	"go.trai.ch/robcache/internal/adapters/telemetry"
	"go.trai.ch/robcache/internal/core/domain"
	"go.trai.ch/robcache/internal/engine/service"
	"go.trai.ch/zerr"
)

// Report summarises a replay run.
type Report struct {
	Events    int `json:"events"`
	Complete  int `json:"complete"`
	Partial   int `json:"partial"`
	Corrupted int `json:"corrupted"`
	// Missing sums the enabled fragments still missing after each collection.
	Missing     int   `json:"missing"`
	Fragments   int   `json:"fragments"`
	CachedBytes int64 `json:"cachedBytes"`

	Duration   time.Duration              `json:"duration"`
	Service    service.Stats              `json:"service"`
	Operations []telemetry.OperationStats `json:"operations"`
}

// eventOutcome is what one worker learned about one event.
type eventOutcome struct {
	collection domain.Collection
	corrupted  bool
	fragments  int
	bytes      int64
}

func (r *Report) add(o eventOutcome) {
	r.Events++
	if o.collection.Complete {
		r.Complete++
	} else {
		r.Partial++
	}
	if o.corrupted {
		r.Corrupted++
	}
	r.Missing += o.collection.MissingCount()
	r.Fragments += o.fragments
	r.CachedBytes += o.bytes
}

// Summary renders the report for humans.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "events:     %s (%s complete, %s partial, %s with fragment errors)\n",
		humanize.Comma(int64(r.Events)),
		humanize.Comma(int64(r.Complete)),
		humanize.Comma(int64(r.Partial)),
		humanize.Comma(int64(r.Corrupted)),
	)
	fmt.Fprintf(&b, "fragments:  %s cached, %s missing, %s\n",
		humanize.Comma(int64(r.Fragments)),
		humanize.Comma(int64(r.Missing)),
		humanize.Bytes(uint64(max(r.CachedBytes, 0))),
	)
	fmt.Fprintf(&b, "fetches:    %s calls, %s failed, %s duplicates, %s dropped\n",
		humanize.Comma(r.Service.FetchCalls),
		humanize.Comma(r.Service.FetchErrors),
		humanize.Comma(r.Service.DuplicateInserts),
		humanize.Comma(r.Service.DroppedFragments),
	)
	for _, op := range r.Operations {
		fmt.Fprintf(&b, "  %-26s %8s calls  mean %-10s max %s\n",
			op.Name, humanize.Comma(op.Count), op.Mean(), op.Max)
	}
	fmt.Fprintf(&b, "elapsed:    %s\n", r.Duration.Round(time.Millisecond))
	return b.String()
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode report")
	}
	return append(data, '\n'), nil
}

// WriteFile atomically replaces path with the JSON report.
func (r *Report) WriteFile(path string) error {
	data, err := r.JSON()
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrReportWriteFailed, err.Error()), "path", path)
	}
	return nil
}
