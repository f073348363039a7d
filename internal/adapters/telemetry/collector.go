package telemetry

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// OperationStats aggregates the ended spans of one name.
type OperationStats struct {
	Name   string        `json:"name"`
	Count  int64         `json:"count"`
	Errors int64         `json:"errors"`
	Total  time.Duration `json:"total"`
	Max    time.Duration `json:"max"`
}

// Mean returns the average span duration.
func (o OperationStats) Mean() time.Duration {
	if o.Count == 0 {
		return 0
	}
	return o.Total / time.Duration(o.Count)
}

// Collector implements sdktrace.SpanProcessor and aggregates span timings
// per span name for the replay report.
type Collector struct {
	mu  sync.Mutex
	ops map[string]*OperationStats
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{ops: make(map[string]*OperationStats)}
}

// OnStart does nothing.
func (c *Collector) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd is called when a span ends.
func (c *Collector) OnEnd(s sdktrace.ReadOnlySpan) {
	if !s.SpanContext().IsValid() {
		return
	}
	d := s.EndTime().Sub(s.StartTime())

	c.mu.Lock()
	defer c.mu.Unlock()

	op, ok := c.ops[s.Name()]
	if !ok {
		op = &OperationStats{Name: s.Name()}
		c.ops[s.Name()] = op
	}
	op.Count++
	op.Total += d
	op.Max = max(op.Max, d)
	if s.Status().Code == codes.Error {
		op.Errors++
	}
}

// ForceFlush does nothing.
func (c *Collector) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (c *Collector) Shutdown(_ context.Context) error {
	return nil
}

// Snapshot returns the aggregated operations sorted by name.
func (c *Collector) Snapshot() []OperationStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]OperationStats, 0, len(c.ops))
	for _, name := range slices.Sorted(maps.Keys(c.ops)) {
		out = append(out, *c.ops[name])
	}
	return out
}

// NewProvider returns a TracerProvider that feeds every span to c.
// Callers shut it down when the traced run ends.
func NewProvider(c *Collector) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(c),
	)
}
