// Package app implements the application layer for robcache.
package app

import (
	"context"
	"errors"
	"time"

	"go.trai.ch/robcache/internal/adapters/telemetry"
	"go.trai.ch/robcache/internal/core/domain"
	"go.trai.ch/robcache/internal/core/ports"
	"go.trai.ch/robcache/internal/engine/service"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	eventLoader  ports.EventLoader
	factory      ports.GatewayFactory
	server       ports.ReadoutServer
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	events ports.EventLoader,
	factory ports.GatewayFactory,
	server ports.ReadoutServer,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		eventLoader:  events,
		factory:      factory,
		server:       server,
		logger:       log,
	}
}

// SetJSONLogs switches the logger to JSON output when it supports it.
func (a *App) SetJSONLogs(enable bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(enable)
	}
}

// ReplayOptions configuration for the Replay method.
type ReplayOptions struct {
	ConfigPath string
	EventsPath string
	// ReportPath, when set, receives the JSON report.
	ReportPath string
}

// Replay feeds every recorded event through a fragment cache, one worker per
// slot, and reports what each collection achieved.
func (a *App) Replay(ctx context.Context, opts ReplayOptions) (*Report, error) {
	cfg, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	events, err := a.eventLoader.LoadEvents(opts.EventsPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load events")
	}

	gateway, err := a.factory.NewGateway(cfg.Gateway, events)
	if err != nil {
		return nil, err
	}

	collector := telemetry.NewCollector()
	tp := telemetry.NewProvider(collector)
	defer func() {
		_ = tp.Shutdown(context.WithoutCancel(ctx))
	}()

	svc := service.New(cfg, gateway, telemetry.NewOTelTracerWithProvider(tp, telemetry.InstrumentationName), a.logger)

	a.logger.Info("replay started",
		"events", len(events),
		"slots", svc.MaxSlots(),
		"gateway", string(cfg.Gateway.Kind),
	)

	start := time.Now()
	report, err := a.runWorkers(ctx, svc, cfg, events)
	if err != nil {
		return nil, zerr.Wrap(errors.Join(domain.ErrReplayFailed, err), "replay aborted")
	}
	report.Duration = time.Since(start)
	report.Service = svc.Stats()
	report.Operations = collector.Snapshot()

	a.logger.Info("replay finished",
		"events", report.Events,
		"complete", report.Complete,
		"partial", report.Partial,
	)

	if opts.ReportPath != "" {
		if err := report.WriteFile(opts.ReportPath); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// runWorkers distributes events over one worker per slot.
func (a *App) runWorkers(
	ctx context.Context,
	svc *service.Service,
	cfg *domain.Config,
	events []domain.Event,
) (*Report, error) {
	g, ctx := errgroup.WithContext(ctx)

	queue := make(chan *domain.Event)
	g.Go(func() error {
		defer close(queue)
		for i := range events {
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case queue <- &events[i]:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	outcomes := make(chan eventOutcome)
	workers, wctx := errgroup.WithContext(ctx)
	for slot := range svc.MaxSlots() {
		workers.Go(func() error {
			for ev := range queue {
				o, err := processEvent(wctx, svc, cfg, slot, ev)
				if err != nil {
					return err
				}
				select {
				case outcomes <- o:
				case <-wctx.Done():
					return wctx.Err()
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(outcomes)
		return workers.Wait()
	})

	report := &Report{}
	for o := range outcomes {
		report.add(o)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

// processEvent runs the trigger sequence for ev in slot: open the event with
// its initial fragments, prefetch and retrieve a first region of interest,
// then collect everything.
func processEvent(
	ctx context.Context,
	svc *service.Service,
	cfg *domain.Config,
	slot int,
	ev *domain.Event,
) (eventOutcome, error) {
	if err := svc.SetNextEvent(ctx, slot, ev.Identity, ev.InitialFragments()); err != nil {
		return eventOutcome{}, err
	}

	roi := cfg.Enabled[:len(cfg.Enabled)/2]
	if len(roi) > 0 {
		if _, err := svc.AddROBData(ctx, slot, roi); err != nil {
			return eventOutcome{}, err
		}
		if _, err := svc.GetROBData(ctx, slot, roi); err != nil {
			return eventOutcome{}, err
		}
	}

	col, err := svc.CollectCompleteEventData(ctx, slot)
	if err != nil {
		return eventOutcome{}, err
	}

	status, err := svc.EventStatus(slot)
	if err != nil {
		return eventOutcome{}, err
	}

	o := eventOutcome{
		collection: col,
		corrupted:  status&domain.EventStatusFragmentErrors != 0,
	}
	err = svc.ForEachCachedFragment(slot, func(f *domain.Fragment) bool {
		o.fragments++
		o.bytes += int64(len(f.Payload))
		return true
	})
	return o, err
}

// Serve loads the event log and answers readout requests on addr until ctx
// is cancelled.
func (a *App) Serve(ctx context.Context, eventsPath, addr string) error {
	events, err := a.eventLoader.LoadEvents(eventsPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load events")
	}
	return a.server.Serve(ctx, addr, events)
}
