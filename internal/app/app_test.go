package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/robcache/internal/adapters/logger"
	"go.trai.ch/robcache/internal/adapters/readout"
	"go.trai.ch/robcache/internal/app"
	"go.trai.ch/robcache/internal/core/domain"
	"go.trai.ch/robcache/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type appTestMocks struct {
	loader  *mocks.MockConfigLoader
	events  *mocks.MockEventLoader
	factory *mocks.MockGatewayFactory
	server  *mocks.MockReadoutServer
	logger  *mocks.MockLogger
}

func setupAppTest(t *testing.T) (*app.App, appTestMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := appTestMocks{
		loader:  mocks.NewMockConfigLoader(ctrl),
		events:  mocks.NewMockEventLoader(ctrl),
		factory: mocks.NewMockGatewayFactory(ctrl),
		server:  mocks.NewMockReadoutServer(ctrl),
		logger:  mocks.NewMockLogger(ctrl),
	}
	m.logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	m.logger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()

	return app.New(m.loader, m.events, m.factory, m.server, m.logger), m
}

func frags(l1id uint32, ids ...domain.FragmentID) []*domain.Fragment {
	out := make([]*domain.Fragment, len(ids))
	for i, id := range ids {
		out[i] = &domain.Fragment{ID: id, Payload: []byte{byte(id)}, L1ID: l1id}
	}
	return out
}

func replayFixture() (*domain.Config, []domain.Event) {
	cfg := &domain.Config{
		MaxSlots: 2,
		Enabled:  []domain.FragmentID{1, 2, 3, 4},
		Gateway:  domain.GatewayConfig{Kind: domain.GatewayReplay},
	}

	corrupted := frags(2, 1, 2, 3, 4)
	corrupted[2].Status = []uint32{domain.StatusDataCorruption}

	events := []domain.Event{
		{Identity: domain.EventIdentity{L1ID: 1}, Initial: []domain.FragmentID{1}, Fragments: frags(1, 1, 2, 3, 4)},
		{Identity: domain.EventIdentity{L1ID: 2}, Initial: []domain.FragmentID{1}, Fragments: corrupted},
		{Identity: domain.EventIdentity{L1ID: 3}, Fragments: frags(3, 1, 2, 3)},
	}
	return cfg, events
}

func TestApp_Replay(t *testing.T) {
	a, m := setupAppTest(t)
	cfg, events := replayFixture()
	reportPath := filepath.Join(t.TempDir(), "report.json")

	m.loader.EXPECT().Load("robcache.yaml").Return(cfg, nil)
	m.events.EXPECT().LoadEvents("events.yaml").Return(events, nil)
	m.factory.EXPECT().NewGateway(cfg.Gateway, events).Return(readout.NewReplay(events), nil)

	report, err := a.Replay(context.Background(), app.ReplayOptions{
		ConfigPath: "robcache.yaml",
		EventsPath: "events.yaml",
		ReportPath: reportPath,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Events)
	assert.Equal(t, 2, report.Complete)
	assert.Equal(t, 1, report.Partial)
	assert.Equal(t, 1, report.Corrupted)
	assert.Equal(t, 1, report.Missing)
	assert.Equal(t, 11, report.Fragments)
	assert.Equal(t, int64(11), report.CachedBytes)
	assert.Zero(t, report.Service.FetchErrors)
	assert.Positive(t, report.Service.FetchCalls)

	names := map[string]int64{}
	for _, op := range report.Operations {
		names[op.Name] = op.Count
	}
	assert.Equal(t, int64(3), names["robcache.collect"])
	assert.Equal(t, int64(3), names["robcache.set_next_event"])

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var onDisk map[string]any
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.InDelta(t, 3, onDisk["events"], 0)
	assert.Contains(t, onDisk, "service")
}

func TestApp_Replay_ConfigError(t *testing.T) {
	a, m := setupAppTest(t)

	m.loader.EXPECT().Load("missing.yaml").Return(nil, domain.ErrConfigReadFailed)

	_, err := a.Replay(context.Background(), app.ReplayOptions{ConfigPath: "missing.yaml"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfigReadFailed))
}

func TestApp_Replay_EventLogError(t *testing.T) {
	a, m := setupAppTest(t)
	cfg, _ := replayFixture()

	m.loader.EXPECT().Load(gomock.Any()).Return(cfg, nil)
	m.events.EXPECT().LoadEvents("dup.yaml").Return(nil, domain.ErrDuplicateEvent)

	_, err := a.Replay(context.Background(), app.ReplayOptions{EventsPath: "dup.yaml"})
	assert.True(t, errors.Is(err, domain.ErrDuplicateEvent))
}

func TestApp_Replay_GatewayError(t *testing.T) {
	a, m := setupAppTest(t)
	cfg, events := replayFixture()

	m.loader.EXPECT().Load(gomock.Any()).Return(cfg, nil)
	m.events.EXPECT().LoadEvents(gomock.Any()).Return(events, nil)
	m.factory.EXPECT().NewGateway(gomock.Any(), gomock.Any()).Return(nil, domain.ErrUnknownGatewayKind)

	_, err := a.Replay(context.Background(), app.ReplayOptions{})
	assert.True(t, errors.Is(err, domain.ErrUnknownGatewayKind))
}

func TestApp_Replay_TransportFailuresDegrade(t *testing.T) {
	a, m := setupAppTest(t)
	cfg, events := replayFixture()
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockFetchGateway(ctrl)

	m.loader.EXPECT().Load(gomock.Any()).Return(cfg, nil)
	m.events.EXPECT().LoadEvents(gomock.Any()).Return(events, nil)
	m.factory.EXPECT().NewGateway(gomock.Any(), gomock.Any()).Return(gw, nil)
	gw.EXPECT().Fetch(gomock.Any(), gomock.Any()).
		Return(domain.FetchResult{}, errors.New("connection refused")).AnyTimes()

	report, err := a.Replay(context.Background(), app.ReplayOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Events)
	assert.Equal(t, 3, report.Partial)
	assert.Equal(t, report.Service.FetchCalls, report.Service.FetchErrors)
}

func TestApp_Replay_ReportWriteError(t *testing.T) {
	a, m := setupAppTest(t)
	cfg, events := replayFixture()

	m.loader.EXPECT().Load(gomock.Any()).Return(cfg, nil)
	m.events.EXPECT().LoadEvents(gomock.Any()).Return(events, nil)
	m.factory.EXPECT().NewGateway(gomock.Any(), gomock.Any()).Return(readout.NewReplay(events), nil)

	_, err := a.Replay(context.Background(), app.ReplayOptions{
		ReportPath: filepath.Join(t.TempDir(), "no", "such", "dir", "report.json"),
	})
	assert.True(t, errors.Is(err, domain.ErrReportWriteFailed))
}

func TestApp_Replay_Cancelled(t *testing.T) {
	a, m := setupAppTest(t)
	cfg, events := replayFixture()

	m.loader.EXPECT().Load(gomock.Any()).Return(cfg, nil)
	m.events.EXPECT().LoadEvents(gomock.Any()).Return(events, nil)
	m.factory.EXPECT().NewGateway(gomock.Any(), gomock.Any()).Return(readout.NewReplay(events), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Replay(ctx, app.ReplayOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrReplayFailed))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestApp_Serve(t *testing.T) {
	a, m := setupAppTest(t)
	_, events := replayFixture()
	ctx := context.Background()

	m.events.EXPECT().LoadEvents("events.yaml").Return(events, nil)
	m.server.EXPECT().Serve(ctx, ":9040", events).Return(nil)

	require.NoError(t, a.Serve(ctx, "events.yaml", ":9040"))
}

func TestApp_Serve_EventLogError(t *testing.T) {
	a, m := setupAppTest(t)

	m.events.EXPECT().LoadEvents(gomock.Any()).Return(nil, domain.ErrEventLogReadFailed)

	err := a.Serve(context.Background(), "missing.yaml", ":0")
	assert.True(t, errors.Is(err, domain.ErrEventLogReadFailed))
}

func TestApp_SetJSONLogs(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.NewWithWriter(&buf)
	a := app.New(nil, nil, nil, nil, lg)

	a.SetJSONLogs(true)
	lg.Info("hello")

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("{")))
}

func TestReport_Summary(t *testing.T) {
	r := &app.Report{Events: 1200, Complete: 1199, Partial: 1, Fragments: 4, CachedBytes: 2048}

	s := r.Summary()
	assert.Contains(t, s, "1,200 (1,199 complete, 1 partial")
	assert.Contains(t, s, "2.0 kB")
}
