package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/robcache/cmd/robcache/commands"
	"go.trai.ch/robcache/internal/app"
	"go.trai.ch/robcache/internal/build"
)

type mockApp struct {
	replayFunc func(ctx context.Context, opts app.ReplayOptions) (*app.Report, error)
	serveFunc  func(ctx context.Context, eventsPath, addr string) error
	jsonLogs   bool
}

func (m *mockApp) Replay(ctx context.Context, opts app.ReplayOptions) (*app.Report, error) {
	if m.replayFunc != nil {
		return m.replayFunc(ctx, opts)
	}
	return &app.Report{}, nil
}

func (m *mockApp) Serve(ctx context.Context, eventsPath, addr string) error {
	if m.serveFunc != nil {
		return m.serveFunc(ctx, eventsPath, addr)
	}
	return nil
}

func (m *mockApp) SetJSONLogs(enable bool) {
	m.jsonLogs = enable
}

func TestCommands_Replay(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.ReplayOptions
		mock := &mockApp{
			replayFunc: func(_ context.Context, opts app.ReplayOptions) (*app.Report, error) {
				captured = opts
				return &app.Report{Events: 2, Complete: 2}, nil
			},
		}

		cli := commands.New(mock)
		out := new(bytes.Buffer)
		cli.SetOutput(out, new(bytes.Buffer))
		cli.SetArgs([]string{"-c", "custom.yaml", "--log-json", "replay", "--events", "ev.yaml", "--report", "out.json"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, app.ReplayOptions{
			ConfigPath: "custom.yaml",
			EventsPath: "ev.yaml",
			ReportPath: "out.json",
		}, captured)
		assert.True(t, mock.jsonLogs)
		assert.Contains(t, out.String(), "2 (2 complete")
	})

	t.Run("default config path", func(t *testing.T) {
		var captured app.ReplayOptions
		mock := &mockApp{
			replayFunc: func(_ context.Context, opts app.ReplayOptions) (*app.Report, error) {
				captured = opts
				return &app.Report{}, nil
			},
		}

		cli := commands.New(mock)
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
		cli.SetArgs([]string{"replay", "-e", "ev.yaml"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, "robcache.yaml", captured.ConfigPath)
		assert.False(t, mock.jsonLogs)
	})

	t.Run("prints json report", func(t *testing.T) {
		mock := &mockApp{
			replayFunc: func(_ context.Context, _ app.ReplayOptions) (*app.Report, error) {
				return &app.Report{Events: 5, Partial: 1}, nil
			},
		}

		cli := commands.New(mock)
		out := new(bytes.Buffer)
		cli.SetOutput(out, new(bytes.Buffer))
		cli.SetArgs([]string{"replay", "-e", "ev.yaml", "--json"})

		require.NoError(t, cli.Execute(context.Background()))
		var got map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.InDelta(t, 5, got["events"], 0)
		assert.InDelta(t, 1, got["partial"], 0)
	})

	t.Run("requires events flag", func(t *testing.T) {
		cli := commands.New(&mockApp{})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
		cli.SetArgs([]string{"replay"})

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "events")
	})

	t.Run("returns error on replay failure", func(t *testing.T) {
		mock := &mockApp{
			replayFunc: func(_ context.Context, _ app.ReplayOptions) (*app.Report, error) {
				return nil, errors.New("simulated error")
			},
		}

		cli := commands.New(mock)
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
		cli.SetArgs([]string{"replay", "-e", "ev.yaml"})

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Serve(t *testing.T) {
	var gotEvents, gotAddr string
	mock := &mockApp{
		serveFunc: func(_ context.Context, eventsPath, addr string) error {
			gotEvents, gotAddr = eventsPath, addr
			return nil
		},
	}

	cli := commands.New(mock)
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{"serve", "--events", "ev.yaml"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "ev.yaml", gotEvents)
	assert.Equal(t, ":9040", gotAddr)

	cli = commands.New(mock)
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{"serve", "-e", "ev.yaml", "--addr", "127.0.0.1:7000"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "127.0.0.1:7000", gotAddr)
}

func TestCommands_Version(t *testing.T) {
	cli := commands.New(&mockApp{})
	out := new(bytes.Buffer)
	cli.SetOutput(out, new(bytes.Buffer))
	cli.SetArgs([]string{"version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "robcache version "+build.Version)
}

func TestRoot_Help(t *testing.T) {
	cli := commands.New(&mockApp{})
	out := new(bytes.Buffer)
	cli.SetOutput(out, out)
	cli.SetArgs([]string{"--help"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "replay")
	assert.Contains(t, out.String(), "serve")
}
