package readout

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.trai.ch/robcache/internal/core/domain"
	"go.trai.ch/robcache/internal/core/ports"
	"go.trai.ch/zerr"
)

const shutdownTimeout = 5 * time.Second

// Server exposes recorded events over HTTP for HTTPGateway clients.
type Server struct {
	logger ports.Logger
}

// NewServer creates a new Server.
func NewServer(log ports.Logger) *Server {
	return &Server{logger: log}
}

var _ ports.ReadoutServer = (*Server)(nil)

// Serve answers fragment requests on addr until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string, events []domain.Event) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to listen"), "addr", addr)
	}
	return s.serve(ctx, ln, events)
}

func (s *Server) serve(ctx context.Context, ln net.Listener, events []domain.Event) error {
	srv := &http.Server{
		Handler:           s.Handler(events),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("readout server listening", "addr", ln.Addr().String(), "events", len(events))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return zerr.Wrap(err, "readout server stopped")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return zerr.Wrap(err, "readout server shutdown failed")
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return zerr.Wrap(err, "readout server stopped")
	}
	s.logger.Info("readout server stopped")
	return nil
}

// Handler returns the HTTP handler serving events.
func (s *Server) Handler(events []domain.Event) http.Handler {
	replay := NewReplay(events)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /v1/events/{l1id}/fragments", func(w http.ResponseWriter, r *http.Request) {
		s.handleFetch(replay, w, r)
	})
	return mux
}

func (s *Server) handleFetch(replay *Replay, w http.ResponseWriter, r *http.Request) {
	l1id, err := strconv.ParseUint(r.PathValue("l1id"), 10, 32)
	if err != nil {
		http.Error(w, "invalid l1 id", http.StatusBadRequest)
		return
	}

	var req fetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ev, ok := replay.Event(uint32(l1id))
	if !ok || ev.Identity.RunNumber != req.RunNumber {
		http.Error(w, domain.ErrEventNotFound.Error(), http.StatusNotFound)
		return
	}

	wanted := make([]domain.FragmentID, len(req.IDs))
	for i, id := range req.IDs {
		wanted[i] = domain.FragmentID(id)
	}

	resp := fetchResponse{Fragments: make([]wireFragment, 0, len(wanted))}
	for _, f := range replay.lookup(uint32(l1id), wanted) {
		resp.Fragments = append(resp.Fragments, toWire(f))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("failed to write fetch response", "l1_id", l1id, "error", err)
	}
}
