// Package server exposes the dashboard HTTP API: worker roster CRUD,
// simulation control, and a server-sent event stream of live tick updates.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/nvandessel/heatwatch/internal/ratelimit"
	"github.com/nvandessel/heatwatch/internal/roster"
	"github.com/nvandessel/heatwatch/internal/sim"
)

// Server serves the dashboard API and bridges simulation events to
// subscribed clients.
type Server struct {
	store      *roster.Store
	gen        *roster.Generator
	controller *sim.Controller
	limiters   ratelimit.EndpointLimiters
	logger     *slog.Logger
	hub        *eventHub

	httpServer *http.Server
	listener   net.Listener
	mu         sync.Mutex
	addr       string
}

// New creates a server and wires the controller's observer callbacks into
// the event stream. logger may be nil.
func New(store *roster.Store, gen *roster.Generator, controller *sim.Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		store:      store,
		gen:        gen,
		controller: controller,
		limiters:   ratelimit.NewEndpointLimiters(),
		logger:     logger,
		hub:        newEventHub(),
	}

	controller.OnUpdate(func(u sim.Update) {
		s.hub.broadcast("tick", u)
	})
	controller.OnTerminal(func(t sim.Terminal) {
		s.hub.broadcast("terminal", t)
	})
	controller.OnError(func(e *sim.BudgetError) {
		s.logger.Error("simulation failure budget exhausted",
			"subject_id", e.SubjectID,
			"reason", string(e.Reason),
			"step", e.Step,
			"error", e.Err)
	})

	return s
}

// Addr returns the address the server is listening on.
// Returns empty string if the server hasn't started yet.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Handler returns the routed handler, exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /api/workers", s.handleListWorkers)
	mux.HandleFunc("POST /api/workers", s.handleCreateWorker)
	mux.HandleFunc("POST /api/workers/generate", s.handleGenerateWorker)
	mux.HandleFunc("GET /api/workers/{id}", s.handleGetWorker)
	mux.HandleFunc("DELETE /api/workers/{id}", s.handleDeleteWorker)

	mux.HandleFunc("POST /api/simulation/start", s.handleSimulationStart)
	mux.HandleFunc("POST /api/simulation/stop", s.handleSimulationStop)
	mux.HandleFunc("POST /api/simulation/reset", s.handleSimulationReset)
	mux.HandleFunc("GET /api/simulation/status", s.handleSimulationStatus)
	mux.HandleFunc("GET /api/simulation/events", s.handleEvents)

	return mux
}

// ListenAndServe starts the HTTP server on addr and blocks until the
// context is cancelled. An addr ending in ":0" lets the OS pick a port.
// Returns nil on clean shutdown.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	s.mu.Lock()
	s.listener = ln
	s.addr = ln.Addr().String()
	s.httpServer = &http.Server{Handler: s.Handler()}
	s.mu.Unlock()

	s.logger.Info("dashboard API listening", "addr", s.Addr())

	// Graceful shutdown when context is cancelled.
	go func() {
		<-ctx.Done()
		s.controller.Stop(sim.ReasonStopped)
		s.hub.closeAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	err = s.httpServer.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// checkLimit enforces the per-endpoint rate limit, writing a 429 response
// when exceeded.
func (s *Server) checkLimit(w http.ResponseWriter, endpoint string) bool {
	if err := ratelimit.CheckLimit(s.limiters, endpoint); err != nil {
		writeError(w, http.StatusTooManyRequests, err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
