// Package acptest provides an in-process ACP server for tests.
//
//	srv := acptest.NewServer(acptest.EchoAgent{})
//	defer srv.Close()
//	client, _ := acp.NewClient(srv.URL(), nil)
package acptest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kadirpekel/acpclient/acp"
)

// Server serves a fixed set of agents over the ACP REST surface.
type Server struct {
	srv *httptest.Server

	mu       sync.Mutex
	agents   map[string]Agent
	order    []string
	runs     map[uuid.UUID]*acp.Run
	cancels  map[uuid.UUID]context.CancelFunc
	requests []acp.RunCreateRequest

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer starts a server exposing agents.
func NewServer(agents ...Agent) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		agents:  make(map[string]Agent, len(agents)),
		runs:    make(map[uuid.UUID]*acp.Run),
		cancels: make(map[uuid.UUID]context.CancelFunc),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, agent := range agents {
		name := agent.Manifest().Name
		if _, exists := s.agents[name]; !exists {
			s.order = append(s.order, name)
		}
		s.agents[name] = agent
	}
	s.srv = httptest.NewServer(s.routes())
	return s
}

// URL returns the base URL of the server.
func (s *Server) URL() string {
	return s.srv.URL
}

// Close stops background runs and shuts the server down.
func (s *Server) Close() {
	s.cancel()
	s.wg.Wait()
	s.srv.Close()
}

// Requests returns every run creation request received so far.
func (s *Server) Requests() []acp.RunCreateRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]acp.RunCreateRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{})
	})
	r.Get("/agents", s.handleListAgents)
	r.Get("/agents/{name}", s.handleGetAgent)
	r.Post("/runs", s.handleCreateRun)
	r.Get("/runs/{runID}", s.handleGetRun)
	r.Post("/runs/{runID}/cancel", s.handleCancelRun)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, acp.ErrorCodeNotFound, "no route for "+r.URL.Path)
	})
	return r
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleListAgents(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	manifests := make([]acp.AgentManifest, 0, len(s.order))
	for _, name := range s.order {
		manifests = append(manifests, s.agents[name].Manifest())
	}
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, acp.AgentsListResponse{Agents: manifests})
}

func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	s.mu.Lock()
	agent, ok := s.agents[name]
	s.mu.Unlock()

	if !ok {
		respondError(w, http.StatusNotFound, acp.ErrorCodeNotFound, fmt.Sprintf("agent %s not found", name))
		return
	}
	respondJSON(w, http.StatusOK, agent.Manifest())
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req acp.RunCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, acp.ErrorCodeInvalidInput, "invalid request body: "+err.Error())
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	agent, ok := s.agents[req.AgentName]
	s.mu.Unlock()

	if !ok {
		respondError(w, http.StatusNotFound, acp.ErrorCodeNotFound, fmt.Sprintf("agent %s not found", req.AgentName))
		return
	}
	if len(req.Input) == 0 {
		respondError(w, http.StatusUnprocessableEntity, acp.ErrorCodeInvalidInput, "input must contain at least one message")
		return
	}

	run := &acp.Run{
		AgentName: req.AgentName,
		SessionID: req.SessionID,
		RunID:     uuid.New(),
		Status:    acp.RunStatusCreated,
		Output:    []acp.Message{},
		CreatedAt: time.Now().UTC(),
	}

	ctx, cancel := context.WithCancel(s.ctx)
	s.mu.Lock()
	s.runs[run.RunID] = run
	s.cancels[run.RunID] = cancel
	s.mu.Unlock()

	switch req.Mode {
	case acp.RunModeAsync:
		snapshot := s.snapshot(run.RunID)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.execute(ctx, agent, run.RunID, req.Input)
		}()
		respondJSON(w, http.StatusAccepted, snapshot)
	case acp.RunModeSync, "":
		// A sync run is bound to the request that started it.
		stop := context.AfterFunc(r.Context(), cancel)
		defer stop()
		s.execute(ctx, agent, run.RunID, req.Input)
		respondJSON(w, http.StatusOK, s.snapshot(run.RunID))
	default:
		cancel()
		respondError(w, http.StatusUnprocessableEntity, acp.ErrorCodeInvalidInput, fmt.Sprintf("unsupported mode %q", req.Mode))
	}
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseRunID(w, r)
	if !ok {
		return
	}

	run := s.snapshot(runID)
	if run == nil {
		respondError(w, http.StatusNotFound, acp.ErrorCodeNotFound, fmt.Sprintf("run %s not found", runID))
		return
	}
	respondJSON(w, http.StatusOK, run)
}

func (s *Server) handleCancelRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseRunID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	run, exists := s.runs[runID]
	if !exists {
		s.mu.Unlock()
		respondError(w, http.StatusNotFound, acp.ErrorCodeNotFound, fmt.Sprintf("run %s not found", runID))
		return
	}
	if run.Status.IsTerminal() {
		status := run.Status
		s.mu.Unlock()
		respondError(w, http.StatusConflict, acp.ErrorCodeInvalidInput, fmt.Sprintf("run %s is already %s", runID, status))
		return
	}
	run.Status = acp.RunStatusCancelling
	cancel := s.cancels[runID]
	snapshot := *run
	s.mu.Unlock()

	cancel()
	respondJSON(w, http.StatusAccepted, &snapshot)
}

// ============================================================================
// RUN EXECUTION
// ============================================================================

func (s *Server) execute(ctx context.Context, agent Agent, runID uuid.UUID, input []acp.Message) {
	s.update(runID, func(run *acp.Run) {
		if run.Status == acp.RunStatusCreated {
			run.Status = acp.RunStatusInProgress
		}
	})

	output, err := agent.Run(ctx, input)

	s.update(runID, func(run *acp.Run) {
		now := time.Now().UTC()
		run.FinishedAt = &now

		switch {
		case ctx.Err() != nil || errors.Is(err, context.Canceled):
			run.Status = acp.RunStatusCancelled
		case err != nil:
			run.Status = acp.RunStatusFailed
			run.Error = &acp.Error{Code: acp.ErrorCodeServer, Message: err.Error()}
		default:
			run.Status = acp.RunStatusCompleted
			run.Output = output
		}
	})

	s.mu.Lock()
	if cancel, ok := s.cancels[runID]; ok {
		cancel()
		delete(s.cancels, runID)
	}
	s.mu.Unlock()
}

func (s *Server) update(runID uuid.UUID, fn func(*acp.Run)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run, ok := s.runs[runID]; ok {
		fn(run)
	}
}

func (s *Server) snapshot(runID uuid.UUID) *acp.Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[runID]
	if !ok {
		return nil
	}
	copied := *run
	return &copied
}

func parseRunID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, acp.ErrorCodeInvalidInput, "invalid run id")
		return uuid.Nil, false
	}
	return runID, true
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code acp.ErrorCode, message string) {
	respondJSON(w, status, &acp.Error{Code: code, Message: message})
}
