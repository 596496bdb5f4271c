package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/nvandessel/heatwatch/internal/models"
	"github.com/nvandessel/heatwatch/internal/sim"
	"github.com/nvandessel/heatwatch/internal/vitals"
)

// maxGenerateCount caps one roster generation request.
const maxGenerateCount = 50

func (s *Server) handleListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "listing workers: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"workers": workers,
		"count":   len(workers),
	})
}

type createWorkerRequest struct {
	Name     string  `json:"name"`
	Age      int     `json:"age"`
	Gender   string  `json:"gender"`
	WeightKG float64 `json:"weight_kg"`
	HeightCM float64 `json:"height_cm"`
	RiskTier string  `json:"risk_tier"`
}

func (s *Server) handleCreateWorker(w http.ResponseWriter, r *http.Request) {
	if !s.checkLimit(w, "worker_create") {
		return
	}

	var req createWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	worker := s.gen.NewWorker(req.Name, req.RiskTier)
	if req.Age > 0 {
		worker.Age = req.Age
	}
	if req.Gender != "" {
		worker.Gender = req.Gender
	}
	if req.WeightKG > 0 {
		worker.WeightKG = req.WeightKG
	}
	if req.HeightCM > 0 {
		worker.HeightCM = req.HeightCM
	}

	if err := s.store.Add(r.Context(), worker); err != nil {
		writeError(w, http.StatusConflict, "adding worker: "+err.Error())
		return
	}

	s.logger.Info("worker created", "id", worker.ID, "name", worker.Name, "tier", worker.RiskTier)
	writeJSON(w, http.StatusCreated, worker)
}

type generateWorkersRequest struct {
	Count    int    `json:"count"`
	RiskTier string `json:"risk_tier"`
}

func (s *Server) handleGenerateWorker(w http.ResponseWriter, r *http.Request) {
	if !s.checkLimit(w, "worker_generate") {
		return
	}

	req := generateWorkersRequest{Count: 1}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}
	if req.Count < 1 {
		req.Count = 1
	}
	if req.Count > maxGenerateCount {
		writeError(w, http.StatusBadRequest, "count exceeds maximum")
		return
	}

	workers := make([]models.Worker, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		worker := s.gen.NewWorker("", req.RiskTier)
		if err := s.store.Add(r.Context(), worker); err != nil {
			writeError(w, http.StatusInternalServerError, "adding generated worker: "+err.Error())
			return
		}
		workers = append(workers, worker)
	}

	s.logger.Info("workers generated", "count", len(workers), "tier", req.RiskTier)
	writeJSON(w, http.StatusCreated, map[string]any{
		"workers": workers,
		"count":   len(workers),
	})
}

func (s *Server) handleGetWorker(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	worker, err := s.store.FindByIdentity(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "resolving worker: "+err.Error())
		return
	}
	if worker == nil {
		writeError(w, http.StatusNotFound, "worker not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, worker)
}

func (s *Server) handleDeleteWorker(w http.ResponseWriter, r *http.Request) {
	if !s.checkLimit(w, "worker_delete") {
		return
	}

	id := r.PathValue("id")
	worker, err := s.store.FindByIdentity(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "resolving worker: "+err.Error())
		return
	}
	if worker == nil {
		writeError(w, http.StatusNotFound, "worker not found: "+id)
		return
	}

	// Never leave a run ticking against a deleted subject.
	if st := s.controller.Status(); st.Active && st.SubjectID == worker.ID {
		s.controller.Stop(sim.ReasonStopped)
	}

	if err := s.store.Delete(r.Context(), worker.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "deleting worker: "+err.Error())
		return
	}

	s.logger.Info("worker deleted", "id", worker.ID, "name", worker.Name)
	writeJSON(w, http.StatusOK, map[string]string{"deleted": worker.ID})
}

type simulationStartRequest struct {
	Subject string `json:"subject"`
	Mode    string `json:"mode"`
}

func (s *Server) handleSimulationStart(w http.ResponseWriter, r *http.Request) {
	if !s.checkLimit(w, "simulation_start") {
		return
	}

	var req simulationStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Subject == "" {
		writeError(w, http.StatusBadRequest, "subject is required")
		return
	}

	mode, err := vitals.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.controller.Start(r.Context(), req.Subject, mode); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.controller.Status())
}

func (s *Server) handleSimulationStop(w http.ResponseWriter, r *http.Request) {
	if !s.checkLimit(w, "simulation_stop") {
		return
	}

	s.controller.Stop(sim.ReasonStopped)
	writeJSON(w, http.StatusOK, s.controller.Status())
}

type simulationResetRequest struct {
	Subject string `json:"subject"`
}

func (s *Server) handleSimulationReset(w http.ResponseWriter, r *http.Request) {
	if !s.checkLimit(w, "simulation_reset") {
		return
	}

	var req simulationResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Subject == "" {
		writeError(w, http.StatusBadRequest, "subject is required")
		return
	}

	if err := s.controller.ResetToBaseline(r.Context(), req.Subject); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	worker, err := s.store.FindByIdentity(r.Context(), req.Subject)
	if err != nil || worker == nil {
		writeError(w, http.StatusInternalServerError, "reloading worker after reset")
		return
	}
	writeJSON(w, http.StatusOK, worker)
}

func (s *Server) handleSimulationStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.Status())
}
