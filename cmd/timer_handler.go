package main

import (
	"encoding/json"
	"net/http"

	"intervalTimerService/internal/clock"
	"intervalTimerService/internal/history"
	"intervalTimerService/internal/runner"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

func NewTimerHandler(r *runner.Runner) *TimerHandler {
	return &TimerHandler{runner: r}
}

type TimerHandler struct {
	runner *runner.Runner
}

// StatisticsResponse is the body of GET /timer/statistics
type StatisticsResponse struct {
	All   history.Summary `json:"all"`
	Today history.Summary `json:"today"`
}

type retimeRequest struct {
	Minutes json.Number `json:"minutes"`
}

type autoResetRequest struct {
	Enabled *bool `json:"enabled"`
}

func (h *TimerHandler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.runner.State())
}

func (h *TimerHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatisticsResponse{
		All:   h.runner.Statistics(),
		Today: h.runner.TodayStatistics(),
	})
}

func (h *TimerHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := clock.ParsePositiveInteger(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid limit", err.Error())
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	records, err := h.runner.History(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load history", "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *TimerHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.runner.Start())
}

func (h *TimerHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.runner.Pause())
}

func (h *TimerHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.runner.Reset().Result)
}

func (h *TimerHandler) Skip(w http.ResponseWriter, r *http.Request) {
	h.runner.Skip()
	writeJSON(w, http.StatusOK, h.runner.State())
}

func (h *TimerHandler) Touch(w http.ResponseWriter, r *http.Request) {
	h.runner.Touch()
	writeJSON(w, http.StatusOK, h.runner.State())
}

func (h *TimerHandler) ResetIntervalsSet(w http.ResponseWriter, r *http.Request) {
	h.runner.ResetIntervalsSet()
	writeJSON(w, http.StatusOK, h.runner.State())
}

func (h *TimerHandler) ResetTotalIntervals(w http.ResponseWriter, r *http.Request) {
	h.runner.ResetTotalIntervals()
	writeJSON(w, http.StatusOK, h.runner.State())
}

func (h *TimerHandler) Retime(w http.ResponseWriter, r *http.Request) {
	var req retimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", "Failed to parse request body")
		return
	}

	minutes, err := clock.ParsePositiveInteger(req.Minutes.String())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Validation error", err.Error())
		return
	}

	updated, err := h.runner.Retime(minutes)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Validation error", err.Error())
		return
	}
	if !updated {
		writeError(w, http.StatusConflict, "Rejected", "cannot retime a running interval")
		return
	}
	writeJSON(w, http.StatusOK, h.runner.State())
}

func (h *TimerHandler) SetAutoReset(w http.ResponseWriter, r *http.Request) {
	var req autoResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", "Failed to parse request body")
		return
	}
	if req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "Validation error", "enabled is required")
		return
	}

	h.runner.SetAutoReset(*req.Enabled)
	writeJSON(w, http.StatusOK, h.runner.State())
}

// respond answers a rejected transition with 409 and the reason
func (h *TimerHandler) respond(w http.ResponseWriter, result clock.Result) {
	if !result.OK() {
		writeError(w, http.StatusConflict, "Rejected", result.Reason)
		return
	}
	writeJSON(w, http.StatusOK, h.runner.State())
}
