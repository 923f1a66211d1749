package handler

import (
	"net/http"

	"adforge/internal/domain"
	"adforge/internal/pipeline"
)

type startRunResponse struct {
	Run     pipeline.RunView     `json:"run"`
	Planner domain.PlannerOutput `json:"planner"`
}

// handleStartRun registers the run and executes the Strategy step.
// The wizard advances only if the planner succeeds.
func (h *Handler) handleStartRun(w http.ResponseWriter, r *http.Request) {
	var brief domain.Brief
	if err := readJSON(r, &brief); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid brief: " + err.Error()})
		return
	}
	run, err := h.pipe.StartRun(brief)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	planner, err := h.pipe.GenerateStrategy(r.Context(), run.ID)
	if err != nil {
		// The run survives; the client may re-trigger the stage.
		writeJSON(w, http.StatusBadGateway, struct {
			errorBody
			RunID string `json:"runId"`
		}{errorBody{Error: err.Error()}, run.ID})
		return
	}
	writeJSON(w, http.StatusCreated, startRunResponse{Run: run.Snapshot(), Planner: planner})
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := h.pipe.Run(r.PathValue("id"))
	if !ok {
		writeError(w, pipeline.ErrRunNotFound)
		return
	}
	writeJSON(w, http.StatusOK, run.Snapshot())
}

func (h *Handler) handleRunLog(w http.ResponseWriter, r *http.Request) {
	run, ok := h.pipe.Run(r.PathValue("id"))
	if !ok {
		writeError(w, pipeline.ErrRunNotFound)
		return
	}
	snap := run.Snapshot()
	writeJSON(w, http.StatusOK, map[string][]string{"log": snap.Log})
}

type enhanceRequest struct {
	Pattern string `json:"pattern"`
}

func (h *Handler) handleEnhance(w http.ResponseWriter, r *http.Request) {
	var req enhanceRequest
	if err := readJSON(r, &req); err != nil || req.Pattern == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "pattern is required"})
		return
	}
	out, err := h.pipe.EnhanceStrategy(r.Context(), r.PathValue("id"), req.Pattern)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleDirect(w http.ResponseWriter, r *http.Request) {
	out, err := h.pipe.Direct(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleProduce(w http.ResponseWriter, r *http.Request) {
	campaign, err := h.pipe.Produce(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}
