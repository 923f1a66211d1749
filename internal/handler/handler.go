// Package handler exposes the wizard pipeline and the auxiliary agents
// over HTTP/JSON, plus a WebSocket for run progress.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"adforge/internal/agent"
	"adforge/internal/llmclient"
	"adforge/internal/pipeline"
	"adforge/internal/store/campaignstore"
)

type Handler struct {
	pipe       *pipeline.Service
	campaigns  *campaignstore.Store
	scraper    *agent.Scraper
	competitor *agent.CompetitorAnalyzer
	scorer     *agent.Scorer
}

func New(pipe *pipeline.Service, campaigns *campaignstore.Store, scraper *agent.Scraper, competitor *agent.CompetitorAnalyzer, scorer *agent.Scorer) *Handler {
	return &Handler{
		pipe:       pipe,
		campaigns:  campaigns,
		scraper:    scraper,
		competitor: competitor,
		scorer:     scorer,
	}
}

// Routes registers every endpoint on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/runs", h.handleStartRun)
	mux.HandleFunc("GET /api/runs/{id}", h.handleGetRun)
	mux.HandleFunc("GET /api/runs/{id}/log", h.handleRunLog)
	mux.HandleFunc("POST /api/runs/{id}/enhance", h.handleEnhance)
	mux.HandleFunc("POST /api/runs/{id}/direct", h.handleDirect)
	mux.HandleFunc("POST /api/runs/{id}/produce", h.handleProduce)

	mux.HandleFunc("GET /api/campaigns", h.handleListCampaigns)
	mux.HandleFunc("GET /api/campaigns/{id}", h.handleGetCampaign)
	mux.HandleFunc("POST /api/campaigns/{id}/regenerate", h.handleRegenerate)

	mux.HandleFunc("GET /api/brands", h.handleListBrands)
	mux.HandleFunc("POST /api/brands", h.handlePutBrand)

	mux.HandleFunc("POST /api/scrape", h.handleScrape)
	mux.HandleFunc("POST /api/competitor/analyze", h.handleCompetitorAnalyze)
	mux.HandleFunc("POST /api/creative/score", h.handleCreativeScore)

	mux.HandleFunc("GET /ws/runs", h.handleWatchWS)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("handler: write response: %v", err)
	}
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps pipeline and gateway failures to status codes. Every
// agent failure reaches the client with an actionable message.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var schemaErr *llmclient.SchemaError
	switch {
	case errors.Is(err, pipeline.ErrRunNotFound):
		status = http.StatusNotFound
	case errors.Is(err, pipeline.ErrStageInFlight), errors.Is(err, pipeline.ErrRegenInFlight):
		status = http.StatusConflict
	case errors.Is(err, pipeline.ErrWrongStep):
		status = http.StatusConflict
	case errors.As(err, &schemaErr):
		status = http.StatusBadGateway
	case errors.Is(err, llmclient.ErrAuthMissing):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}
