package handler

import (
	"encoding/base64"
	"net/http"

	"github.com/google/uuid"

	"adforge/internal/agent"
	"adforge/internal/domain"
)

type scrapeRequest struct {
	URL string `json:"url"`
}

func (h *Handler) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := readJSON(r, &req); err != nil || req.URL == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "url is required"})
		return
	}
	out, err := h.scraper.Scrape(r.Context(), req.URL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type competitorRequest struct {
	InputType   domain.CompetitorInputType `json:"inputType"`
	URL         string                     `json:"url,omitempty"`
	ImageBase64 string                     `json:"imageBase64,omitempty"`
	ImageMIME   string                     `json:"imageMimeType,omitempty"`
}

// handleCompetitorAnalyze runs the competitor agent and persists the
// analysis so a brief can reference it later.
func (h *Handler) handleCompetitorAnalyze(w http.ResponseWriter, r *http.Request) {
	var req competitorRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request: " + err.Error()})
		return
	}
	in := agent.CompetitorInput{InputType: req.InputType, URL: req.URL}
	if req.ImageBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "imageBase64 is not valid base64"})
			return
		}
		in.ImageData = data
		in.ImageMIME = req.ImageMIME
	}
	out, err := h.competitor.Analyze(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	out.ID = uuid.NewString()
	if err := h.campaigns.PutAnalysis(r.Context(), out); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type scoreRequest struct {
	Mode        domain.AnalysisMode `json:"mode"`
	Text        string              `json:"text,omitempty"`
	ImageBase64 string              `json:"imageBase64,omitempty"`
	ImageMIME   string              `json:"imageMimeType,omitempty"`
}

func (h *Handler) handleCreativeScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request: " + err.Error()})
		return
	}
	if req.Mode == "" {
		req.Mode = domain.AnalyzePerformance
	}
	in := agent.ScoreInput{Mode: req.Mode, Text: req.Text}
	if req.ImageBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "imageBase64 is not valid base64"})
			return
		}
		in.ImageData = data
		in.ImageMIME = req.ImageMIME
	}
	out, err := h.scorer.Score(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
