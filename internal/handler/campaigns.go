package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"adforge/internal/domain"
)

func (h *Handler) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.campaigns.ListCampaigns(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Campaign{"campaigns": campaigns})
}

func (h *Handler) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	c, ok, err := h.campaigns.GetCampaign(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "campaign not found"})
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type regenerateRequest struct {
	Feedback string `json:"feedback"`
}

func (h *Handler) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	var req regenerateRequest
	if err := readJSON(r, &req); err != nil || strings.TrimSpace(req.Feedback) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "feedback is required"})
		return
	}
	campaign, err := h.pipe.Regenerate(r.Context(), r.PathValue("id"), req.Feedback)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (h *Handler) handleListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.campaigns.ListBrands(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.BrandProfile{"brands": brands})
}

func (h *Handler) handlePutBrand(w http.ResponseWriter, r *http.Request) {
	var brand domain.BrandProfile
	if err := readJSON(r, &brand); err != nil || brand.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "brand name is required"})
		return
	}
	if brand.ID == "" {
		brand.ID = uuid.NewString()
	}
	if err := h.campaigns.PutBrand(r.Context(), brand); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, brand)
}
