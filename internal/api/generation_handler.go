package api

import (
	"net/http"

	"github.com/phrazzld/newsdesk/internal/api/shared"
	"github.com/phrazzld/newsdesk/internal/generation"
)

// GenerationHandler exposes the generation backend's health and profiles.
type GenerationHandler struct {
	client generation.Client
}

// NewGenerationHandler creates a GenerationHandler.
func NewGenerationHandler(client generation.Client) *GenerationHandler {
	return &GenerationHandler{client: client}
}

// Health handles GET /api/generation/health.
func (h *GenerationHandler) Health(w http.ResponseWriter, r *http.Request) {
	health, err := h.client.Health(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, GenerationHealthResponse{Success: true, Health: health})
}

// Profiles handles GET /api/generation/profiles.
func (h *GenerationHandler) Profiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.client.ListProfiles(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if profiles == nil {
		profiles = []generation.Profile{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ProfilesResponse{Success: true, Profiles: profiles})
}
