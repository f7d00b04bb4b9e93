package persona

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mindbotz/team-zephyra/internal/model/persona"
	"github.com/mindbotz/team-zephyra/pkg/utils"
)

// Handler serves the persona catalog.
type Handler struct {
	personas *persona.Registry
}

// New creates the persona handler.
func New(personas *persona.Registry) *Handler {
	return &Handler{personas: personas}
}

// RegisterRoutes registers persona routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/personas", h.handleListPersonas)
}

func (h *Handler) handleListPersonas(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.personas.List())
}
