package conversation

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	conversationService "github.com/mindbotz/team-zephyra/internal/service/conversation"
	"github.com/mindbotz/team-zephyra/pkg/utils"
)

// Handler serves conversation lifecycle endpoints.
type Handler struct {
	conversations *conversationService.Service
}

// New creates the conversation handler.
func New(conversations *conversationService.Service) *Handler {
	return &Handler{conversations: conversations}
}

// RegisterRoutes registers conversation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/conversations", h.handleCreate)
	r.Get("/conversations/{conversationID}", h.handleGet)
	r.Get("/conversations/{conversationID}/transcript", h.handleTranscript)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess, err := h.conversations.Create(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, sess.Snapshot())
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := h.conversations.Get(r.Context(), chi.URLParam(r, "conversationID"))
	if err != nil {
		h.respondLookupError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, sess.Snapshot())
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sess, err := h.conversations.Get(r.Context(), chi.URLParam(r, "conversationID"))
	if err != nil {
		h.respondLookupError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, sess.Transcript())
}

func (h *Handler) respondLookupError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, conversationService.ErrConversationNotFound) {
		status = http.StatusNotFound
	}
	utils.RespondError(w, status, err.Error())
}
