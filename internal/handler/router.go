package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	conversationHandler "github.com/mindbotz/team-zephyra/internal/handler/conversation"
	personaHandler "github.com/mindbotz/team-zephyra/internal/handler/persona"
	"github.com/mindbotz/team-zephyra/internal/handler/stream"
	"github.com/mindbotz/team-zephyra/internal/handler/ws"
	middlewarePkg "github.com/mindbotz/team-zephyra/internal/middleware"
	personaModel "github.com/mindbotz/team-zephyra/internal/model/persona"
	conversationService "github.com/mindbotz/team-zephyra/internal/service/conversation"
	intentService "github.com/mindbotz/team-zephyra/internal/service/intent"
	"github.com/mindbotz/team-zephyra/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(personas *personaModel.Registry, conversations *conversationService.Service, intents *intentService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	streamHandler := stream.New(conversations, intents)

	r.Route("/api", func(api chi.Router) {
		personaHandler.New(personas).RegisterRoutes(api)
		conversationHandler.New(conversations).RegisterRoutes(api)
		ws.New(conversations, intents).RegisterRoutes(api)

		api.Get("/stream/{conversationID}", func(w http.ResponseWriter, r *http.Request) {
			conversationID := chi.URLParam(r, "conversationID")
			userMessage := r.URL.Query().Get("message")

			if userMessage == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}

			if err := streamHandler.HandleStreamRequest(r.Context(), w, conversationID, userMessage); err != nil {
				log.Printf("[stream] error handling request: %v", err)
			}
		})
	})

	return r
}
