// Package ws is the interactive conversation gateway: a client holds one
// websocket per conversation, sends user turns as JSON, and receives the
// same event stream the SSE endpoint produces.
package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/mindbotz/team-zephyra/internal/handler/stream"
	"github.com/mindbotz/team-zephyra/internal/service/agent"
	"github.com/mindbotz/team-zephyra/internal/service/conversation"
	"github.com/mindbotz/team-zephyra/internal/service/intent"
	"github.com/mindbotz/team-zephyra/pkg/utils"
)

const (
	writeTimeout = 10 * time.Second
	readLimit    = 64 * 1024
)

// Handler upgrades conversation connections to websocket.
type Handler struct {
	conversations *conversation.Service
	intents       *intent.Service
	upgrader      websocket.Upgrader
}

// New creates the websocket gateway handler.
func New(conversations *conversation.Service, intents *intent.Service) *Handler {
	return &Handler{
		conversations: conversations,
		intents:       intents,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the websocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{conversationID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	sess, err := h.conversations.Get(r.Context(), conversationID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for conversation=%s: %v", conversationID, err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(readLimit)

	log.Printf("[ws] connected conversation=%s", conversationID)

	var writeMu sync.Mutex
	emit := func(ev agent.Event) {
		writeMu.Lock()
		defer writeMu.Unlock()

		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(ev); err != nil {
			log.Printf("[ws] write failed for conversation=%s: %v", conversationID, err)
		}
	}

	// Entering the conversation greets the user through the router.
	if err := sess.EnsureStarted(r.Context(), emit); err != nil {
		emit(agent.Event{Type: agent.EventError, Error: err.Error()})
		return
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[ws] read failed for conversation=%s: %v", conversationID, err)
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			emit(agent.Event{Type: agent.EventError, Error: "invalid message payload"})
			continue
		}

		switch msg.Type {
		case "user_message":
			if msg.Text == "" {
				emit(agent.Event{Type: agent.EventError, Error: "text is required"})
				continue
			}

			routing := stream.RoutingGuidance(r.Context(), h.intents, sess, msg.Text, emit)
			if err := sess.HandleTurn(r.Context(), msg.Text, routing, emit); err != nil {
				emit(agent.Event{Type: agent.EventError, Error: err.Error()})
				continue
			}
			emit(agent.Event{Type: agent.EventEnd, ConversationID: conversationID, Finished: true})

		case "ping":
			emit(agent.Event{Type: "pong", ConversationID: conversationID})

		default:
			emit(agent.Event{Type: agent.EventError, Error: "unknown message type"})
		}
	}
}
