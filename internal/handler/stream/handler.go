// Package stream delivers one conversation turn over Server-Sent Events.
package stream

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/mindbotz/team-zephyra/internal/service/agent"
	"github.com/mindbotz/team-zephyra/internal/service/conversation"
	"github.com/mindbotz/team-zephyra/internal/service/intent"
	"github.com/mindbotz/team-zephyra/pkg/utils"
)

// Handler streams turn events for a conversation.
type Handler struct {
	conversations *conversation.Service
	intents       *intent.Service
}

// New creates a stream handler.
func New(conversations *conversation.Service, intents *intent.Service) *Handler {
	return &Handler{conversations: conversations, intents: intents}
}

// HandleStreamRequest processes one user turn and streams the resulting
// events until the turn completes.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, conversationID, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	sess, err := h.conversations.Get(ctx, conversationID)
	if err != nil {
		h.sendError(w, flusher, err.Error())
		return err
	}

	emit := func(ev agent.Event) {
		utils.SendSSEChunk(w, flusher, ev)
	}

	emit(agent.Event{Type: agent.EventStart, ConversationID: conversationID, Persona: sess.ActivePersona()})

	if err := sess.EnsureStarted(ctx, emit); err != nil {
		h.sendError(w, flusher, fmt.Sprintf("failed to start conversation: %v", err))
		return err
	}

	routing := RoutingGuidance(ctx, h.intents, sess, userMessage, emit)

	if err := sess.HandleTurn(ctx, userMessage, routing, emit); err != nil {
		h.sendError(w, flusher, fmt.Sprintf("turn failed: %v", err))
		return err
	}

	emit(agent.Event{Type: agent.EventEnd, ConversationID: conversationID, Finished: true})
	log.Printf("[stream] completed turn for conversation=%s persona=%s", conversationID, sess.ActivePersona())
	return nil
}

// RoutingGuidance asks the intent service for a specialist suggestion when
// the router persona is active. The suggestion is surfaced to the client
// and handed to the router as prompt guidance.
func RoutingGuidance(ctx context.Context, intents *intent.Service, sess *agent.Session, userMessage string, emit agent.EmitFunc) string {
	if intents == nil || !sess.RouterActive() {
		return ""
	}

	g := intents.Suggest(ctx, sess.ActiveHistory(), userMessage)
	if g.Persona == "" {
		return ""
	}

	emit(agent.Event{Type: agent.EventRouting, ConversationID: sess.ID(), Persona: g.Persona, Content: g.Reason})
	return fmt.Sprintf("the user's request likely belongs with %s (%s)", g.Persona, g.Reason)
}

func (h *Handler) sendError(w http.ResponseWriter, flusher http.Flusher, msg string) {
	utils.SendSSEChunk(w, flusher, agent.Event{Type: agent.EventError, Error: msg})
}
