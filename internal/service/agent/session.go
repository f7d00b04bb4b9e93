package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/mindbotz/team-zephyra/internal/model/chat"
	"github.com/mindbotz/team-zephyra/internal/model/persona"
	"github.com/mindbotz/team-zephyra/internal/model/session"
	"github.com/mindbotz/team-zephyra/internal/service/history"
)

// ErrToolStepLimit indicates a turn exceeded the bounded tool-dispatch loop.
var ErrToolStepLimit = errors.New("tool step limit reached")

// Session is one live conversation: the shared session record, the active
// persona, and one history per persona. All turn handling is serialized by
// the session mutex; the core operations themselves never block.
type Session struct {
	mu        sync.Mutex
	id        string
	svc       *Service
	record    *session.Record
	active    *persona.Persona
	histories map[string][]chat.Item
	started   bool
	createdAt time.Time
}

// NewSession creates a conversation starting on the router persona.
func (s *Service) NewSession(id string) *Session {
	router, ok := s.registry.Find(s.cfg.RouterPersona)
	if !ok {
		// The router persona is seeded at startup; this is unreachable
		// unless the registry was wired without it.
		panic(fmt.Sprintf("router persona %q not registered", s.cfg.RouterPersona))
	}

	return &Session{
		id:        id,
		svc:       s,
		record:    session.NewRecord(s.registry),
		active:    router,
		histories: make(map[string][]chat.Item, 4),
		createdAt: time.Now().UTC(),
	}
}

// ID returns the conversation identifier.
func (s *Session) ID() string { return s.id }

// Snapshot reports the conversation state for API responses.
func (s *Session) Snapshot() chat.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return chat.Conversation{
		ID:              s.id,
		ActivePersona:   s.active.Name,
		PreviousPersona: s.record.PreviousPersona,
		CreatedAt:       s.createdAt,
	}
}

// RouterActive reports whether the router persona is currently active.
func (s *Session) RouterActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active.Name == s.svc.cfg.RouterPersona
}

// ActivePersona returns the name of the currently active persona.
func (s *Session) ActivePersona() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active.Name
}

// ActiveHistory returns a copy of the active persona's history.
func (s *Session) ActiveHistory() []chat.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]chat.Item(nil), s.histories[s.active.Name]...)
}

// Transcript returns a copy of every persona's history, keyed by name.
func (s *Session) Transcript() map[string][]chat.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string][]chat.Item, len(s.histories))
	for name, items := range s.histories {
		out[name] = append([]chat.Item(nil), items...)
	}
	return out
}

// Record exposes the shared session record for inspection.
func (s *Session) Record() *session.Record {
	return s.record
}

// EnsureStarted runs the router's entry hook once, producing the greeting.
// Subsequent calls are no-ops.
func (s *Session) EnsureStarted(ctx context.Context, emit EmitFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.started = true
	return s.onEnter(ctx, emit)
}

// HandleTurn processes one user turn: appends the user item, then loops
// between generation and tool dispatch until the model produces a plain
// reply or a handoff activates another persona. The routing hint, when
// non-empty, is appended to the active persona's system prompt.
func (s *Session) HandleTurn(ctx context.Context, text, routing string, emit EmitFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		s.started = true
		if err := s.onEnter(ctx, emit); err != nil {
			return err
		}
	}

	s.appendItem(chat.Item{
		Kind:    chat.KindMessage,
		Role:    chat.RoleUser,
		Content: text,
	})

	for step := 0; step < s.svc.cfg.MaxToolSteps; step++ {
		resp, err := s.generate(ctx, s.buildMessages(routing), emit, false)
		if err != nil {
			return err
		}

		if len(resp.ToolCalls) == 0 {
			s.appendItem(chat.Item{
				Kind:    chat.KindMessage,
				Role:    chat.RoleAssistant,
				Content: resp.Content,
			})
			emit(Event{Type: EventMessage, ConversationID: s.id, Persona: s.active.Name, Content: resp.Content})
			return nil
		}

		handedOff, err := s.runToolCalls(ctx, resp.ToolCalls, emit)
		if err != nil {
			return err
		}
		if handedOff {
			return nil
		}
		// Tool outputs are now in the history; let the model continue.
	}

	return fmt.Errorf("%w (%d)", ErrToolStepLimit, s.svc.cfg.MaxToolSteps)
}

// runToolCalls dispatches the model's tool calls in order. A handoff swaps
// the active persona, runs its entry hook, and stops the turn; calls queued
// after a handoff are dropped with the departing persona.
func (s *Session) runToolCalls(ctx context.Context, calls []schema.ToolCall, emit EmitFunc) (bool, error) {
	for _, call := range calls {
		s.appendItem(chat.Item{
			Kind:      chat.KindFunctionCall,
			Tool:      call.Function.Name,
			CallID:    call.ID,
			Arguments: call.Function.Arguments,
		})
		emit(Event{Type: EventTool, ConversationID: s.id, Persona: s.active.Name, Tool: call.Function.Name})

		output, next, err := s.dispatch(call)
		if err != nil {
			return false, fmt.Errorf("tool %s: %w", call.Function.Name, err)
		}

		s.appendItem(chat.Item{
			Kind:   chat.KindFunctionCallOutput,
			CallID: call.ID,
			Output: output,
		})

		if next != nil {
			emit(Event{Type: EventHandoff, ConversationID: s.id, Persona: next.Name, Content: output})
			s.active = next
			emit(Event{Type: EventPersona, ConversationID: s.id, Persona: next.Name, Content: next.Title})
			log.Printf("[agent] conversation=%s handoff %s -> %s", s.id, s.record.PreviousPersona, next.Name)
			return true, s.onEnter(ctx, emit)
		}
	}
	return false, nil
}

// onEnter is the persona entry hook: carry over a truncated window of the
// previous persona's history (dedup by item id, current history wins),
// re-ground the persona in the session record, then produce the opening
// utterance. Callers hold the session mutex.
func (s *Session) onEnter(ctx context.Context, emit EmitFunc) error {
	p := s.active
	log.Printf("[agent] conversation=%s entering persona=%s", s.id, p.Name)

	if prev := s.record.PreviousPersona; prev != "" && !s.svc.cfg.RealtimeModel {
		carried := history.Truncate(s.histories[prev], history.Options{
			KeepLastN:         s.svc.cfg.KeepLastN,
			KeepFunctionCalls: true,
		})
		s.histories[p.Name] = history.MergeCarryover(s.histories[p.Name], carried)
	}

	s.appendItem(chat.Item{
		Kind: chat.KindMessage,
		Role: chat.RoleSystem,
		Content: fmt.Sprintf(
			"Hello, I am %s, %s. Here is what I know about you so far:\n%s",
			displayName(p.Name), p.Title, s.record.Summarize(),
		),
	})

	var (
		msgs        = s.buildMessages("")
		forbidTools bool
	)
	if p.Opening != "" {
		// Fixed opening prompt instead of the tool-suppressed continuation.
		msgs = append(msgs, schema.SystemMessage(p.Opening))
	} else {
		forbidTools = true
	}

	resp, err := s.generate(ctx, msgs, emit, forbidTools)
	if err != nil {
		return err
	}

	s.appendItem(chat.Item{
		Kind:    chat.KindMessage,
		Role:    chat.RoleAssistant,
		Content: resp.Content,
	})
	emit(Event{Type: EventMessage, ConversationID: s.id, Persona: p.Name, Content: resp.Content})
	return nil
}

// generate runs the active persona's model over the given messages,
// streaming deltas through emit when streaming is enabled.
func (s *Session) generate(ctx context.Context, msgs []*schema.Message, emit EmitFunc, forbidTools bool) (*schema.Message, error) {
	cm, ok := s.svc.models[s.active.Name]
	if !ok {
		return nil, fmt.Errorf("no chat model bound for persona %q", s.active.Name)
	}

	var opts []model.Option
	if forbidTools {
		opts = append(opts, model.WithToolChoice(schema.ToolChoiceForbidden))
	}

	if !s.svc.cfg.StreamResponse {
		resp, err := cm.Generate(ctx, msgs, opts...)
		if err != nil {
			return nil, fmt.Errorf("generation failed: %w", err)
		}
		return resp, nil
	}

	stream, err := cm.Stream(ctx, msgs, opts...)
	if err != nil {
		return nil, fmt.Errorf("stream start failed: %w", err)
	}
	defer stream.Close()

	chunks := make([]*schema.Message, 0, 8)
	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return nil, recvErr
		}
		if chunk == nil {
			continue
		}

		chunks = append(chunks, chunk)
		if chunk.Content != "" {
			emit(Event{Type: EventDelta, ConversationID: s.id, Persona: s.active.Name, Content: chunk.Content})
		}
	}

	resp, err := schema.ConcatMessages(chunks)
	if err != nil {
		return nil, fmt.Errorf("failed to concat stream chunks: %w", err)
	}
	return resp, nil
}

// buildMessages rebuilds the model input from the active persona's
// instructions and history. Function call/output items are mapped back to
// assistant tool-call and tool messages so the provider sees intact pairs.
func (s *Session) buildMessages(routing string) []*schema.Message {
	p := s.active
	items := s.histories[p.Name]

	system := p.Instructions
	if routing != "" {
		system += "\n\nRouting guidance: " + routing
	}

	msgs := make([]*schema.Message, 0, len(items)+1)
	msgs = append(msgs, schema.SystemMessage(system))

	for _, it := range items {
		switch it.Kind {
		case chat.KindMessage:
			switch it.Role {
			case chat.RoleSystem:
				msgs = append(msgs, schema.SystemMessage(it.Content))
			case chat.RoleUser:
				msgs = append(msgs, schema.UserMessage(it.Content))
			case chat.RoleAssistant:
				msgs = append(msgs, schema.AssistantMessage(it.Content, nil))
			}
		case chat.KindFunctionCall:
			msgs = append(msgs, schema.AssistantMessage("", []schema.ToolCall{{
				ID:   it.CallID,
				Type: "function",
				Function: schema.FunctionCall{
					Name:      it.Tool,
					Arguments: it.Arguments,
				},
			}}))
		case chat.KindFunctionCallOutput:
			msgs = append(msgs, schema.ToolMessage(it.Output, it.CallID))
		}
	}

	return msgs
}

func (s *Session) appendItem(it chat.Item) {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now().UTC()
	}
	s.histories[s.active.Name] = append(s.histories[s.active.Name], it)
}

func displayName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
