package agent_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/mindbotz/team-zephyra/internal/config"
	"github.com/mindbotz/team-zephyra/internal/model/chat"
	"github.com/mindbotz/team-zephyra/internal/model/persona"
	"github.com/mindbotz/team-zephyra/internal/service/agent"
)

// fakeModel replays scripted responses in order.
type fakeModel struct {
	responses []*schema.Message
}

func (m *fakeModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	if len(m.responses) == 0 {
		return nil, errors.New("no scripted response left")
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

func (m *fakeModel) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	resp, err := m.Generate(ctx, in, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{resp}), nil
}

func (m *fakeModel) BindTools(_ []*schema.ToolInfo) error { return nil }

func reply(content string) *schema.Message {
	return schema.AssistantMessage(content, nil)
}

func toolCall(id, name, args string) *schema.Message {
	return &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{{
			ID:   id,
			Type: "function",
			Function: schema.FunctionCall{
				Name:      name,
				Arguments: args,
			},
		}},
	}
}

func testConfig() config.AgentConfig {
	return config.AgentConfig{
		RouterPersona: "zephyra",
		KeepLastN:     6,
		MaxToolSteps:  5,
	}
}

// newTestService wires one fake model per persona, in seed order.
func newTestService(t *testing.T, fakes map[string]*fakeModel) *agent.Service {
	t.Helper()

	registry := persona.NewRegistry(persona.Seed())
	order := make([]string, 0, 4)
	for _, p := range registry.List() {
		order = append(order, p.Name)
	}

	idx := 0
	factory := func(_ context.Context, _ []*schema.ToolInfo) (model.ChatModel, error) {
		name := order[idx]
		idx++
		if fm, ok := fakes[name]; ok {
			return fm, nil
		}
		return &fakeModel{}, nil
	}

	svc, err := agent.NewService(context.Background(), registry, factory, testConfig())
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}
	return svc
}

func collectEvents(events *[]agent.Event) agent.EmitFunc {
	return func(ev agent.Event) { *events = append(*events, ev) }
}

func eventTypes(events []agent.Event) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.Type
	}
	return out
}

func TestEnsureStartedGreetsOnce(t *testing.T) {
	svc := newTestService(t, map[string]*fakeModel{
		"zephyra": {responses: []*schema.Message{reply("Welcome, I'm Zephyra.")}},
	})
	sess := svc.NewSession("conv-1")

	var events []agent.Event
	if err := sess.EnsureStarted(context.Background(), collectEvents(&events)); err != nil {
		t.Fatalf("EnsureStarted err: %v", err)
	}
	if err := sess.EnsureStarted(context.Background(), collectEvents(&events)); err != nil {
		t.Fatalf("second EnsureStarted err: %v", err)
	}

	if len(events) != 1 || events[0].Type != agent.EventMessage {
		t.Fatalf("unexpected events: %v", eventTypes(events))
	}

	hist := sess.ActiveHistory()
	if len(hist) != 2 {
		t.Fatalf("unexpected history length: %d", len(hist))
	}
	if hist[0].Kind != chat.KindMessage || hist[0].Role != chat.RoleSystem {
		t.Fatalf("first item should be the entry system message, got %+v", hist[0])
	}
	if hist[1].Role != chat.RoleAssistant || hist[1].Content != "Welcome, I'm Zephyra." {
		t.Fatalf("greeting not recorded: %+v", hist[1])
	}
}

func TestHandleTurnPlainReply(t *testing.T) {
	svc := newTestService(t, map[string]*fakeModel{
		"zephyra": {responses: []*schema.Message{
			reply("Welcome, I'm Zephyra."),
			reply("Tell me more about what you need."),
		}},
	})
	sess := svc.NewSession("conv-1")

	var events []agent.Event
	if err := sess.HandleTurn(context.Background(), "hi", "", collectEvents(&events)); err != nil {
		t.Fatalf("HandleTurn err: %v", err)
	}

	hist := sess.ActiveHistory()
	last := hist[len(hist)-1]
	if last.Role != chat.RoleAssistant || last.Content != "Tell me more about what you need." {
		t.Fatalf("assistant reply not recorded: %+v", last)
	}
}

func TestHandleTurnDataUpdateTool(t *testing.T) {
	svc := newTestService(t, map[string]*fakeModel{
		"zephyra": {responses: []*schema.Message{
			reply("Welcome."),
			toolCall("call-1", persona.ToolToAria, "{}"),
		}},
		"aria": {responses: []*schema.Message{
			reply("Hi, I'm Aria."),
			toolCall("call-2", persona.ToolUpdateName, `{"name":"Riley"}`),
			reply("Nice to meet you, Riley."),
		}},
	})
	sess := svc.NewSession("conv-1")

	var events []agent.Event
	if err := sess.HandleTurn(context.Background(), "resume help please", "", collectEvents(&events)); err != nil {
		t.Fatalf("handoff turn err: %v", err)
	}
	if err := sess.HandleTurn(context.Background(), "my name is Riley", "", collectEvents(&events)); err != nil {
		t.Fatalf("update turn err: %v", err)
	}

	if got := sess.Record().CustomerName; got != "Riley" {
		t.Fatalf("record not updated: %q", got)
	}

	hist := sess.ActiveHistory()
	var foundCall, foundOutput bool
	for _, it := range hist {
		if it.Kind == chat.KindFunctionCall && it.Tool == persona.ToolUpdateName {
			foundCall = true
		}
		if it.Kind == chat.KindFunctionCallOutput && it.Output == "Great, your name is now set to Riley." {
			foundOutput = true
		}
	}
	if !foundCall || !foundOutput {
		t.Fatalf("tool traffic missing from history: call=%v output=%v", foundCall, foundOutput)
	}
}

func TestHandleTurnHandoff(t *testing.T) {
	svc := newTestService(t, map[string]*fakeModel{
		"zephyra": {responses: []*schema.Message{
			reply("Welcome."),
			toolCall("call-1", persona.ToolToAria, "{}"),
		}},
		"aria": {responses: []*schema.Message{
			reply("Hi, I'm Aria, let's build your resume."),
		}},
	})
	sess := svc.NewSession("conv-1")

	var events []agent.Event
	if err := sess.HandleTurn(context.Background(), "I need a resume", "", collectEvents(&events)); err != nil {
		t.Fatalf("HandleTurn err: %v", err)
	}

	if got := sess.ActivePersona(); got != "aria" {
		t.Fatalf("active persona = %q, want aria", got)
	}
	if got := sess.Record().PreviousPersona; got != "zephyra" {
		t.Fatalf("previous persona = %q, want zephyra", got)
	}

	var sawTool, sawHandoff, sawPersona, sawMessage bool
	for _, ev := range events {
		switch ev.Type {
		case agent.EventTool:
			sawTool = true
		case agent.EventHandoff:
			sawHandoff = ev.Content == "Hang on—transferring you to Aria now."
		case agent.EventPersona:
			sawPersona = ev.Persona == "aria"
		case agent.EventMessage:
			sawMessage = ev.Persona == "aria"
		}
	}
	if !sawTool || !sawHandoff || !sawPersona || !sawMessage {
		t.Fatalf("missing events: %v", eventTypes(events))
	}

	// The carried-over user turn must appear in aria's history exactly once.
	hist := sess.ActiveHistory()
	carried := 0
	for _, it := range hist {
		if it.Role == chat.RoleUser && it.Content == "I need a resume" {
			carried++
		}
	}
	if carried != 1 {
		t.Fatalf("carried user turn appears %d times", carried)
	}
}

func TestHandoffCarryoverDedup(t *testing.T) {
	// zephyra -> aria -> zephyra -> aria: items carried into aria on the
	// first handoff must not be duplicated by the second.
	svc := newTestService(t, map[string]*fakeModel{
		"zephyra": {responses: []*schema.Message{
			reply("Welcome."),
			toolCall("call-1", persona.ToolToAria, "{}"),
			reply("Zephyra here."),
			toolCall("call-3", persona.ToolToAria, "{}"),
		}},
		"aria": {responses: []*schema.Message{
			reply("Hi, I'm Aria."),
			toolCall("call-2", persona.ToolToZephyra, "{}"),
			reply("Aria again."),
		}},
	})
	sess := svc.NewSession("conv-1")
	emit := func(agent.Event) {}

	if err := sess.HandleTurn(context.Background(), "resume please", "", emit); err != nil {
		t.Fatalf("first handoff err: %v", err)
	}
	if err := sess.HandleTurn(context.Background(), "take me back", "", emit); err != nil {
		t.Fatalf("return handoff err: %v", err)
	}
	if err := sess.HandleTurn(context.Background(), "resume again", "", emit); err != nil {
		t.Fatalf("second handoff err: %v", err)
	}

	if got := sess.ActivePersona(); got != "aria" {
		t.Fatalf("active persona = %q, want aria", got)
	}

	hist := sess.ActiveHistory()
	seen := make(map[string]int)
	for _, it := range hist {
		seen[it.ID]++
	}
	for id, n := range seen {
		if n > 1 {
			t.Fatalf("item %s duplicated %d times in aria history", id, n)
		}
	}
}

func TestHandleTurnToolStepLimit(t *testing.T) {
	loop := make([]*schema.Message, 0, 8)
	loop = append(loop, reply("Hi, I'm Aria."))
	for i := 0; i < 6; i++ {
		loop = append(loop, toolCall("loop", persona.ToolUpdateName, `{"name":"x"}`))
	}

	svc := newTestService(t, map[string]*fakeModel{
		"zephyra": {responses: []*schema.Message{
			reply("Welcome."),
			toolCall("call-1", persona.ToolToAria, "{}"),
		}},
		"aria": {responses: loop},
	})
	sess := svc.NewSession("conv-1")
	emit := func(agent.Event) {}

	if err := sess.HandleTurn(context.Background(), "resume", "", emit); err != nil {
		t.Fatalf("handoff err: %v", err)
	}
	err := sess.HandleTurn(context.Background(), "loop forever", "", emit)
	if !errors.Is(err, agent.ErrToolStepLimit) {
		t.Fatalf("expected ErrToolStepLimit, got %v", err)
	}
}

func TestEntryHookAddsSummarySystemItem(t *testing.T) {
	svc := newTestService(t, map[string]*fakeModel{
		"zephyra": {responses: []*schema.Message{reply("Welcome.")}},
	})
	sess := svc.NewSession("conv-1")
	if err := sess.EnsureStarted(context.Background(), func(agent.Event) {}); err != nil {
		t.Fatalf("EnsureStarted err: %v", err)
	}

	hist := sess.ActiveHistory()
	sys := hist[0]
	for _, want := range []string{"Zephyra", "customer_name: unknown", "skills: []"} {
		if !strings.Contains(sys.Content, want) {
			t.Fatalf("entry system item missing %q:\n%s", want, sys.Content)
		}
	}
}
