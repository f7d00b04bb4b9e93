package agent

// Event types emitted over one conversation turn.
const (
	EventStart   = "start"
	EventRouting = "routing"
	EventDelta   = "delta"
	EventMessage = "message"
	EventTool    = "tool"
	EventHandoff = "handoff"
	EventPersona = "persona"
	EventEnd     = "end"
	EventError   = "error"
)

// Event is one unit of turn output, delivered to clients over SSE or the
// websocket gateway.
type Event struct {
	Type           string `json:"event"`
	ConversationID string `json:"conversationId,omitempty"`
	Persona        string `json:"persona,omitempty"`
	Tool           string `json:"tool,omitempty"`
	Content        string `json:"content,omitempty"`
	Finished       bool   `json:"finished,omitempty"`
	Error          string `json:"error,omitempty"`
}

// EmitFunc receives turn events as they are produced. Implementations must
// not block for long; the turn handler runs synchronously.
type EmitFunc func(Event)
