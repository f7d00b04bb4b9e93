package chat

import "time"

// ItemKind discriminates the three history entry shapes.
type ItemKind string

const (
	KindMessage            ItemKind = "message"
	KindFunctionCall       ItemKind = "function_call"
	KindFunctionCallOutput ItemKind = "function_call_output"
)

// Role applies to message items only.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Item is one entry in a persona's conversation history. IDs are unique
// within a history and stable across copies, which is what the handoff
// carry-over dedup keys on.
type Item struct {
	ID        string    `json:"id"`
	Kind      ItemKind  `json:"kind"`
	Role      Role      `json:"role,omitempty"`
	Content   string    `json:"content,omitempty"`
	Tool      string    `json:"tool,omitempty"`
	CallID    string    `json:"callId,omitempty"`
	Arguments string    `json:"arguments,omitempty"`
	Output    string    `json:"output,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsToolTraffic reports whether the item belongs to a call/result pair.
func (it Item) IsToolTraffic() bool {
	return it.Kind == KindFunctionCall || it.Kind == KindFunctionCallOutput
}
