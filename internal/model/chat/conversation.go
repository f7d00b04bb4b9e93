package chat

import "time"

// Conversation captures a transient anonymous conversation. Every
// conversation starts on the router persona.
type Conversation struct {
	ID              string    `json:"id"`
	ActivePersona   string    `json:"activePersona"`
	PreviousPersona string    `json:"previousPersona,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
