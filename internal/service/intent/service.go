// Package intent wraps the routing heuristic with an optional LLM
// classifier. When the classifier is disabled or fails, the keyword
// heuristic answers instead.
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	analysis "github.com/mindbotz/team-zephyra/internal/analysis/intent"
	"github.com/mindbotz/team-zephyra/internal/model/chat"
)

// Config controls the routing classifier.
type Config struct {
	Enabled      bool
	HistoryLimit int
}

// Guidance is a routing suggestion for the router persona. Persona is empty
// when nothing stood out.
type Guidance struct {
	Persona    string
	Confidence float32
	Reason     string
}

const classifierSystemPrompt = `You route users of a career and housing assistant to one of three specialists:
- aria: resume building (skills, experience, cover letters)
- phoenix: mock interviews and interview practice
- solace: housing support (rent, leases, landlords, shelters)

Reply with a single JSON object: {"persona": "aria|phoenix|solace|none", "confidence": 0.0-1.0, "reason": "short reason"}.
Use "none" when no specialist clearly fits.`

const classifierUserPrompt = `Recent conversation:
{history}

Latest user message:
{user_message}`

// Service predicts which specialist a turn calls for.
type Service struct {
	enabled      bool
	classifier   compose.Runnable[map[string]any, *schema.Message]
	fallback     func(string) analysis.Suggestion
	historyLimit int
}

// NewService creates the routing classifier. chatModel may reuse an
// existing model instance; a nil model disables the classifier.
func NewService(ctx context.Context, chatModel model.ChatModel, cfg Config) (*Service, error) {
	historyLimit := cfg.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = 6
	}

	svc := &Service{
		enabled:      cfg.Enabled && chatModel != nil,
		fallback:     analysis.Analyze,
		historyLimit: historyLimit,
	}

	if !svc.enabled {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(classifierSystemPrompt),
		schema.UserMessage(classifierUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile routing classifier chain: %w", err)
	}

	svc.classifier = runnable
	return svc, nil
}

// Enabled reports whether the LLM classifier is active.
func (s *Service) Enabled() bool {
	return s != nil && s.enabled && s.classifier != nil
}

type classifierPayload struct {
	Persona    string  `json:"persona"`
	Confidence float32 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Suggest predicts the specialist for the latest user message. It never
// fails: classifier errors fall back to the keyword heuristic.
func (s *Service) Suggest(ctx context.Context, items []chat.Item, userMessage string) Guidance {
	if !s.Enabled() {
		return s.fallbackGuidance(userMessage)
	}

	input := map[string]any{
		"history":      formatHistory(items, s.historyLimit),
		"user_message": strings.TrimSpace(userMessage),
	}

	msg, err := s.classifier.Invoke(ctx, input)
	if err != nil {
		log.Printf("[intent] classifier invoke failed, using fallback: %v", err)
		return s.fallbackGuidance(userMessage)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return s.fallbackGuidance(userMessage)
	}

	payload, err := parseClassifierOutput(msg.Content)
	if err != nil {
		log.Printf("[intent] classifier output parse failed, using fallback: %v", err)
		return s.fallbackGuidance(userMessage)
	}

	persona := strings.ToLower(strings.TrimSpace(payload.Persona))
	switch persona {
	case "aria", "phoenix", "solace":
	default:
		return Guidance{}
	}

	confidence := payload.Confidence
	if confidence <= 0 {
		confidence = 0.6
	}
	if confidence > 1 {
		confidence = 1
	}

	return Guidance{
		Persona:    persona,
		Confidence: confidence,
		Reason:     strings.TrimSpace(payload.Reason),
	}
}

func (s *Service) fallbackGuidance(userMessage string) Guidance {
	suggestion := s.fallback(userMessage)
	if suggestion.Persona == "" {
		return Guidance{}
	}
	return Guidance{
		Persona:    suggestion.Persona,
		Confidence: 0.4,
		Reason:     "keyword match",
	}
}

func parseClassifierOutput(content string) (*classifierPayload, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}

	payload := &classifierPayload{}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func formatHistory(items []chat.Item, limit int) string {
	var lines []string
	for _, it := range items {
		if it.Kind != chat.KindMessage || it.Role == chat.RoleSystem {
			continue
		}
		content := strings.TrimSpace(it.Content)
		if content == "" {
			continue
		}
		lines = append(lines, string(it.Role)+": "+content)
	}

	if len(lines) == 0 {
		return "no prior conversation"
	}
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return strings.Join(lines, "\n")
}
