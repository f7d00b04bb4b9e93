// Package agent hosts the conversational session runtime: per-conversation
// persona histories, the tool-dispatch loop, and the persona entry hook that
// carries context across handoffs.
package agent

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/mindbotz/team-zephyra/internal/config"
	"github.com/mindbotz/team-zephyra/internal/model/persona"
)

// ModelFactory builds a chat model with the given tools bound. A nil or
// empty tool list yields an unbound model.
type ModelFactory func(ctx context.Context, tools []*schema.ToolInfo) (model.ChatModel, error)

// ModelFactoryFromConfig adapts the Ark model configuration into a factory.
func ModelFactoryFromConfig(cfg config.AIConfig) ModelFactory {
	return func(ctx context.Context, tools []*schema.ToolInfo) (model.ChatModel, error) {
		cm, err := cfg.NewChatModel(ctx)
		if err != nil {
			return nil, err
		}
		if len(tools) > 0 {
			if err := cm.BindTools(tools); err != nil {
				return nil, fmt.Errorf("failed to bind tools: %w", err)
			}
		}
		return cm, nil
	}
}

// Service owns the persona registry and one tool-bound chat model per
// persona. Sessions are created from it, one per conversation.
type Service struct {
	registry *persona.Registry
	models   map[string]model.ChatModel
	cfg      config.AgentConfig
}

// NewService binds each persona's toolset to its own chat model instance.
// Personas carry distinct toolsets, so they cannot share a bound model.
func NewService(ctx context.Context, registry *persona.Registry, factory ModelFactory, cfg config.AgentConfig) (*Service, error) {
	models := make(map[string]model.ChatModel)
	for _, p := range registry.List() {
		infos, err := toolInfos(p.Tools)
		if err != nil {
			return nil, fmt.Errorf("persona %s: %w", p.Name, err)
		}
		cm, err := factory(ctx, infos)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model for persona %s: %w", p.Name, err)
		}
		models[p.Name] = cm
	}

	return &Service{registry: registry, models: models, cfg: cfg}, nil
}

// Registry returns the persona registry backing this service.
func (s *Service) Registry() *persona.Registry {
	return s.registry
}
