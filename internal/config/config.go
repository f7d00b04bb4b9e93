package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every service setting.
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Agent  AgentConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	agent, err := loadAgentConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Agent: agent}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the Ark chat model.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Enabled reports whether the required model credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel creates a model instance from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: provide ARK_API_KEY + Model, or the AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("Model")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}, nil
}

// AgentConfig describes the session runtime behavior.
type AgentConfig struct {
	// RouterPersona is the persona every conversation starts on.
	RouterPersona string
	// KeepLastN bounds the history window carried across a handoff.
	KeepLastN int
	// MaxToolSteps bounds the generate/dispatch loop within one turn.
	MaxToolSteps int
	// RealtimeModel disables handoff context injection, which is only
	// meaningful for discrete turn-based models.
	RealtimeModel bool
	// StreamResponse forwards generation deltas as they arrive.
	StreamResponse bool
	// IntentLLMEnabled turns on the LLM routing classifier; the keyword
	// heuristic remains the fallback either way.
	IntentLLMEnabled bool
	// IntentHistoryLimit bounds how much history the classifier sees.
	IntentHistoryLimit int
}

func loadAgentConfig() (AgentConfig, error) {
	stream, err := parseBoolEnv("ARK_STREAM", true)
	if err != nil {
		return AgentConfig{}, err
	}

	realtime, err := parseBoolEnv("AGENT_REALTIME_MODEL", false)
	if err != nil {
		return AgentConfig{}, err
	}

	intentEnabled, err := parseBoolEnv("AGENT_INTENT_LLM_ENABLED", false)
	if err != nil {
		return AgentConfig{}, err
	}

	keepLastN := 6
	if override, err := parseOptionalIntEnv("AGENT_KEEP_LAST_N"); err != nil {
		return AgentConfig{}, err
	} else if override != nil {
		if *override < 1 {
			keepLastN = 1
		} else {
			keepLastN = *override
		}
	}

	maxToolSteps := 5
	if override, err := parseOptionalIntEnv("AGENT_MAX_TOOL_STEPS"); err != nil {
		return AgentConfig{}, err
	} else if override != nil {
		if *override < 1 {
			maxToolSteps = 1
		} else {
			maxToolSteps = *override
		}
	}

	intentHistory := 6
	if override, err := parseOptionalIntEnv("AGENT_INTENT_HISTORY_LIMIT"); err != nil {
		return AgentConfig{}, err
	} else if override != nil {
		if *override < 1 {
			intentHistory = 1
		} else {
			intentHistory = *override
		}
	}

	return AgentConfig{
		RouterPersona:      getEnvOrDefault("AGENT_ROUTER_PERSONA", "zephyra"),
		KeepLastN:          keepLastN,
		MaxToolSteps:       maxToolSteps,
		RealtimeModel:      realtime,
		StreamResponse:     stream,
		IntentLLMEnabled:   intentEnabled,
		IntentHistoryLimit: intentHistory,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
