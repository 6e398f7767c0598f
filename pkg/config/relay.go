package config

import (
	"encoding/json"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// RelayConfig holds configuration for the interactive prompt relay CLI.
// Unlike the server, the relay is configured from environment variables only
// (a .env file is loaded by the relay entrypoint before reading these).
type RelayConfig struct {
	// APIBaseURL is the survey API the relay dispatches parsed model output to.
	// Model-supplied endpoints are resolved against (and confined to) this base.
	APIBaseURL string `env:"API_BASE_URL" env-default:"http://localhost:8000"`

	// TemplatesStr is a JSON-encoded array of template menu entries. The first
	// entry is the menu caption; "exit" terminates the relay loop.
	TemplatesStr string `env:"TEMPLATES" env-default:"[\"Templates:\", \"generate_docstring\", \"route_request\", \"example\", \"exit\"]"`

	// PromptOptionsStr is a JSON-encoded array of prompt source menu entries.
	PromptOptionsStr string `env:"PROMPT_OPTIONS" env-default:"[\"Prompt Options:\", \"file\", \"enter prompt\"]"`

	// PromptsDir is the fixed directory file-based prompts are read from.
	PromptsDir string `env:"PROMPTS_DIR" env-default:"files"`

	// TemplatesDir is the directory holding <name>.txt prompt templates.
	TemplatesDir string `env:"TEMPLATES_DIR" env-default:"templates"`

	LLM LLMConfig

	// Parsed menu entries (not read directly from the environment).
	Templates     []string `env:"-"`
	PromptOptions []string `env:"-"`
}

// LoadRelay reads relay configuration from the environment and decodes the
// JSON-encoded menu arrays.
func LoadRelay() (*RelayConfig, error) {
	cfg := &RelayConfig{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read relay environment: %w", err)
	}

	if err := json.Unmarshal([]byte(cfg.TemplatesStr), &cfg.Templates); err != nil {
		return nil, fmt.Errorf("TEMPLATES is not a JSON array: %w", err)
	}
	if err := json.Unmarshal([]byte(cfg.PromptOptionsStr), &cfg.PromptOptions); err != nil {
		return nil, fmt.Errorf("PROMPT_OPTIONS is not a JSON array: %w", err)
	}
	if len(cfg.Templates) < 2 {
		return nil, fmt.Errorf("TEMPLATES must contain a caption and at least one option")
	}
	if len(cfg.PromptOptions) < 2 {
		return nil, fmt.Errorf("PROMPT_OPTIONS must contain a caption and at least one option")
	}

	return cfg, nil
}
