package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for survey-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values. Secrets (passwords)
// must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"debug"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Import configuration
	Import ImportConfig `yaml:"import"`

	// Query configuration
	Query QueryConfig `yaml:"query"`

	// LLM endpoint configuration
	LLM LLMConfig `yaml:"llm"`

	// Prompt template configuration
	Templates TemplatesConfig `yaml:"templates"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"survey"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"survey_engine"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// ImportConfig holds CSV import settings.
type ImportConfig struct {
	// DatasetPath is the CSV file imported by POST /students/import.
	DatasetPath string `yaml:"dataset_path" env:"DATASET_PATH" env-default:"datasets/Students_Social_Media_Addiction.csv"`
}

// QueryConfig holds read-query settings.
type QueryConfig struct {
	// MaxResults caps the row count returned by list queries.
	MaxResults int `yaml:"max_results" env:"QUERY_MAX_RESULTS" env-default:"500"`
}

// LLMConfig holds the chat-completion endpoint configuration.
// The endpoint is any OpenAI-compatible server (a local Ollama instance by default).
type LLMConfig struct {
	Endpoint       string `yaml:"endpoint" env:"LLM_ENDPOINT" env-default:"http://localhost:11434/v1"`
	Model          string `yaml:"model" env:"LLM_MODEL" env-default:"qwen2.5-coder:7b"`
	APIKey         string `yaml:"-" env:"LLM_API_KEY"` // Optional for local endpoints
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"LLM_TIMEOUT_SECONDS" env-default:"120"`
}

// TemplatesConfig holds prompt template settings.
type TemplatesConfig struct {
	// Dir is the directory holding <name>.txt prompt templates.
	Dir string `yaml:"dir" env:"TEMPLATES_DIR" env-default:"templates"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	return cfg, nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
