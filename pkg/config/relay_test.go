package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRelay_Defaults(t *testing.T) {
	cfg, err := LoadRelay()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, "files", cfg.PromptsDir)
	assert.Equal(t, "templates", cfg.TemplatesDir)

	require.NotEmpty(t, cfg.Templates)
	assert.Equal(t, "Templates:", cfg.Templates[0])
	assert.Contains(t, cfg.Templates, "exit")

	require.NotEmpty(t, cfg.PromptOptions)
	assert.Equal(t, "Prompt Options:", cfg.PromptOptions[0])
	assert.Contains(t, cfg.PromptOptions, "file")
}

func TestLoadRelay_EnvOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://survey.internal:9000")
	t.Setenv("TEMPLATES", `["Pick one:", "custom", "exit"]`)

	cfg, err := LoadRelay()
	require.NoError(t, err)

	assert.Equal(t, "http://survey.internal:9000", cfg.APIBaseURL)
	assert.Equal(t, []string{"Pick one:", "custom", "exit"}, cfg.Templates)
}

func TestLoadRelay_MalformedTemplates(t *testing.T) {
	t.Setenv("TEMPLATES", `not json`)

	_, err := LoadRelay()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TEMPLATES")
}

func TestLoadRelay_TooFewEntries(t *testing.T) {
	t.Setenv("TEMPLATES", `["Templates:"]`)

	_, err := LoadRelay()
	require.Error(t, err)
}
