package services

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/campuspulse/survey-engine/pkg/llm"
	"github.com/campuspulse/survey-engine/pkg/prompts"
)

// PromptService renders a named template around a caller prompt and relays it
// to the model, streaming chunks to the sink as they arrive.
type PromptService interface {
	Relay(ctx context.Context, templateName, prompt string, sink io.Writer) (string, error)
}

type promptService struct {
	client       llm.ChatClient
	templatesDir string
	logger       *zap.Logger
}

// NewPromptService creates a new prompt service with dependencies.
func NewPromptService(client llm.ChatClient, templatesDir string, logger *zap.Logger) PromptService {
	return &promptService{
		client:       client,
		templatesDir: templatesDir,
		logger:       logger.Named("prompt"),
	}
}

func (s *promptService) Relay(ctx context.Context, templateName, prompt string, sink io.Writer) (string, error) {
	rendered, err := prompts.Render(s.templatesDir, templateName, map[string]string{
		"prompt": prompt,
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("Relaying prompt",
		zap.String("template", templateName),
		zap.String("model", s.client.GetModel()),
		zap.Int("prompt_len", len(rendered)))

	return s.client.Stream(ctx, rendered, sink)
}
