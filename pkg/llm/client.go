// Package llm provides OpenAI-compatible LLM client functionality.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ChatClient defines the interface for chat-completion operations.
// Use this interface for dependency injection to enable mocking in tests.
type ChatClient interface {
	// Stream sends prompt to the model and consumes the streamed completion:
	// every chunk is written to sink as it arrives and the accumulated text is
	// returned once the stream ends.
	Stream(ctx context.Context, prompt string, sink io.Writer) (string, error)

	// GetModel returns the configured model name.
	GetModel() string
}

// Client provides access to OpenAI-compatible LLM endpoints, including local
// model servers such as Ollama.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

var _ ChatClient = (*Client)(nil)

// Config holds configuration for creating an LLM client.
type Config struct {
	Endpoint string        // Base URL, e.g. "http://localhost:11434/v1"
	Model    string        // Model name, e.g. "qwen2.5-coder:7b"
	APIKey   string        // Optional for local endpoints
	Timeout  time.Duration // Bound on a single completion; zero means no bound
}

// NewClient creates a new OpenAI-compatible LLM client.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")

	return &Client{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger.Named("llm"),
	}, nil
}

// Stream performs a streaming chat completion. Each content delta is written
// to sink the moment it arrives; the concatenation of all deltas is returned
// when the model signals end-of-stream. The call is bounded by the configured
// timeout and cancels with the caller's context.
func (c *Client) Stream(ctx context.Context, prompt string, sink io.Writer) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.logger.Debug("LLM request",
		zap.String("model", c.model),
		zap.Int("prompt_len", len(prompt)))

	start := time.Now()

	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Stream: true,
	})
	if err != nil {
		c.logger.Error("Failed to create stream", zap.Error(err))
		return "", fmt.Errorf("failed to create completion stream: %w", err)
	}
	defer stream.Close()

	var builder strings.Builder
	for {
		response, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			c.logger.Error("Stream receive error", zap.Error(err))
			return "", fmt.Errorf("failed to receive stream chunk: %w", err)
		}

		if len(response.Choices) == 0 {
			continue
		}

		chunk := response.Choices[0].Delta.Content
		if chunk == "" {
			continue
		}

		builder.WriteString(chunk)
		if sink != nil {
			if _, err := sink.Write([]byte(chunk)); err != nil {
				return "", fmt.Errorf("failed to write stream chunk to sink: %w", err)
			}
		}
	}

	c.logger.Info("LLM request completed",
		zap.Int("response_len", builder.Len()),
		zap.Duration("elapsed", time.Since(start)))

	return builder.String(), nil
}

// GetModel returns the configured model name.
func (c *Client) GetModel() string {
	return c.model
}
