package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/campuspulse/survey-engine/pkg/apperrors"
)

// mockChatClient streams its canned chunks to the sink.
type mockChatClient struct {
	chunks         []string
	err            error
	capturedPrompt string
}

func (m *mockChatClient) Stream(ctx context.Context, prompt string, sink io.Writer) (string, error) {
	m.capturedPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	var all string
	for _, chunk := range m.chunks {
		all += chunk
		if sink != nil {
			if _, err := sink.Write([]byte(chunk)); err != nil {
				return "", err
			}
		}
	}
	return all, nil
}

func (m *mockChatClient) GetModel() string { return "test-model" }

func TestPromptService_Relay(t *testing.T) {
	dir := t.TempDir()
	template := "Answer the following:\n${prompt}\n"
	if err := os.WriteFile(filepath.Join(dir, "example.txt"), []byte(template), 0o644); err != nil {
		t.Fatal(err)
	}

	client := &mockChatClient{chunks: []string{"hel", "lo"}}
	service := NewPromptService(client, dir, zap.NewNop())

	var sink bytes.Buffer
	got, err := service.Relay(context.Background(), "example", "what is up?", &sink)
	if err != nil {
		t.Fatalf("Relay failed: %v", err)
	}

	if got != "hello" {
		t.Errorf("expected accumulated response, got %q", got)
	}
	if sink.String() != "hello" {
		t.Errorf("expected chunks in sink, got %q", sink.String())
	}
	if client.capturedPrompt != "Answer the following:\nwhat is up?\n" {
		t.Errorf("unexpected rendered prompt: %q", client.capturedPrompt)
	}
}

func TestPromptService_TemplateNotFound(t *testing.T) {
	service := NewPromptService(&mockChatClient{}, t.TempDir(), zap.NewNop())

	_, err := service.Relay(context.Background(), "missing", "hi", io.Discard)
	if err == nil {
		t.Fatal("expected error for missing template")
	}
	if !errors.Is(err, apperrors.ErrTemplateNotFound) {
		t.Errorf("expected ErrTemplateNotFound, got: %v", err)
	}
}

func TestPromptService_StreamError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "example.txt"), []byte("${prompt}"), 0o644); err != nil {
		t.Fatal(err)
	}

	client := &mockChatClient{err: errors.New("model unavailable")}
	service := NewPromptService(client, dir, zap.NewNop())

	_, err := service.Relay(context.Background(), "example", "hi", io.Discard)
	if err == nil {
		t.Fatal("expected error from stream")
	}
}
