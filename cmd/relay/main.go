package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/campuspulse/survey-engine/pkg/config"
	"github.com/campuspulse/survey-engine/pkg/llm"
	"github.com/campuspulse/survey-engine/pkg/logging"
	"github.com/campuspulse/survey-engine/pkg/relay"
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.LoadRelay()
	if err != nil {
		log.Fatalf("Failed to load relay config: %v", err)
	}

	logger, err := logging.New(os.Getenv("ENVIRONMENT"), "info")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	client, err := llm.NewClient(&llm.Config{
		Endpoint: cfg.LLM.Endpoint,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		Timeout:  time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to create LLM client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := relay.New(cfg, client, http.DefaultClient, os.Stdin, os.Stdout, logger)
	if err := r.Run(ctx); err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
		log.Fatalf("Relay failed: %v", err)
	}
}
