package main

import (
	"context"
	"database/sql"
	"log"
	"net"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/campuspulse/survey-engine/pkg/config"
	"github.com/campuspulse/survey-engine/pkg/database"
	"github.com/campuspulse/survey-engine/pkg/handlers"
	"github.com/campuspulse/survey-engine/pkg/llm"
	"github.com/campuspulse/survey-engine/pkg/logging"
	"github.com/campuspulse/survey-engine/pkg/middleware"
	"github.com/campuspulse/survey-engine/pkg/repositories"
	"github.com/campuspulse/survey-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.String("llm_endpoint", cfg.LLM.Endpoint),
		zap.String("dataset", cfg.Import.DatasetPath))

	ctx := context.Background()

	// Migrations run over the stdlib driver; the pool is opened afterwards.
	migrationDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(migrationDB, cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	db, err := database.NewConnection(ctx, cfg.Database.ConnectionString(), cfg.Database.MaxConnections)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.VerifySchema(ctx, db, logger); err != nil {
		logger.Fatal("Schema verification failed", zap.Error(err))
	}

	llmClient, err := llm.NewClient(&llm.Config{
		Endpoint: cfg.LLM.Endpoint,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		Timeout:  time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	dimensionRepo := repositories.NewDimensionRepository(db)
	studentRepo := repositories.NewStudentRepository(db)

	importService := services.NewImportService(dimensionRepo, studentRepo, logger)
	queryService := services.NewQueryService(studentRepo, cfg.Query.MaxResults, logger)
	promptService := services.NewPromptService(llmClient, cfg.Templates.Dir, logger)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(cfg, logger)
	healthHandler.RegisterRoutes(mux)

	studentsHandler := handlers.NewStudentsHandler(importService, queryService, cfg.Import.DatasetPath, logger)
	studentsHandler.RegisterRoutes(mux)

	promptHandler := handlers.NewPromptHandler(promptService, logger)
	promptHandler.RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	addr := net.JoinHostPort(cfg.BindAddr, cfg.Port)
	logger.Info("Starting survey-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))

	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
