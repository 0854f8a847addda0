package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/manwaring/initiative-tracker/internal/api"
	"github.com/manwaring/initiative-tracker/internal/config"
	"github.com/manwaring/initiative-tracker/internal/dynamodb"
	"github.com/manwaring/initiative-tracker/internal/engine"
	"github.com/manwaring/initiative-tracker/internal/slackapi"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	if cfg.SlackBotToken == "" || cfg.SlackSigningSecret == "" {
		slog.Error("SLACK_BOT_TOKEN and SLACK_SIGNING_SECRET must be set")
		os.Exit(1)
	}

	ctx := context.Background()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		slog.Error("failed to load AWS configuration", "error", err)
		os.Exit(1)
	}

	gateway := dynamodb.New(&awsCfg, cfg.InitiativesTable,
		dynamodb.WithStatusIndexName(cfg.StatusIndex),
		dynamodb.WithTypeIndexName(cfg.TypeIndex),
	)
	if err := gateway.Connect(); err != nil {
		slog.Error("failed to connect to DynamoDB", "error", err)
		os.Exit(1)
	}
	if err := gateway.Init(ctx, cfg.SkipSchemaCheck); err != nil {
		slog.Error("table schema validation failed", "table", cfg.InitiativesTable, "error", err)
		os.Exit(1)
	}

	slack := slackapi.New(cfg.SlackBotToken)

	eng, err := engine.New(gateway, slack)
	if err != nil {
		slog.Error("failed to build transition engine", "error", err)
		os.Exit(1)
	}

	router := api.NewRouter(api.RouterDeps{
		Engine:        eng,
		Replier:       slack,
		SigningSecret: cfg.SlackSigningSecret,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting initiative tracker", "port", cfg.Port, "table", cfg.InitiativesTable)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
