// The updater command runs one status-update broadcast: it reads every
// initiative that is not COMPLETE and publishes a status-update request
// for each to the configured SNS topic. It is meant to be invoked on a
// schedule.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/manwaring/initiative-tracker/internal/broadcast"
	"github.com/manwaring/initiative-tracker/internal/config"
	"github.com/manwaring/initiative-tracker/internal/dynamodb"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if cfg.RequestUpdateTopicARN == "" {
		slog.Error("REQUEST_UPDATE_SNS must be set")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

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

	publisher, err := broadcast.New(&awsCfg, cfg.RequestUpdateTopicARN, gateway)
	if err != nil {
		slog.Error("failed to build broadcast publisher", "error", err)
		os.Exit(1)
	}

	if _, err := publisher.Init(ctx); err != nil {
		slog.Error("failed to initialize broadcast publisher", "error", err)
		os.Exit(1)
	}

	published, err := publisher.RequestUpdates(ctx)
	if err != nil {
		slog.Error("status-update broadcast failed", "error", err)
		os.Exit(1)
	}

	slog.Info("status-update broadcast complete", "published", published)
}
