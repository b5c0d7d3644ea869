// package main provides the entry point for the rpi-backend microservice,
// which normalizes vulnerability findings, scores them and serves the ranked
// view over REST and GraphQL.
package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/ortelius/rpi-backend/database"
	"github.com/ortelius/rpi-backend/events/modules/findings"
	"github.com/ortelius/rpi-backend/internal/api"
	"github.com/ortelius/rpi-backend/internal/engine"
	"github.com/ortelius/rpi-backend/internal/kafka"
	"github.com/ortelius/rpi-backend/internal/services"
	"github.com/ortelius/rpi-backend/util"
)

func main() {
	// Initialize database connection
	db := database.InitializeDatabase()
	logger := database.GetLogger()

	// Engine config: defaults, optionally overlaid from a YAML file
	cfg, err := engine.LoadConfig(util.GetEnvDefault("RPI_CONFIG_PATH", ""))
	if err != nil {
		log.Fatalf("Failed to load engine config: %v", err)
	}

	svc := services.NewScanService(db, cfg, logger)

	// Kafka ingestion is optional; REST remains the primary ingest path
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		producer := findings.NewRunProducer(
			strings.Split(brokers, ","),
			util.GetEnvDefault("KAFKA_RUNS_TOPIC", "rpi-run-completed"),
		)
		defer producer.Close()
		svc.Producer = producer

		go func() {
			if err := kafka.RunEventProcessor(context.Background(), svc); err != nil {
				logger.Errorf("Kafka event processor stopped: %v", err)
			}
		}()
	}

	app := api.NewFiberApp(db, svc)

	// Get port from environment or default to 3000
	port := util.GetEnvDefault("MS_PORT", "3000")

	logger.Infof("Starting server on port %s", port)
	logger.Infof("GraphQL endpoint available at /api/v1/graphql")
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
