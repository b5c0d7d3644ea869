// Package restapi provides the main router and initialization for REST API endpoints.
package restapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"github.com/ortelius/rpi-backend/database"
	"github.com/ortelius/rpi-backend/internal/services"
	"github.com/ortelius/rpi-backend/restapi/modules/priorities"
)

// SetupRoutes configures all REST API routes and the GraphQL endpoint.
// CORS is handled globally in internal/api/fiber.go.
func SetupRoutes(app *fiber.App, db database.DBConnection, schema graphql.Schema, svc *services.ScanService) {

	// API Group /api/v1
	api := app.Group("/api/v1")

	// GraphQL Route - Mounted within the api group to inherit path prefixes
	api.Post("/graphql", GraphQLHandler(schema))

	// Ingest
	api.Post("/scan", priorities.PostScan(svc))

	// Ranked view and dashboard counters
	api.Get("/priorities", priorities.GetPriorities(db))
	api.Get("/hero-counters", priorities.GetHeroCounters(db))
	api.Get("/stats", priorities.GetStats(db))
	api.Get("/export/csv", priorities.ExportCSV(db))

	// Engine config
	api.Get("/config", priorities.GetConfig(svc))
	api.Put("/config", priorities.PutConfig(svc))

	database.GetLogger().Info("API routes initialized successfully")
}
