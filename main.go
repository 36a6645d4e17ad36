package main

import (
	"log"
	"time"

	"github.com/bortnikova888-creator/SupplierCheck-UK/config"
	"github.com/bortnikova888-creator/SupplierCheck-UK/database"
	"github.com/bortnikova888-creator/SupplierCheck-UK/handlers"
	"github.com/bortnikova888-creator/SupplierCheck-UK/jobs"
	"github.com/bortnikova888-creator/SupplierCheck-UK/services"
	"github.com/bortnikova888-creator/SupplierCheck-UK/shared"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load config
	cfg := config.LoadConfig()

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	// Connect to database; the handle is owned here and passed down, never
	// held in package state.
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Shared HTTP plumbing for upstream fetches
	clientFactory := shared.NewHTTPClientFactory(30 * time.Second)
	rateLimiter := shared.NewHTTPRequestRateLimiter(500 * time.Millisecond)
	fetchFn := services.NewHTTPFetchFunc(clientFactory, rateLimiter, 30*time.Second)

	// Fetch cache over Postgres
	cacheStore := services.NewPostgresCacheStore(db)
	fetchCache := services.NewFetchCacheService(cacheStore, fetchFn)

	// Core pipeline services
	normalizer := services.NewNormalizerService()
	evidence := services.NewEvidenceService()
	dossierService := services.NewDossierService(normalizer, evidence)
	riskService := services.NewRiskFlagService()
	riskConfig := &services.RiskRuleConfig{
		LookbackMonths:  cfg.GetRiskLookbackMonths(),
		ChangeThreshold: cfg.GetRiskChangeThreshold(),
	}

	rendererService, err := services.NewRendererService()
	if err != nil {
		log.Fatalf("Failed to initialize renderer: %v", err)
	}

	// Upstream connectors
	chClient := services.NewCompaniesHouseClient(fetchCache, cfg.CHAPIKey, cfg.GetCacheTTL())
	registryClient := services.NewSlaveryRegistryClient(fetchCache, normalizer, cfg.SlaveryRegistryURL, cfg.GetCacheTTL())

	logrus.WithFields(logrus.Fields{
		"cache_ttl":        cfg.GetCacheTTL(),
		"lookback_months":  riskConfig.LookbackMonths,
		"change_threshold": riskConfig.ChangeThreshold,
	}).Info("SupplierCheck services initialized")

	// Background jobs
	cleanupJob := jobs.NewCacheCleanupJob(fetchCache)

	go func() {
		cleanupTicker := time.NewTicker(12 * time.Hour)
		defer cleanupTicker.Stop()

		for range cleanupTicker.C {
			cleanupJob.Run()
		}
	}()

	// Handlers
	dossierHandler := handlers.NewDossierHandler(chClient, registryClient, dossierService, riskService, rendererService, riskConfig)
	cacheHandler := handlers.NewCacheHandler(fetchCache)

	// Setup Fiber
	app := fiber.New()

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	// Routes
	api := app.Group("/api/v1")

	// Dossier routes
	api.Get("/companies/:number/dossier", dossierHandler.GetDossier)
	api.Get("/companies/:number/dossier.html", dossierHandler.GetDossierHTML)
	api.Get("/companies/:number/dossier.pdf", dossierHandler.GetDossierPDF)

	// Cache admin routes
	api.Get("/cache/stats", cacheHandler.Stats)
	api.Post("/cache/cleanup", cacheHandler.CleanExpired)
	api.Delete("/cache", cacheHandler.Clear)

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
