package main

import (
	"github.com/joho/godotenv"

	"fleetdesk-api-server/config"
	"fleetdesk-api-server/internal/api/routes"
	"fleetdesk-api-server/internal/auth"
	"fleetdesk-api-server/internal/database"
	"fleetdesk-api-server/internal/email"
	"fleetdesk-api-server/internal/logger"
	"fleetdesk-api-server/internal/ratelimit"
	"fleetdesk-api-server/internal/s3"
	"fleetdesk-api-server/internal/socket"
)

func main() {
	// .env is optional; real deployments inject environment variables.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		logger.L.Fatalf("Could not load config: %v", err)
	}

	logger.Setup(cfg.Server.LogLevel)
	auth.JwtSecret = []byte(cfg.JWT.Secret)

	db, err := database.Connect(cfg.Mongo)
	if err != nil {
		logger.L.Fatalf("Could not connect to MongoDB: %v", err)
	}

	if err := database.EnsureIndexes(db); err != nil {
		logger.L.Fatalf("Could not ensure indexes: %v", err)
	}

	if err := database.SeedAdmin(db, cfg.Seed); err != nil {
		logger.L.Fatalf("Could not seed admin user: %v", err)
	}

	s3Uploader, err := s3.NewUploader(cfg.S3)
	if err != nil {
		logger.L.Fatalf("Could not initialize S3 uploader: %v", err)
	}

	hub := socket.NewHub()
	mailer := email.NewSender(cfg.Email)
	limiter := ratelimit.New()

	router := routes.SetupRouter(cfg, db, limiter, mailer, hub, s3Uploader)

	logger.L.Infof("Starting API server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.L.Fatalf("Failed to run server: %v", err)
	}
}
