package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"fleetdesk-api-server/config"
	"fleetdesk-api-server/internal/auth"
	"fleetdesk-api-server/internal/logger"
	"fleetdesk-api-server/internal/models"
)

// SeedAdmin creates the bootstrap admin account if no user holds the
// configured email yet. The account is seeded pre-verified so the first
// login works without an email round trip.
func SeedAdmin(db *mongo.Database, cfg config.SeedConfig) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logger.L.Info("Admin seed not configured. Seeding skipped.")
		return nil
	}

	userCollection := db.Collection("users")

	count, err := userCollection.CountDocuments(context.Background(), bson.M{"email": cfg.AdminEmail})
	if err != nil {
		return err
	}
	if count > 0 {
		logger.L.Info("Admin already exists. Seeding skipped.")
		return nil
	}

	logger.L.Info("Admin not found. Seeding...")
	hashedPassword, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	now := time.Now()
	admin := models.User{
		Name:            "Admin",
		Email:           cfg.AdminEmail,
		Password:        hashedPassword,
		Role:            models.RoleAdmin,
		EmailVerifiedAt: &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := userCollection.InsertOne(context.Background(), admin); err != nil {
		return err
	}

	logger.L.Info("Admin seeded successfully.")
	return nil
}
