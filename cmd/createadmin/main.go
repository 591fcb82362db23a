package main

import (
	"flag"
	"log"
	"time"

	"github.com/google/uuid"

	"defnixsite/internal/config"
	"defnixsite/internal/store"
	"defnixsite/pkg/auth"
	"defnixsite/pkg/domain"
)

func main() {
	email := flag.String("email", "admin@defnix.com", "admin login email")
	password := flag.String("password", "", "admin password (required)")
	role := flag.String("role", "admin", "user role")
	configPath := flag.String("config", config.ConfigPath, "config file path")
	flag.Parse()

	if *password == "" {
		log.Fatal("password is required: -password")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	db, err := store.NewGormStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	user := domain.AdminUser{
		ID:           uuid.NewString(),
		Email:        *email,
		PasswordHash: hash,
		Role:         *role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.UpsertAdminUser(user); err != nil {
		log.Fatalf("failed to upsert admin user: %v", err)
	}
	log.Printf("admin user %s ready", *email)
}
