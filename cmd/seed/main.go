package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/oksasatya/go-microblog/config"
	"github.com/oksasatya/go-microblog/internal/domain/entity"
	repo "github.com/oksasatya/go-microblog/internal/domain/repository"
	"github.com/oksasatya/go-microblog/internal/infrastructure/sqlite"
	"github.com/oksasatya/go-microblog/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if err := os.MkdirAll(cfg.StorageDir, 0o755); err != nil {
		log.Fatalf("failed to create storage dir: %v", err)
	}

	store, err := sqlite.NewUserRepository(cfg.StorageDir)
	if err != nil {
		log.Fatalf("failed to open credential store: %v", err)
	}
	defer func() { _ = store.Close() }()

	email := "demo@example.com"
	password := "password123"
	displayName := "demoUser"

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	u := &entity.User{
		UUID:        uuid.NewString(),
		Email:       email,
		Password:    hash,
		DisplayName: displayName,
	}
	if err := store.Create(u); err != nil {
		if errors.Is(err, repo.ErrEmailExists) || errors.Is(err, repo.ErrDisplayNameExists) {
			fmt.Printf("demo user already seeded: email=%s\n", email)
			return
		}
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: uuid=%s email=%s displayName=%s password=%s\n", u.UUID, email, displayName, password)
}
