package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"climbing-gym/belay/internal/auth"
	"climbing-gym/belay/internal/config"
	"climbing-gym/belay/internal/db"
	"climbing-gym/belay/internal/db/repositories"
)

// Issues an access token for an existing user, for local testing against the API.
func main() {
	userID := flag.Uint("user", 0, "user id to issue the token for")
	flag.Parse()

	if *userID == 0 {
		log.Fatal("-user is required")
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	gormDB, err := db.InitPostgresORM(cfg.Postgres.DSN())
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	state, err := repositories.NewUserRepositoryGORM(gormDB).GetAuthState(context.Background(), *userID)
	if err != nil {
		log.Fatalf("load user %d: %v", *userID, err)
	}
	if !state.IsActive {
		log.Fatalf("user %d is not active", *userID)
	}

	tokens := auth.NewTokenService([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	token, expiresAt, err := tokens.Issue(*userID, state.Roles, state.TokenVersion)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}

	fmt.Println("Access token:", token)
	fmt.Println("Expires at:", expiresAt.Format("2006-01-02 15:04:05"))
}
