// Command seed provisions a demo user and post for local development and
// prints the ids plus a signed bearer token for exercising the API.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/postpulse/internal/config"
	"github.com/pscheid92/postpulse/internal/database"
	"github.com/pscheid92/postpulse/internal/identity"
)

const tokenTTL = 30 * 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	users := database.NewUserRepo(pool)
	posts := database.NewPostRepo(pool)

	username := fmt.Sprintf("demo_%d", time.Now().Unix())
	user, err := users.Create(ctx, username)
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	post, err := posts.Create(ctx, user.ID, "Hello from the seed script! React away.")
	if err != nil {
		log.Fatalf("Failed to create post: %v", err)
	}

	resolver := identity.NewResolver(cfg.JWTSecret, clockwork.NewRealClock())
	token, err := resolver.Mint(user.ID, tokenTTL)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	fmt.Printf("USER_ID=%s\n", user.ID)
	fmt.Printf("POST_ID=%s\n", post.ID)
	fmt.Printf("JWT=%s\n", token)
}
