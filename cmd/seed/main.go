// seed inserts a verified demo user with a few inbox messages into the
// local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/whisperbox/whisperbox/internal/infrastructure/postgres"
	"golang.org/x/crypto/bcrypt"
)

const (
	seedUsername = "demo"
	seedEmail    = "demo@test.local"
	seedPassword = "password123"
)

var messages = []string{
	"What's a small thing that made you smile this week?",
	"If you could instantly master one skill, what would it be?",
	"What song have you had on repeat lately?",
	"What's the best advice you've ever been given?",
	"Describe your perfect lazy Sunday.",
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set — run: direnv allow")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	// Upsert demo user, already verified so sign-in works immediately
	var userID string
	err = pool.QueryRow(ctx, `
		INSERT INTO users (
			username, email, password_hash, verify_code, verify_code_expiry,
			is_verified, is_accepting_messages
		) VALUES ($1, $2, $3, '000000', NOW(), TRUE, TRUE)
		ON CONFLICT (email) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			is_verified   = TRUE,
			updated_at    = NOW()
		RETURNING id`,
		seedUsername, seedEmail, string(hash),
	).Scan(&userID)
	if err != nil {
		log.Fatalf("upsert user: %v", err)
	}

	// Staggered timestamps so /get-messages shows a meaningful order
	var inserted int
	for i, content := range messages {
		createdAt := time.Now().Add(-time.Duration(len(messages)-i) * time.Hour)
		_, err := pool.Exec(ctx, `
			INSERT INTO messages (user_id, content, created_at)
			VALUES ($1, $2, $3)`,
			userID, content, createdAt,
		)
		if err != nil {
			log.Fatalf("insert message %d: %v", i+1, err)
		}
		inserted++
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  User:     %s / %s\n", seedEmail, seedPassword)
	fmt.Printf("  User ID:  %s\n", userID)
	fmt.Printf("  Messages: %d\n", inserted)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 — sign in (stores the session cookie):")
	fmt.Println()
	fmt.Printf("    curl -s -c /tmp/wb.jar -X POST http://localhost:8080/sign-in \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", seedEmail, seedPassword)
	fmt.Println()
	fmt.Println("  Step 2 — read the inbox:")
	fmt.Println()
	fmt.Println("    curl -s -b /tmp/wb.jar http://localhost:8080/get-messages")
	fmt.Println()
	fmt.Println("  Step 3 — send an anonymous message (no cookie needed):")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/send-message \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"username\":\"%s\",\"content\":\"Hello from the seed script!\"}'\n", seedUsername)
}
