package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"harapan-web/pkg/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: migrate [up|drop|status]")
		os.Exit(1)
	}
	command := os.Args[1]

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "up":
		if _, err := conn.Exec(ctx, database.CreateSiteUsersTable); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("✅ site_users table created")

	case "drop":
		if _, err := conn.Exec(ctx, database.DropSiteUsersTable); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("✅ site_users table dropped")

	case "status":
		var exists bool
		if err := conn.QueryRow(ctx, database.SiteUsersExistsQuery).Scan(&exists); err != nil {
			log.Fatalf("Failed to inspect schema: %v", err)
		}
		if !exists {
			fmt.Println("site_users: not created (run `migrate up`)")
			return
		}
		var count int64
		if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM site_users").Scan(&count); err != nil {
			log.Fatalf("Failed to read site_users: %v", err)
		}
		fmt.Printf("site_users: %d rows\n", count)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Usage: migrate [up|drop|status]")
		os.Exit(1)
	}
}
