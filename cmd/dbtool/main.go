package main

import (
	"database/sql"
	"log"
	"strings"
	"transit-map-service/internal/adapters/repositories"
	"transit-map-service/internal/config"
	"transit-map-service/internal/platform/db"

	"github.com/joho/godotenv"
)

// dbtool prepares the Postgres address cache used when DATABASE_URL is set.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := initSchema(conn); err != nil {
		log.Fatal(err)
	}
}

func initSchema(conn *sql.DB) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitPostgresSchema(conn); err != nil {
		return err
	}
	log.Println("Schema ready.")
	return nil
}
