package main

import (
	"context"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"travel-time-service/internal/adapters/entitystate"
	"travel-time-service/internal/config"
	"travel-time-service/internal/platform/db"
)

// statetool initializes a local development copy of the host recorder's
// states table and seeds it with the zones from the sensor file, so the
// SQL lookup can be exercised without a running host.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dsn := os.Getenv("STATE_DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("STATE_DB_DSN is required")
	}
	driver := config.Get("STATE_DB_DRIVER", "sqlite")

	stateDB, err := db.Open(driver, dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer stateDB.Close()

	log.Println("Initializing states schema...")
	if err := entitystate.InitSchema(stateDB); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}

	file, err := config.Load(config.Path())
	if err != nil {
		log.Fatal(err)
	}

	zones, err := file.ZoneStates()
	if err != nil {
		log.Fatal(err)
	}

	if err := entitystate.SeedStates(context.Background(), stateDB, zones); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}

	log.Printf("Seeded %d zone(s) driver=%s", len(zones), driver)
}
