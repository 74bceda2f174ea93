package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"travel-time-service/internal/adapters/entitystate"
	"travel-time-service/internal/adapters/routing"
	"travel-time-service/internal/api"
	"travel-time-service/internal/config"
	"travel-time-service/internal/platform/db"
	"travel-time-service/internal/ports"
	"travel-time-service/internal/sensor"
)

// main is the application composition root. It wires concrete adapters
// (HERE routing, entity state lookup) behind ports and starts the
// scheduler plus the HTTP surface.
func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string
	var envFile string

	root := &cobra.Command{
		Use:           "sensord",
		Short:         "Periodic travel time sensors backed by the HERE routing API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(configPath, envFile)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "sensor definition file (default $SENSORS_CONFIG_PATH or config/sensors.yaml)")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file")

	root.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Parse and validate the sensor definition file, then exit.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, cfgs, err := loadSensorFile(configPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d sensor(s)\n", len(cfgs))
			return nil
		},
	})

	return root
}

func run(configPath, envFile string) error {
	if err := godotenv.Load(envFile); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	file, cfgs, err := loadSensorFile(configPath)
	if err != nil {
		return err
	}

	appID := os.Getenv("HERE_APP_ID")
	appCode := os.Getenv("HERE_APP_CODE")
	if strings.TrimSpace(appID) == "" || strings.TrimSpace(appCode) == "" {
		return errors.New("HERE_APP_ID and HERE_APP_CODE are required")
	}

	provider, err := routing.NewHEREProvider(appID, appCode)
	if err != nil {
		return err
	}

	lookup, stateDB, err := buildLookup(file)
	if err != nil {
		return err
	}
	if stateDB != nil {
		defer stateDB.Close()
	}

	sensors := make([]*sensor.Sensor, 0, len(cfgs))
	for _, cfg := range cfgs {
		sensors = append(sensors, sensor.New(cfg, lookup, provider))
	}
	sched := sensor.NewScheduler(sensors)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	schedDone := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(schedDone)
	}()

	port := config.Get("PORT", "8080")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           api.NewRouter(sched),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening addr=:%s sensors=%d", port, len(sensors))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}

	// In-flight backend calls abort with the canceled context; no partial
	// state is published from an abandoned cycle.
	<-schedDone
	return nil
}

func loadSensorFile(configPath string) (config.File, []sensor.Config, error) {
	if configPath == "" {
		configPath = config.Path()
	}

	file, err := config.Load(configPath)
	if err != nil {
		return config.File{}, nil, err
	}

	cfgs, err := file.SensorConfigs()
	if err != nil {
		return config.File{}, nil, err
	}

	return file, cfgs, nil
}

// buildLookup picks the entity state source: the host recorder database
// when STATE_DB_DSN is set, otherwise an in-memory lookup seeded with the
// static zones from the sensor file.
func buildLookup(file config.File) (ports.EntityStateLookup, *sql.DB, error) {
	dsn := os.Getenv("STATE_DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		memory := entitystate.NewMemoryLookup()

		zones, err := file.ZoneStates()
		if err != nil {
			return nil, nil, err
		}
		for _, z := range zones {
			memory.Put(z)
		}
		return memory, nil, nil
	}

	driver := config.Get("STATE_DB_DRIVER", "sqlite")
	stateDB, err := db.Open(driver, dsn)
	if err != nil {
		return nil, nil, err
	}

	return entitystate.NewSQLLookup(stateDB), stateDB, nil
}
