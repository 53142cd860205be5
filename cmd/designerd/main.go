// ESPHome dashboard designer daemon.
//
// This is the main entry point for the designer service. It persists
// dashboard layouts, consumes the Home Assistant MQTT statestream for
// live entity state, serves the editor's REST/WebSocket API, and compiles
// layouts into ESPHome YAML snippets.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/esphome-dash/designer-core/migrations"

	"github.com/esphome-dash/designer-core/internal/adapter"
	"github.com/esphome-dash/designer-core/internal/api"
	"github.com/esphome-dash/designer-core/internal/control"
	"github.com/esphome-dash/designer-core/internal/infrastructure/config"
	"github.com/esphome-dash/designer-core/internal/infrastructure/database"
	"github.com/esphome-dash/designer-core/internal/infrastructure/logging"
	"github.com/esphome-dash/designer-core/internal/infrastructure/mqtt"
	"github.com/esphome-dash/designer-core/internal/preview"
	"github.com/esphome-dash/designer-core/internal/project"
	"github.com/esphome-dash/designer-core/internal/statestream"
	"github.com/esphome-dash/designer-core/internal/transform"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error { //nolint:gocognit // Startup sequence: each step is linear wiring with cleanup
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting designer",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Initialise repositories and the control registry
	projectRepo := project.NewSQLiteRepository(db.DB)

	controlRegistry := control.NewRegistry(control.NewSQLiteRepository(db.DB))
	controlRegistry.SetLogger(log)
	if refreshErr := controlRegistry.RefreshCache(ctx); refreshErr != nil {
		return fmt.Errorf("loading control registry: %w", refreshErr)
	}
	log.Info("control registry initialised")

	// Transform registry drives binding resolution, preview, and compilation
	transforms := transform.NewRegistry()
	adapters := adapter.NewRegistry()

	// Connect to the MQTT broker. The designer degrades gracefully without
	// it: layout editing and snippet export work, live preview stays silent.
	var mqttClient *mqtt.Client
	mqttClient, err = mqtt.Connect(cfg.MQTT)
	if err != nil {
		log.Warn("MQTT unavailable, live preview disabled", "error", err)
		mqttClient = nil
	} else {
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	}

	// Statestream snapshot store. Retained statestream messages replay the
	// full entity population as soon as the consumer subscribes.
	store := statestream.NewStore()
	if mqttClient != nil {
		consumer := statestream.NewConsumer(mqttClient, store, cfg.HomeAssistant, cfg.MQTT.QoS, log)
		if startErr := consumer.Start(); startErr != nil {
			return fmt.Errorf("subscribing to statestream: %w", startErr)
		}
		defer func() {
			log.Info("stopping statestream consumer")
			if stopErr := consumer.Stop(); stopErr != nil {
				log.Error("error stopping statestream consumer", "error", stopErr)
			}
		}()
		log.Info("statestream consumer started",
			"prefix", cfg.HomeAssistant.StatestreamPrefix,
			"domains", cfg.HomeAssistant.Domains,
		)
	}

	// WebSocket hub is shared between the API server and the preview
	// engine, so it is created here and injected into both.
	hub := api.NewHub(cfg.WebSocket, log)
	go hub.Run(ctx)

	// Preview engine re-evaluates read bindings on entity changes and
	// publishes resolved values through the hub.
	engine := preview.NewEngine(store, transforms, hub.PublishPreview, log)
	if layout, layoutErr := projectRepo.GetDefault(ctx); layoutErr != nil {
		log.Warn("failed to load working layout for preview", "error", layoutErr)
	} else {
		engine.SetLayout(controlRegistry.ExpandProject(ctx, layout))
	}
	engine.Start()
	defer engine.Stop()
	log.Info("preview engine started")

	// Start the API server
	apiServer, err := api.New(api.Deps{
		Config:      cfg.API,
		WS:          cfg.WebSocket,
		Security:    cfg.Security,
		Logger:      log,
		Projects:    projectRepo,
		Controls:    controlRegistry,
		Store:       store,
		Preview:     engine,
		Transforms:  transforms,
		Adapters:    adapters,
		ExternalHub: hub,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := apiServer.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port))

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, apiServer); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. Preview engine
	// 3. Statestream consumer
	// 4. MQTT
	// 5. Database

	log.Info("designer stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses DESIGNER_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("DESIGNER_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, apiServer *api.Server) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	// MQTT is optional
	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if err := apiServer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	return nil
}
