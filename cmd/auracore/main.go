// Aura Core - Playback Group Coordination Engine
//
// This is the main entry point for the Aura Core application. Aura Core
// turns independent playback devices into coordinated groups:
//   - Group definitions persisted in SQLite, one virtual player each
//   - Member commands and state reports carried over MQTT
//   - Optional playback history recorded to InfluxDB
//   - REST API and WebSocket stream for user interfaces
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/openaura/aura-core/migrations"

	"github.com/openaura/aura-core/internal/api"
	"github.com/openaura/aura-core/internal/dispatch"
	"github.com/openaura/aura-core/internal/group"
	"github.com/openaura/aura-core/internal/history"
	"github.com/openaura/aura-core/internal/infrastructure/config"
	"github.com/openaura/aura-core/internal/infrastructure/database"
	"github.com/openaura/aura-core/internal/infrastructure/influxdb"
	"github.com/openaura/aura-core/internal/infrastructure/logging"
	"github.com/openaura/aura-core/internal/infrastructure/mqtt"
	"github.com/openaura/aura-core/internal/player"
	"github.com/openaura/aura-core/internal/queue"
	"github.com/openaura/aura-core/internal/tasks"
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

// taskShutdownTimeout bounds how long detached background tasks may run
// after the shutdown signal before they are abandoned.
const taskShutdownTimeout = 5 * time.Second

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
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Aura Core",
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
	db, err := database.Open(ctx, database.Config{
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

	// Initialise the player directory
	registry := player.NewRegistry()
	registry.SetLogger(log)

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log)
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

	// Member command dispatch and state ingest over the bus
	qos := byte(cfg.MQTT.QoS) // #nosec G115 -- validated 0..2 by config
	members := dispatch.NewMemberClient(mqttClient, qos, log)

	ingest := dispatch.NewStateIngest(registry, mqttClient, qos, log)
	if err := ingest.Start(); err != nil {
		return fmt.Errorf("starting state ingest: %w", err)
	}
	log.Info("state ingest started")

	// Connect to InfluxDB (optional) and attach the history recorder
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})

		recorder := history.NewRecorder(influxClient)
		registry.Observe(recorder.OnPlayerChanged)
		log.Info("playback history recording enabled")
	} else {
		log.Info("InfluxDB disabled, playback history off")
	}

	// Background task runner for detached group work (queue resumes,
	// power-off cascades)
	runner := tasks.NewRunner(log)
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), taskShutdownTimeout)
		defer shutdownCancel()
		if shutdownErr := runner.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Warn("background tasks did not finish in time", "error", shutdownErr)
		}
	}()

	// Playback queues, with positions tracked from group state reports
	queues := queue.NewManager(log)
	registry.Observe(func(id string, p *player.Player, changedKeys []string) {
		if !p.IsGroup() {
			return
		}
		for _, key := range changedKeys {
			if key == player.KeyElapsedTime {
				queues.UpdatePosition(id, p.ElapsedTime)
				return
			}
		}
	})

	// Group manager over the persisted definitions. The hooks bind each
	// running provider to its queue as the playback target.
	groupRepo := group.NewSQLiteRepository(db.DB)
	groups := group.NewManager(groupRepo, group.Deps{
		Registry: registry,
		Members:  members,
		Options:  cfg.Players,
		Queue:    queues,
		Runner:   runner,
		Logger:   log,
	}, group.Hooks{
		OnLoad: func(p *group.Provider) {
			queues.Attach(p.ID(), &queueTarget{provider: p})
		},
		OnUnload: queues.Detach,
	})
	defer func() {
		log.Info("unloading group providers")
		groups.Shutdown()
	}()

	if err := groups.LoadAll(ctx); err != nil {
		return fmt.Errorf("loading groups: %w", err)
	}

	// Start the API server
	var historyQuerier api.HistoryQuerier
	if influxClient != nil {
		historyQuerier = influxClient
	}

	apiServer, err := api.New(api.Deps{
		Config:   cfg.API,
		WS:       cfg.WebSocket,
		Security: cfg.Security,
		Logger:   log,
		Registry: registry,
		Groups:   groups,
		History:  historyQuerier,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient, apiServer); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server
	// 2. Group providers
	// 3. Background tasks
	// 4. InfluxDB (if enabled)
	// 5. MQTT
	// 6. Database

	log.Info("Aura Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses AURA_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("AURA_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//   - mqttClient: MQTT client to check
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//   - apiServer: API server to check
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client, apiServer *api.Server) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	if err := apiServer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	return nil
}

// queueTarget adapts a group provider to the queue's playback target
// interface. The queue speaks its own request type so the two packages
// stay decoupled; the conversion lives here at wiring time.
type queueTarget struct {
	provider *group.Provider
}

// PlayMedia implements queue.MediaPlayer.
func (t *queueTarget) PlayMedia(ctx context.Context, req queue.PlayRequest) error {
	return t.provider.PlayMedia(ctx, group.PlayMediaRequest{
		ItemID:       req.ItemID,
		URL:          req.URL,
		SeekPosition: req.SeekPosition,
		FadeIn:       req.FadeIn,
		FlowMode:     req.FlowMode,
	})
}
