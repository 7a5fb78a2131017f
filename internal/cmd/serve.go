package cmd

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/fulmenhq/gofulmen/signals"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/toldwithlove/toldwithlove/internal/artifact"
	"github.com/toldwithlove/toldwithlove/internal/billing"
	"github.com/toldwithlove/toldwithlove/internal/config"
	errwrap "github.com/toldwithlove/toldwithlove/internal/errors"
	"github.com/toldwithlove/toldwithlove/internal/genai"
	"github.com/toldwithlove/toldwithlove/internal/intake"
	"github.com/toldwithlove/toldwithlove/internal/observability"
	"github.com/toldwithlove/toldwithlove/internal/server"
	"github.com/toldwithlove/toldwithlove/internal/server/handlers"
	"github.com/toldwithlove/toldwithlove/internal/store"
)

var (
	serverPort int
	serverHost string
)

// signalHealthChecker implements HealthChecker for signal system
type signalHealthChecker struct{}

func (s signalHealthChecker) CheckHealth(ctx context.Context) error {
	// Check if signal system is responsive
	// This is a basic check - in production you might want more sophisticated checks
	return nil // Signal handlers are registered and ready
}

// telemetryHealthChecker ensures telemetry system and exporter are available
type telemetryHealthChecker struct{}

func (telemetryHealthChecker) CheckHealth(ctx context.Context) error {
	if observability.TelemetrySystem == nil || observability.PrometheusExporter == nil {
		return errwrap.NewInternalError("telemetry system not initialized")
	}
	return nil
}

// identityHealthChecker validates app identity metadata
type identityHealthChecker struct {
	binaryName string
	envPrefix  string
	configName string
}

func (i identityHealthChecker) CheckHealth(ctx context.Context) error {
	switch {
	case i.binaryName == "":
		return errwrap.NewConfigInvalidError("app identity missing binary name")
	case i.envPrefix == "":
		return errwrap.NewConfigInvalidError("app identity missing env prefix")
	case i.configName == "":
		return errwrap.NewConfigInvalidError("app identity missing config name")
	}
	return nil
}

// storeHealthChecker pings the story database.
type storeHealthChecker struct {
	db *store.Store
}

func (s storeHealthChecker) CheckHealth(ctx context.Context) error {
	if s.db == nil {
		return errwrap.NewInternalError("story store not initialized")
	}
	return s.db.Ping(ctx)
}

// generatorHealthChecker verifies the completion provider is configured.
type generatorHealthChecker struct {
	generator *genai.Generator
}

func (g generatorHealthChecker) CheckHealth(ctx context.Context) error {
	if g.generator == nil {
		return errwrap.NewConfigInvalidError("completion provider not configured")
	}
	return nil
}

// mirrorHealthChecker confirms the submission mirror directory is writable.
type mirrorHealthChecker struct {
	mirror *artifact.Mirror
}

func (m mirrorHealthChecker) CheckHealth(ctx context.Context) error {
	if m.mirror == nil {
		return errwrap.NewInternalError("submission mirror not initialized")
	}
	probe, err := os.CreateTemp(m.mirror.Dir(), ".probe-*")
	if err != nil {
		return errwrap.WrapStorageError(ctx, err, "submission mirror not writable")
	}
	name := probe.Name()
	_ = probe.Close()
	return os.Remove(name)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server with graceful shutdown support.

Signal Handling:
  • Ctrl+C (SIGINT) or SIGTERM: Graceful shutdown
  • Ctrl+C twice within 2s: Force quit
  • SIGHUP: Config reload (placeholder - restart recommended)

The server will cleanly shut down the HTTP server and flush logs on shutdown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Get app identity for telemetry namespace
		identity := GetAppIdentity()
		namespace := identity.TelemetryNamespace()

		// Initialize server logger with namespace
		logLevel := viper.GetString("logging.level")
		observability.InitServerLogger(identity.BinaryName, logLevel, namespace)

		cfg, err := config.Load(ctx)
		if err != nil {
			observability.ServerLogger.Error("Failed to load configuration", zap.Error(err))
			return errwrap.WrapConfigInvalid(ctx, err, "configuration load failed")
		}
		if cmd.Flags().Changed("host") {
			cfg.Server.Host = serverHost
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}

		metricsPort := cfg.Metrics.Port
		if metricsPort == 0 {
			metricsPort = 9090
		}

		// Initialize metrics with namespace
		if err := observability.InitMetrics(identity.BinaryName, metricsPort, namespace); err != nil {
			observability.ServerLogger.Error("Failed to initialize metrics",
				zap.Error(err))
			return errwrap.WrapInternal(ctx, err, "metrics initialization failed")
		}

		observability.ServerLogger.Info("Initializing server",
			zap.String("service", identity.BinaryName),
			zap.String("namespace", namespace),
			zap.String("version", versionInfo.Version),
			zap.String("host", cfg.Server.Host),
			zap.Int("port", cfg.Server.Port),
			zap.Int("metrics_port", metricsPort))

		// Open the story database and run migrations
		db, err := store.Open(ctx, cfg.Store)
		if err != nil {
			observability.ServerLogger.Error("Failed to open story store", zap.Error(err))
			return errwrap.WrapStorageError(ctx, err, "story store open failed")
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			observability.ServerLogger.Error("Failed to migrate story store", zap.Error(err))
			return errwrap.WrapStorageError(ctx, err, "story store migration failed")
		}

		// Completion provider
		generator, err := genai.New(cfg.GenAI, observability.ServerLogger)
		if err != nil {
			_ = db.Close()
			observability.ServerLogger.Error("Failed to configure completion provider", zap.Error(err))
			return errwrap.WrapConfigInvalid(ctx, err, "completion provider configuration failed")
		}

		// Field mapping rules for incoming form submissions
		rules, err := intake.DefaultRules()
		if err != nil {
			_ = db.Close()
			return errwrap.WrapConfigInvalid(ctx, err, "field mapping rules failed to load")
		}

		// In-memory artifact store plus on-disk submission mirror
		capacity := cfg.Delivery.ArtifactCapacity
		if capacity == 0 {
			capacity = artifact.DefaultCapacity
		}
		artifacts := artifact.NewStore(capacity)

		mirror, err := artifact.NewMirror(cfg.Delivery.MirrorDir)
		if err != nil {
			_ = db.Close()
			observability.ServerLogger.Error("Failed to prepare submission mirror", zap.Error(err))
			return errwrap.WrapStorageError(ctx, err, "submission mirror setup failed")
		}

		// Stripe billing is optional; the webhook and billing routes only
		// exist when it is configured.
		var billingSvc *billing.Service
		if cfg.Billing.Enabled {
			billingSvc, err = billing.NewService(cfg.Billing, db, observability.ServerLogger)
			if err != nil {
				_ = db.Close()
				observability.ServerLogger.Error("Failed to configure billing", zap.Error(err))
				return errwrap.WrapConfigInvalid(ctx, err, "billing configuration failed")
			}
			observability.ServerLogger.Info("Stripe billing enabled")
		}

		// Initialize health manager
		handlers.InitHealthManager(versionInfo.Version)
		hm := handlers.GetHealthManager()
		hm.RegisterChecker("signal_handlers", signalHealthChecker{})
		hm.RegisterChecker("telemetry", telemetryHealthChecker{})
		hm.RegisterChecker("story_store", storeHealthChecker{db: db})
		hm.RegisterChecker("generator", generatorHealthChecker{generator: generator})
		hm.RegisterChecker("submission_mirror", mirrorHealthChecker{mirror: mirror})
		hm.RegisterChecker("app_identity", identityHealthChecker{
			binaryName: identity.BinaryName,
			envPrefix:  identity.EnvPrefix,
			configName: identity.ConfigName,
		})

		// Create server
		srv := server.New(cfg.Server.Host, cfg.Server.Port, server.Deps{
			Rules:     rules,
			Generator: generator,
			Artifacts: artifacts,
			Mirror:    mirror,
			DB:        db,
			Billing:   billingSvc,
			BaseURL:   cfg.Delivery.BaseURL,

			DisablePDF: !cfg.Delivery.PDFEnabled,
		})

		// Set app identity for handlers
		handlers.SetAppIdentity(identity)

		// Get shutdown timeout from config
		shutdownTimeout := cfg.Server.ShutdownTimeout
		if shutdownTimeout == 0 {
			shutdownTimeout = 10 * time.Second
		}

		// Register graceful shutdown handlers (LIFO order - last registered, first executed)
		// Handler 1: Flush logger (executed last)
		signals.OnShutdown(func(ctx context.Context) error {
			observability.ServerLogger.Info("Flushing logger...")
			if err := observability.ServerLogger.Sync(); err != nil {
				// Sync errors are often benign (stdout/stderr already closed)
				observability.ServerLogger.Warn("Logger sync returned error (may be benign)",
					zap.Error(err))
			}
			return nil
		})

		// Handler 2: Close story store
		signals.OnShutdown(func(ctx context.Context) error {
			observability.ServerLogger.Info("Closing story store...")
			if err := db.Close(); err != nil {
				observability.ServerLogger.Warn("Story store close returned error", zap.Error(err))
			}
			return nil
		})

		// Handler 3: Shutdown HTTP server (executed first)
		signals.OnShutdown(func(ctx context.Context) error {
			observability.ServerLogger.Info("Shutting down HTTP server...")
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return errwrap.WrapInternal(ctx, err, "server shutdown failed")
			}

			observability.ServerLogger.Info("HTTP server stopped gracefully")
			return nil
		})

		// Register config reload handler (SIGHUP)
		signals.OnReload(func(ctx context.Context) error {
			observability.ServerLogger.Info("Received SIGHUP: attempting config reload")

			// Attempt to reload configuration
			if err := viper.ReadInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); ok {
					observability.ServerLogger.Info("No config file found - using defaults and environment variables")
					return nil
				}
				observability.ServerLogger.Error("Failed to reload config file",
					zap.String("file", viper.ConfigFileUsed()),
					zap.Error(err))
				return errwrap.WrapConfigInvalid(ctx, err, "config reload failed")
			}

			observability.ServerLogger.Info("Configuration reloaded successfully",
				zap.String("file", viper.ConfigFileUsed()))

			// TODO: react to log level changes without a restart
			return nil
		})

		// Enable double-tap force quit (Ctrl+C within 2 seconds)
		if err := signals.EnableDoubleTap(signals.DoubleTapConfig{
			Window:  2 * time.Second,
			Message: "Press Ctrl+C again within 2 seconds to force quit",
		}); err != nil {
			observability.ServerLogger.Warn("Failed to enable double-tap force quit",
				zap.Error(err))
		}

		// Start server in background goroutine
		errChan := make(chan error, 1)
		go func() {
			observability.ServerLogger.Info("Starting HTTP server...",
				zap.String("host", cfg.Server.Host),
				zap.Int("port", cfg.Server.Port))
			if err := srv.Start(); err != nil && err != http.ErrServerClosed {
				errChan <- err
			}
		}()

		// Start signal listener in background
		go func() {
			if err := signals.Listen(cmd.Context()); err != nil {
				observability.ServerLogger.Error("Signal handler error", zap.Error(err))
				errChan <- err
			}
		}()

		// Wait for error or shutdown completion
		if err := <-errChan; err != nil {
			return errwrap.WrapInternal(cmd.Context(), err, "server error")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "localhost", "server host")
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "server port")

	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}
