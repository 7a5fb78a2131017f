package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/toldwithlove/toldwithlove/internal/config"
	"github.com/toldwithlove/toldwithlove/internal/observability"
)

var envInfoCmd = &cobra.Command{
	Use:   "envinfo",
	Short: "Display environment information",
	Long:  "Display comprehensive environment, configuration, and version information.",
	Run: func(cmd *cobra.Command, args []string) {
		version := crucible.GetVersion()

		observability.CLILogger.Info("=== Told with Love Environment Information ===")
		observability.CLILogger.Info("")

		// Application Info
		identity := GetAppIdentity()
		observability.CLILogger.Info("Application:")
		observability.CLILogger.Info("  Name:       " + identity.BinaryName)
		observability.CLILogger.Info("  Version:    " + versionInfo.Version)
		observability.CLILogger.Info("  Commit:     " + versionInfo.Commit)
		observability.CLILogger.Info("  Built:      " + versionInfo.BuildDate)
		observability.CLILogger.Info("")

		// SSOT Info
		observability.CLILogger.Info("SSOT:")
		observability.CLILogger.Info("  Gofulmen:   "+version.Gofulmen, zap.String("gofulmen_version", version.Gofulmen))
		observability.CLILogger.Info("  Crucible:   "+version.Crucible, zap.String("crucible_version", version.Crucible))
		observability.CLILogger.Info("")

		// Runtime Info
		observability.CLILogger.Info("Runtime:")
		observability.CLILogger.Info("  Go Version: "+runtime.Version(), zap.String("go_version", runtime.Version()))
		observability.CLILogger.Info("  GOOS:       "+runtime.GOOS, zap.String("goos", runtime.GOOS))
		observability.CLILogger.Info("  GOARCH:     "+runtime.GOARCH, zap.String("goarch", runtime.GOARCH))
		observability.CLILogger.Info(fmt.Sprintf("  NumCPU:     %d", runtime.NumCPU()), zap.Int("num_cpu", runtime.NumCPU()))
		observability.CLILogger.Info("")

		cfg, err := config.Load(cmd.Context())
		if err != nil {
			observability.CLILogger.Warn("Config load failed", zap.Error(err))
			return
		}

		// Configuration
		observability.CLILogger.Info("Configuration:")
		observability.CLILogger.Info("  Server Host:    "+cfg.Server.Host, zap.String("host", cfg.Server.Host))
		observability.CLILogger.Info(fmt.Sprintf("  Server Port:    %d", cfg.Server.Port), zap.Int("port", cfg.Server.Port))
		observability.CLILogger.Info("  Log Level:      "+cfg.Logging.Level, zap.String("log_level", cfg.Logging.Level))
		observability.CLILogger.Info("  Log Profile:    "+cfg.Logging.Profile, zap.String("log_profile", cfg.Logging.Profile))
		observability.CLILogger.Info("  DB Driver:      "+cfg.Store.Driver, zap.String("db_driver", cfg.Store.Driver))
		if strings.TrimSpace(cfg.Store.URL) != "" {
			observability.CLILogger.Info("  DB URL:         "+cfg.Store.URL, zap.String("db_url", cfg.Store.URL))
		} else {
			observability.CLILogger.Info("  DB Path:        "+cfg.Store.Path, zap.String("db_path", cfg.Store.Path))
		}
		observability.CLILogger.Info(fmt.Sprintf("  Metrics Port:   %d", cfg.Metrics.Port), zap.Int("metrics_port", cfg.Metrics.Port))
		observability.CLILogger.Info("  Config File:    "+config.DefaultConfigPath(), zap.String("config_file", config.DefaultConfigPath()))
		observability.CLILogger.Info("")

		// Generation provider
		observability.CLILogger.Info("Generation:")
		observability.CLILogger.Info("  Provider:       " + cfg.GenAI.Provider)
		observability.CLILogger.Info("  Model:          " + cfg.GenAI.Model)
		observability.CLILogger.Info(fmt.Sprintf("  Max Tokens:     %d", cfg.GenAI.MaxTokens))
		observability.CLILogger.Info(fmt.Sprintf("  Temperature:    %.2f", cfg.GenAI.Temperature))
		observability.CLILogger.Info("  Timeout:        " + cfg.GenAI.Timeout.String())
		if strings.TrimSpace(cfg.GenAI.APIKey) != "" {
			observability.CLILogger.Info("  API Key:        (set)")
		} else {
			observability.CLILogger.Info("  API Key:        (not set)")
		}
		observability.CLILogger.Info("")

		// Delivery
		observability.CLILogger.Info("Delivery:")
		observability.CLILogger.Info("  Base URL:       " + cfg.Delivery.BaseURL)
		observability.CLILogger.Info("  Mirror Dir:     " + cfg.Delivery.MirrorDir)
		observability.CLILogger.Info(fmt.Sprintf("  PDF Enabled:    %t", cfg.Delivery.PDFEnabled))
		observability.CLILogger.Info(fmt.Sprintf("  Capacity:       %d", cfg.Delivery.ArtifactCapacity))
		observability.CLILogger.Info("")

		// Billing
		observability.CLILogger.Info("Billing:")
		observability.CLILogger.Info(fmt.Sprintf("  Enabled:        %t", cfg.Billing.Enabled), zap.Bool("billing_enabled", cfg.Billing.Enabled))
		if cfg.Billing.Enabled {
			if strings.TrimSpace(cfg.Billing.SecretKey) != "" {
				observability.CLILogger.Info("  Secret Key:     (set)")
			} else {
				observability.CLILogger.Info("  Secret Key:     (not set)")
			}
			if strings.TrimSpace(cfg.Billing.WebhookSecret) != "" {
				observability.CLILogger.Info("  Webhook Secret: (set)")
			} else {
				observability.CLILogger.Info("  Webhook Secret: (not set)")
			}
		}
		observability.CLILogger.Info("")

		observability.CLILogger.Info("=== End Environment Information ===")
	},
}

func init() {
	rootCmd.AddCommand(envInfoCmd)
}
