package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ridewell/import-service/config"
	"github.com/ridewell/import-service/internal/telemetry"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgFile           string
	cfg               *config.Config
	logger            *zerolog.Logger
	telemetryShutdown func(context.Context) error
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "import-service",
	Short: "Import Service CLI - Partner export ingestion tool",
	Long: `A CLI tool for importing CSV and XLSX exports from partner reservation
systems and ad platforms. Files are column-mapped, normalized into booking,
revenue, receivable, payout, affiliate, fleet, and ad-spend records, and
deduplicated against previously committed imports.`,
	PersistentPreRunE: persistentPreRun,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// Config is optional for some commands, don't fail here
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
}

// persistentPreRun runs before each command and initializes dependencies
func persistentPreRun(cmd *cobra.Command, args []string) error {
	// Skip initialization for commands that don't need config
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	// Initialize logger (use console format for CLI)
	logger = initLogger()

	// Telemetry is a noop unless OTEL_EXPORTER_OTLP_ENDPOINT is set
	shutdown, err := telemetry.Init(cmd.Context(), telemetry.GetConfigFromEnv())
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	telemetryShutdown = shutdown

	// Commands that commit to the dedup store need a database URL
	cmdNeedsDB := cmd.Name() == "import"

	if cmdNeedsDB {
		if cfg == nil {
			return fmt.Errorf("config required for %s command but not loaded", cmd.Name())
		}
		if cfg.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL not set")
		}
	}

	return nil
}

func initLogger() *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if cfg != nil && cfg.Logging.Level != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsedLevel
		}
	}

	// Always use console format for CLI
	var output io.Writer
	if cfg != nil && cfg.Logging.Format == "json" {
		output = os.Stdout
	} else {
		noColor := false
		if cfg != nil {
			noColor = cfg.Logging.NoColor
		}
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: noColor}
	}

	log := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &log
}

func main() {
	err := Execute()

	if telemetryShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if serr := telemetryShutdown(ctx); serr != nil {
			fmt.Fprintf(os.Stderr, "Warning: telemetry shutdown failed: %v\n", serr)
		}
		cancel()
	}

	if err != nil {
		os.Exit(1)
	}
}
