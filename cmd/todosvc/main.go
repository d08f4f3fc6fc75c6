package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/crumbworks/todosvc/internal/config"
	"github.com/crumbworks/todosvc/internal/database"
	"github.com/crumbworks/todosvc/internal/logging"
	"github.com/crumbworks/todosvc/internal/web"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI flags
var (
	port      int
	bind      string
	dbPath    string
	logFile   string
	verbosity int

	dbMaxConns      int
	dbTimeout       time.Duration
	maintenanceSpec string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "todosvc",
		Short:         "todosvc - users/todos CRUD API server",
		Long:          `todosvc is a small HTTP service exposing CRUD operations over users and their todos, backed by SQLite.`,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Flags
	rootCmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP server port (required, or set PORT env var)")
	rootCmd.Flags().StringVarP(&bind, "bind", "b", "", "IP address to bind to (e.g., 127.0.0.1, 0.0.0.0)")
	rootCmd.Flags().StringVarP(&dbPath, "db", "d", config.DefaultDBPath, "SQLite database path (or set DB_PATH env var)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Log file path (defaults to a file next to the database)")
	rootCmd.Flags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")

	// Advanced database flags
	rootCmd.Flags().IntVar(&dbMaxConns, "db-max-conns", config.DefaultMaxOpenConns, "Maximum open database connections")
	rootCmd.Flags().DurationVar(&dbTimeout, "db-timeout", config.DefaultStatementTimeout, "Timeout per database statement, including the wait for a pooled connection")
	rootCmd.Flags().StringVar(&maintenanceSpec, "maintenance", "@daily", "Cron schedule for database maintenance (empty to disable)")

	// Version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("todosvc %s (commit: %s, built: %s)\n", version, commit, date)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	config.LoadEnvFile()

	// Check for PORT env var if flag not set
	if port == 0 {
		if envPort := os.Getenv("PORT"); envPort != "" {
			p, err := strconv.Atoi(envPort)
			if err != nil {
				return fmt.Errorf("invalid PORT environment variable %q: %w", envPort, err)
			}
			port = p
		}
	}

	// Check for DB_PATH env var if using default
	if dbPath == config.DefaultDBPath {
		if envDB := os.Getenv("DB_PATH"); envDB != "" {
			dbPath = envDB
		}
	}

	cfg := config.New()
	cfg.Port = port
	cfg.DBPath = dbPath
	cfg.LogFile = logFile
	cfg.MaxOpenConns = dbMaxConns
	cfg.StatementTimeout = dbTimeout
	cfg.MaintenanceSchedule = maintenanceSpec
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.LogFile == "" {
		cfg.LogFile = logging.FilePathForDB(cfg.DBPath)
	}
	logging.Apply(verbosity, cfg.LogFile)

	log.Info().
		Str("version", version).
		Int("port", cfg.Port).
		Str("bind", bind).
		Str("database", cfg.DBPath).
		Msg("Starting todosvc")

	// Initialize database
	opts := database.DefaultOptions()
	opts.MaxOpenConns = cfg.MaxOpenConns
	opts.MaxIdleConns = cfg.MaxIdleConns
	db, err := database.Open(cfg.DBPath, opts)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize database")
		return err
	}
	defer db.Close()

	// Schema bootstrap is fatal: do not serve without the tables
	if err := db.Migrate(); err != nil {
		log.Error().Err(err).Msg("Failed to run database migrations")
		return err
	}

	// Periodic maintenance
	maintenance := database.NewMaintenance(db, cfg.MaintenanceSchedule)
	if started, err := maintenance.Start(); err != nil {
		log.Error().Err(err).Msg("Failed to start database maintenance")
		return err
	} else if !started {
		log.Debug().Msg("Database maintenance disabled")
	} else {
		defer maintenance.Stop()
	}

	server := web.NewServer(db, cfg.Port, bind, cfg.StatementTimeout)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		log.Error().Err(err).Msg("Server error")
		return err
	}

	log.Info().Msg("todosvc stopped")
	return nil
}
