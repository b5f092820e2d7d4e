package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/singularsity/synthd/internal/config"
	"github.com/singularsity/synthd/internal/dispatch"
	"github.com/singularsity/synthd/internal/generator"
	"github.com/singularsity/synthd/internal/jobstore"
	"github.com/singularsity/synthd/internal/server"
	"github.com/singularsity/synthd/internal/storage"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for synthetic data generation.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := config.Load()
	if servePort != 0 {
		cfg.Port = servePort
	}

	logger := newLogger(cfg.LogLevel)

	var registryOpts []generator.Option
	if cfg.OpenAIAPIKey != "" {
		registryOpts = append(registryOpts, generator.WithProvider(generator.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel)))
		logger.Info().Msg("OpenAI provider registered")
	}
	registry := generator.NewRegistry(registryOpts...)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts := []dispatch.Option{}

	var objects storage.ObjectStore
	if cfg.StorageConnectionString != "" {
		azure, err := storage.NewAzureStore(ctx, cfg.StorageConnectionString, cfg.StorageContainer, logger)
		if err != nil {
			return fmt.Errorf("failed to create object store: %w", err)
		}
		objects = azure
	} else {
		logger.Warn().Msg("no blob storage configured, datasets held in memory only")
		objects = storage.NewMemoryStore()
	}
	opts = append(opts, dispatch.WithObjectStore(objects, cfg.StorageNamespace))

	var jobs jobstore.JobStore
	if cfg.DatabaseURL != "" {
		pg, err := jobstore.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to job store: %w", err)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to prepare job store: %w", err)
		}
		defer pg.Close()
		jobs = pg
	} else {
		logger.Warn().Msg("no database configured, job metadata held in memory only")
		jobs = jobstore.NewMemoryStore()
	}
	opts = append(opts, dispatch.WithJobStore(jobs))

	dispatcher := dispatch.New(registry, generator.NewFallback(), logger, opts...)

	srv := server.New(server.Config{Port: cfg.Port}, dispatcher, registry, logger)
	return srv.Start()
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}
