package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/webgov/harvester/internal/api"
	"github.com/webgov/harvester/internal/checkpoint"
	"github.com/webgov/harvester/internal/config"
	"github.com/webgov/harvester/internal/database"
	"github.com/webgov/harvester/internal/harvest"
	"github.com/webgov/harvester/internal/progress"
	"github.com/webgov/harvester/internal/progress/sinks"
	"github.com/webgov/harvester/internal/sink"
	"github.com/webgov/harvester/internal/wayback"
)

func newHarvestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "harvest",
		Short: "Runs the checkpointed batch harvest",
		Long: `Walks the configured domain list in order, collecting one record per
archived robots.txt snapshot of each domain. The run checkpoints after
every domain and resumes from the checkpoint after an interruption.`,

		RunE: runHarvestCommand,
	}
}

func runHarvestCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	cfg := appInstance.Config
	logger := appInstance.Logger

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	domains, err := harvest.LoadDomains(cfg.Input.DomainsPath)
	if err != nil {
		return err
	}
	logger.Info("Domain list loaded",
		zap.String("path", cfg.Input.DomainsPath),
		zap.Int("domains", len(domains)))

	client, err := wayback.NewClient(wayback.ClientConfig{
		CDXEndpoint:       cfg.Archive.CDXEndpoint,
		SnapshotBase:      cfg.Archive.SnapshotBase,
		UserAgent:         cfg.Archive.UserAgent,
		Timeout:           cfg.ArchiveTimeout(),
		RequestsPerSecond: float64(cfg.Archive.RequestsPerSecond),
	}, logger)
	if err != nil {
		return fmt.Errorf("init archive client: %w", err)
	}

	orchestrator := harvest.NewOrchestrator(client, harvest.OrchestratorConfig{
		MaxSnapshots:  cfg.Scrape.MaxSnapshots,
		From:          cfg.Scrape.From,
		To:            cfg.Scrape.To,
		SnapshotDelay: cfg.SnapshotDelay(),
	}, nil, logger)

	csvSink, err := sink.NewCSVSink(cfg.Output.DatasetPath, harvest.CSVHeader())
	if err != nil {
		return fmt.Errorf("init dataset sink: %w", err)
	}
	errorLog, err := sink.NewErrorLog(cfg.Output.ErrorLogPath)
	if err != nil {
		return fmt.Errorf("init error log: %w", err)
	}

	checkpoints, err := buildCheckpointStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	provider, err := buildDatabaseProvider(ctx, cfg)
	if err != nil {
		return err
	}
	defer provider.Close()

	registry := prometheus.NewRegistry()
	state := sinks.NewStateSink()
	hub := progress.NewHub(logger,
		sinks.NewLogSink(logger),
		sinks.NewPrometheusSink(registry),
		state,
	)
	defer func() {
		if err := hub.Close(context.Background()); err != nil {
			logger.Warn("Progress hub close failed", zap.Error(err))
		}
	}()

	if cfg.Status.Enabled {
		server := api.NewServer(fmt.Sprintf(":%d", cfg.Status.Port), state, registry, logger)
		go func() {
			if err := server.Start(); err != nil {
				logger.Error("Status server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Status server shutdown failed", zap.Error(err))
			}
		}()
	}

	runner, err := harvest.NewRunner(harvest.RunnerParams{
		Scraper:     orchestrator,
		Sink:        csvSink,
		Checkpoints: checkpoints,
		Failures:    errorLog,
		Store:       provider,
		Emitter:     hub,
		Config: harvest.RunnerConfig{
			DomainDelay:  cfg.DomainDelay(),
			DomainJitter: cfg.DomainJitter(),
		},
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("init runner: %w", err)
	}

	summary, err := runner.Run(ctx, domains)
	if errors.Is(err, context.Canceled) {
		logger.Info("Run interrupted; checkpoint retained for resume",
			zap.Int("succeeded", summary.Succeeded),
			zap.Int("failed", summary.Failed))
		return nil
	}
	if err != nil {
		return fmt.Errorf("run harvest: %w", err)
	}
	return nil
}

func buildCheckpointStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (checkpoint.Store, error) {
	switch cfg.Checkpoint.Provider {
	case "redis":
		store, err := checkpoint.NewRedisStore(ctx, cfg.Checkpoint.RedisAddr, cfg.Checkpoint.RedisKey, logger)
		if err != nil {
			return nil, fmt.Errorf("init redis checkpoint: %w", err)
		}
		return store, nil
	default:
		return checkpoint.NewFileStore(cfg.Checkpoint.Path, logger), nil
	}
}

func buildDatabaseProvider(ctx context.Context, cfg config.Config) (database.Provider, error) {
	if cfg.Database.Provider != "postgres" {
		return database.NewNoOpProvider(), nil
	}
	provider, err := database.NewPostgresProvider(ctx, database.PostgresConfig{
		DSN:      cfg.Database.DSN,
		Table:    cfg.Database.Table,
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("init postgres provider: %w", err)
	}
	return provider, nil
}
