package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/adapters/llm/openai"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/adapters/repository/inmemory"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/adapters/repository/postgres"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/adapters/repository/sqlite"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/adapters/scraper/webpage"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/app/agent"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/app/executor"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/config"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/checkpoint"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/memory"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/report"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/headhunter"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/infrastructure/logging"
	"github.com/AdnanSaeed-85/job-automation-agent/pkg/serialization"
)

// reportStore is the combined surface the wiring needs from a report
// adapter.
type reportStore interface {
	report.Writer
	report.Reader
}

// app is the fully wired application.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	exec     *executor.Executor
	memories memory.Store
	reports  report.Reader
	close    func()
}

// buildApp loads configuration and wires storage, the model client, the
// search pipeline, and the executor together.
func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logging.New(os.Stderr, cfg.App.LogLevel, cfg.App.ConsoleLog)

	checkpoints, memories, reports, closeStores, err := buildStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	model := openai.New(openai.Options{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: float32(cfg.LLM.Temperature),
		Logger:      log,
	})

	browser, err := webpage.New(webpage.Options{
		SettleDelay: cfg.Search.SettleDelay,
		FetchDelay:  cfg.Search.FetchDelay,
		Logger:      log,
	})
	if err != nil {
		closeStores()
		return nil, err
	}

	pipeline := headhunter.New(browser, model, reports, headhunter.Options{
		ResumePath:  cfg.Search.ResumePath,
		Concurrency: cfg.Search.Concurrency,
		Logger:      log,
	})

	ag := agent.New(model, memories, pipeline, reports, log)
	def, err := ag.Definition()
	if err != nil {
		closeStores()
		return nil, fmt.Errorf("building conversation graph: %w", err)
	}

	return &app{
		cfg:      cfg,
		log:      log,
		exec:     executor.New(def, checkpoints, log),
		memories: memories,
		reports:  reports,
		close:    closeStores,
	}, nil
}

func buildStores(ctx context.Context, cfg *config.Config) (checkpoint.Store, memory.Store, reportStore, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return inmemory.NewCheckpointStore(), inmemory.NewMemoryStore(), inmemory.NewReportStore(), func() {}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("opening sqlite storage: %w", err)
		}
		return sqlite.NewCheckpointStore(db, serialization.Default()),
			sqlite.NewMemoryStore(db),
			sqlite.NewReportStore(db),
			func() { _ = db.Close() },
			nil

	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		checkpoints := postgres.NewCheckpointStore(pool, serialization.Default())
		memories := postgres.NewMemoryStore(pool)
		reports := postgres.NewReportStore(pool)
		for _, setup := range []func(context.Context) error{
			checkpoints.CreateTables, memories.CreateTables, reports.CreateTables,
		} {
			if err := setup(ctx); err != nil {
				pool.Close()
				return nil, nil, nil, nil, err
			}
		}
		return checkpoints, memories, reports, pool.Close, nil

	default:
		return nil, nil, nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
