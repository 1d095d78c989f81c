package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/jonesrussell/persuasion-scanner/internal/agent"
	"github.com/jonesrussell/persuasion-scanner/internal/api"
	"github.com/jonesrussell/persuasion-scanner/internal/config"
	"github.com/jonesrussell/persuasion-scanner/internal/database"
	"github.com/jonesrussell/persuasion-scanner/internal/logger"
	"github.com/jonesrussell/persuasion-scanner/internal/oracle"
	"github.com/jonesrussell/persuasion-scanner/internal/registry"
	"github.com/jonesrussell/persuasion-scanner/internal/storage"
	"github.com/jonesrussell/persuasion-scanner/internal/telemetry"
)

const shutdownGrace = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "scannerd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("SCANNER_CONFIG"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting persuasion scanner",
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port))

	tp := telemetry.NewProvider()

	// Scoring oracle. No backend URL means heuristics only.
	var backend oracle.Backend
	if cfg.Oracle.BackendURL != "" {
		backend = oracle.NewHTTPBackend(cfg.Oracle.BackendURL, cfg.Oracle.RPS)
	} else {
		log.Warn("no oracle backend configured, scoring runs degraded")
	}
	scorer := oracle.NewGenerativeScorer(backend, oracle.NewHeuristicScorer(), tp, log)

	// Optional persistence layers.
	configStore, closeSQLite, err := openConfigStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeSQLite()

	historyRepo, closePostgres := openHistory(cfg, log)
	defer closePostgres()

	resultSink := openResultSink(cfg, log)

	// Agents and registry.
	reg := registry.New(log)
	if err := reg.Register(agent.NewCommerceAgent(scorer, tp, log), agent.DefaultCommerceConfig()); err != nil {
		return fmt.Errorf("register commerce agent: %w", err)
	}
	if err := reg.Register(agent.NewSocialAgent(scorer, tp, log), agent.DefaultSocialConfig()); err != nil {
		return fmt.Errorf("register social agent: %w", err)
	}
	if err := reg.Initialize(); err != nil {
		return fmt.Errorf("initialize agents: %w", err)
	}
	defer func() {
		if err := reg.Shutdown(); err != nil {
			log.Error("registry shutdown failed", logger.Error(err))
		}
	}()

	var store registry.ConfigStore
	if configStore != nil {
		store = configStore
	}
	runner := registry.NewRunner(reg, store, tp, log)

	handler := api.NewHandler(runner, reg, configStore, historyRepo, resultSink, backend, log)
	server := api.NewServer(handler, api.ServerConfig{
		Port:  cfg.Service.Port,
		Debug: cfg.Service.Debug,
	}, tp, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutting down", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info("shutdown complete")
	return nil
}

// openConfigStore opens the sqlite-backed agent config store. An empty
// path disables config persistence.
func openConfigStore(cfg *config.Config, log logger.Logger) (*database.AgentConfigStore, func(), error) {
	if cfg.Database.SQLitePath == "" {
		return nil, func() {}, nil
	}
	db, err := database.NewSQLiteConnection(cfg.Database.SQLitePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}
	store, err := database.NewAgentConfigStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("init config store: %w", err)
	}
	log.Info("agent config store ready", logger.String("path", cfg.Database.SQLitePath))
	return store, func() { _ = db.Close() }, nil
}

// openHistory connects to Postgres for scan history. An empty host
// disables history; connection failures log and continue.
func openHistory(cfg *config.Config, log logger.Logger) (*database.ScanHistoryRepository, func()) {
	if cfg.Database.Host == "" {
		return nil, func() {}
	}
	db, err := database.NewPostgresConnection(database.PostgresConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Warn("postgres unavailable, scan history disabled", logger.Error(err))
		return nil, func() {}
	}
	log.Info("scan history ready", logger.String("host", cfg.Database.Host))
	return database.NewScanHistoryRepository(db), func() { _ = db.Close() }
}

// openResultSink builds the Elasticsearch result sink when enabled.
// Failures log and continue; indexing is best effort.
func openResultSink(cfg *config.Config, log logger.Logger) *storage.ElasticsearchStorage {
	if !cfg.Elasticsearch.Enabled || cfg.Elasticsearch.URL == "" {
		return nil
	}
	client, err := es.NewClient(es.Config{
		Addresses: []string{cfg.Elasticsearch.URL},
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
	})
	if err != nil {
		log.Warn("elasticsearch unavailable, result sink disabled", logger.Error(err))
		return nil
	}
	sink := storage.NewElasticsearchStorage(client)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Elasticsearch.Timeout)
	defer cancel()
	if err := sink.TestConnection(ctx); err != nil {
		log.Warn("elasticsearch ping failed, result sink disabled", logger.Error(err))
		return nil
	}
	log.Info("result sink ready", logger.String("url", cfg.Elasticsearch.URL))
	return sink
}
