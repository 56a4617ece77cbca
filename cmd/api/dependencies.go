package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/FACorreiaa/sms-finance-logger/internal/domain/categorization"
	categorizationhandler "github.com/FACorreiaa/sms-finance-logger/internal/domain/categorization/handler"
	"github.com/FACorreiaa/sms-finance-logger/internal/domain/ledger"
	ledgerhandler "github.com/FACorreiaa/sms-finance-logger/internal/domain/ledger/handler"
	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms"

	"github.com/FACorreiaa/sms-finance-logger/pkg/config"
	"github.com/FACorreiaa/sms-finance-logger/pkg/cron"
	"github.com/FACorreiaa/sms-finance-logger/pkg/db"
	"github.com/FACorreiaa/sms-finance-logger/pkg/metrics"
	"github.com/FACorreiaa/sms-finance-logger/pkg/storage"
)

// Version is reported by the health endpoint.
var Version = "1.0.0"

// Dependencies holds all application dependencies
type Dependencies struct {
	Config  *config.Config
	DB      *db.DB
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	// Repositories
	LedgerRepo         *ledger.Repository
	CategorizationRepo *categorization.Repository

	// Services
	Engine                *sms.Engine
	MerchantIndex         *categorization.SearchIndex
	CategorizationService *categorization.Service
	LedgerService         *ledger.Service
	Archive               storage.Storage
	Scheduler             *cron.Scheduler

	// Handlers
	LedgerHandler         *ledgerhandler.LedgerHandler
	CategorizationHandler *categorizationhandler.CategorizationHandler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}
	if cfg.Observability.MetricsEnabled {
		deps.Metrics = metrics.New()
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	if err := deps.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}

	if err := deps.initServices(); err != nil {
		deps.Cleanup()
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	if err := deps.initHandlers(); err != nil {
		deps.Cleanup()
		return nil, fmt.Errorf("failed to init handlers: %w", err)
	}

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        10,
		MinConns:        2,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

// initRepositories initializes all repository layer dependencies
func (d *Dependencies) initRepositories() error {
	d.LedgerRepo = ledger.NewRepository(d.DB.Pool)
	d.CategorizationRepo = categorization.NewRepository(d.DB.Pool)

	d.Logger.Info("repositories initialized")
	return nil
}

// initServices initializes all service layer dependencies
func (d *Dependencies) initServices() error {
	engine, err := sms.NewFromFile(d.Config.SMS.RulesFile)
	if err != nil {
		return err
	}
	d.Engine = engine

	// Merchant search index, in memory unless a path is configured
	index, err := categorization.NewSearchIndex(d.Config.Export.SearchPath)
	if err != nil {
		return fmt.Errorf("failed to open merchant index: %w", err)
	}
	d.MerchantIndex = index

	d.CategorizationService = categorization.NewService(d.CategorizationRepo, d.MerchantIndex, d.Logger)
	if err := d.CategorizationService.Reload(context.Background()); err != nil {
		return err
	}

	archive, err := storage.New(&storage.Config{
		Type:      storage.StorageTypeLocal,
		LocalPath: d.Config.Export.Dir,
	})
	if err != nil {
		return fmt.Errorf("failed to init export storage: %w", err)
	}
	d.Archive = archive

	policy := ledger.Policy{
		MinLength:  d.Config.SMS.MinLength,
		MaxLength:  d.Config.SMS.MaxLength,
		LogCredits: d.Config.SMS.LogCredits,
	}
	d.LedgerService = ledger.NewService(d.LedgerRepo, d.Engine, d.CategorizationService, policy, d.Config.Cache.StatsTTL, d.Logger).
		WithArchive(d.Archive).
		WithMetrics(d.Metrics)

	if dc := d.Config.Digest; dc.Enabled() {
		d.LedgerService.WithDigest(ledger.NewResendDigest(dc.ResendAPIKey, dc.From, dc.To, d.Logger))
	} else {
		d.Logger.Info("monthly digest email disabled")
	}

	d.Scheduler = cron.NewScheduler(d.LedgerService, d.Config.Digest.Schedule, d.Metrics, d.Logger)

	d.Logger.Info("services initialized", slog.Int("rule_groups", d.Engine.Catalog().Len()))
	return nil
}

// initHandlers initializes all handler dependencies
func (d *Dependencies) initHandlers() error {
	prefix := d.Config.Server.APIPrefix()
	d.LedgerHandler = ledgerhandler.NewLedgerHandler(d.LedgerService, prefix, Version, d.Logger)
	d.CategorizationHandler = categorizationhandler.NewCategorizationHandler(d.CategorizationService, prefix, d.Logger)

	d.Logger.Info("handlers initialized")
	return nil
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.MerchantIndex != nil {
		if err := d.MerchantIndex.Close(); err != nil {
			d.Logger.Warn("failed to close merchant index", slog.Any("error", err))
		}
	}
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
