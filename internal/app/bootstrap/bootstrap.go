package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	accountservice "servhub/contexts/identity-access/account-service"
	passwordadapter "servhub/contexts/identity-access/account-service/adapters/password"
	accountpostgres "servhub/contexts/identity-access/account-service/adapters/postgres"
	tokenadapter "servhub/contexts/identity-access/account-service/adapters/token"
	offercatalog "servhub/contexts/marketplace/offer-catalog"
	offerpostgres "servhub/contexts/marketplace/offer-catalog/adapters/postgres"
	offerports "servhub/contexts/marketplace/offer-catalog/ports"
	orderledger "servhub/contexts/marketplace/order-ledger"
	catalogadapter "servhub/contexts/marketplace/order-ledger/adapters/catalog"
	orderpostgres "servhub/contexts/marketplace/order-ledger/adapters/postgres"
	workerapp "servhub/contexts/marketplace/order-ledger/application/workers"
	orderports "servhub/contexts/marketplace/order-ledger/ports"
	"servhub/internal/platform/config"
	"servhub/internal/platform/db"
	"servhub/internal/platform/httpserver"
	"servhub/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  workerapp.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if err := migrate(pg); err != nil {
		return nil, err
	}

	accounts := accountservice.NewModule(accountservice.Dependencies{
		Repository:  accountpostgres.NewRepository(pg.DB, logger),
		Hasher:      passwordadapter.BcryptHasher{},
		Tokens:      tokenadapter.JWTCodec{Secret: []byte(cfg.JWTSecret), TTL: cfg.TokenTTL},
		Clock:       accountpostgres.SystemClock{},
		IDGenerator: accountpostgres.UUIDGenerator{},
		Logger:      logger,
	})

	orderRepo := orderpostgres.NewRepository(pg.DB, logger)

	catalog := offercatalog.NewModule(offercatalog.Dependencies{
		Repository:  offerpostgres.NewRepository(pg.DB, logger),
		Dependents:  []offerports.Dependent{orderRepo},
		Clock:       offerpostgres.SystemClock{},
		IDGenerator: offerpostgres.UUIDGenerator{},
		Logger:      logger,
	})

	orders := orderledger.NewModule(orderledger.Dependencies{
		Repository:  orderRepo,
		Offers:      catalogadapter.Resolver{Catalog: catalog.Service},
		Policy:      orderports.DefaultTransitionPolicy(),
		Clock:       orderpostgres.SystemClock{},
		IDGenerator: orderpostgres.UUIDGenerator{},
		Logger:      logger,
	})

	server := httpserver.New(accounts, catalog, orders, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if err := migrate(pg); err != nil {
		return nil, err
	}

	bus, err := messaging.NewKafka(nil, logger)
	if err != nil {
		return nil, err
	}

	repo := orderpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		outboxRelay: workerapp.OutboxRelay{
			Outbox:    repo,
			Publisher: bus,
			Clock:     orderpostgres.SystemClock{},
			Topic:     "orders",
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}, nil
}

func migrate(pg *db.Postgres) error {
	if err := accountpostgres.Migrate(pg.DB); err != nil {
		return err
	}
	if err := offerpostgres.Migrate(pg.DB); err != nil {
		return err
	}
	return orderpostgres.Migrate(pg.DB)
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
