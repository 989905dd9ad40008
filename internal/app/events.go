package app

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"ticketing/internal/application/usecases/inventory"
	"ticketing/internal/config"
	httpserver "ticketing/internal/interfaces/http"
	"ticketing/internal/log"
	"ticketing/internal/repository"
	"ticketing/internal/repository/memory"
)

// EventsApp is the event service that owns the inventory ledger.
type EventsApp struct {
	logger zerolog.Logger
	srv    *httpserver.EventsServer
	db     *sqlx.DB
	rdb    *redis.Client
}

func NewEventsApp(cfg config.Config) (*EventsApp, error) {
	log.Init(logrus.InfoLevel)

	var (
		ledger inventory.Ledger
		db     *sqlx.DB
		rdb    *redis.Client
	)
	if cfg.Storage == config.StoragePostgres {
		var err error
		db, err = openPostgres(cfg)
		if err != nil {
			return nil, err
		}

		repo := repository.NewInventoryRepo(db)
		ledger = repo

		// Availability reads dominate the traffic; cache them briefly
		// when Redis is configured.
		if cfg.RedisURL != "" {
			opts, err := redis.ParseURL(cfg.RedisURL)
			if err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("failed to parse redis url: %w", err)
			}
			rdb = redis.NewClient(opts)
			ledger = repository.NewInventoryCache(repo, rdb, cfg.AvailabilityCacheTTL)
		}
	} else {
		ledger = memory.NewInventoryRepo()
	}

	return &EventsApp{
		logger: zerolog.New(os.Stdout),
		srv:    httpserver.NewEventsServer(cfg.HTTPAddr, inventory.NewService(ledger)),
		db:     db,
		rdb:    rdb,
	}, nil
}

func (a *EventsApp) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info().Msg("starting events server")
		return a.srv.Start()
	})

	g.Go(func() error {
		<-ctx.Done()

		if err := a.srv.Stop(context.Background()); err != nil {
			a.logger.Err(err).Msg("error stopping server")
		}
		if a.rdb != nil {
			if err := a.rdb.Close(); err != nil {
				a.logger.Err(err).Msg("error closing redis client")
			}
		}
		if a.db != nil {
			if err := a.db.Close(); err != nil {
				a.logger.Err(err).Msg("error closing database")
			}
		}

		return nil
	})

	return g.Wait()
}
