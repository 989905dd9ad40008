package app

import (
	"context"
	"os"

	watermillmessage "github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"ticketing/internal/application/usecases/notifications"
	"ticketing/internal/config"
	"ticketing/internal/infrastructure/clients"
	httpserver "ticketing/internal/interfaces/http"
	"ticketing/internal/interfaces/message"
	"ticketing/internal/interfaces/message/events"
	"ticketing/internal/log"
	"ticketing/internal/repository"
	"ticketing/internal/repository/memory"
)

// NotificationsApp consumes booking events and serves the notification
// read API.
type NotificationsApp struct {
	logger zerolog.Logger
	broker *message.Broker
	router *watermillmessage.Router
	srv    *httpserver.NotificationsServer
	db     *sqlx.DB
}

func NewNotificationsApp(cfg config.Config) (*NotificationsApp, error) {
	log.Init(logrus.InfoLevel)
	watermillLogger := log.NewWatermillAdapter(logrus.NewEntry(logrus.StandardLogger()))

	var (
		repo notifications.Repository
		db   *sqlx.DB
	)
	if cfg.Storage == config.StoragePostgres {
		var err error
		db, err = openPostgres(cfg)
		if err != nil {
			return nil, err
		}
		repo = repository.NewNotificationsRepo(db)
	} else {
		repo = memory.NewNotificationsRepo()
	}

	broker, err := message.NewBroker(cfg.AmqpURL, cfg.ReconnectInterval, watermillLogger)
	if err != nil {
		return nil, err
	}

	projector := notifications.NewProjector(repo, clients.NewEmailClient(0))

	router, err := message.NewRouter(
		watermillLogger,
		broker.Publisher(),
		events.NewEventProcessorConfig(broker, watermillLogger),
		events.NewHandler(projector),
	)
	if err != nil {
		_ = broker.Close()
		return nil, err
	}

	return &NotificationsApp{
		logger: zerolog.New(os.Stdout),
		broker: broker,
		router: router,
		srv:    httpserver.NewNotificationsServer(cfg.HTTPAddr, projector, router.IsRunning),
		db:     db,
	}, nil
}

func (a *NotificationsApp) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info().Msg("starting router")
		return a.router.Run(ctx)
	})

	g.Go(func() error {
		<-a.router.Running()
		a.logger.Info().Msg("router is running, starting notifications server")
		return a.srv.Start()
	})

	g.Go(func() error {
		<-ctx.Done()

		if err := a.srv.Stop(context.Background()); err != nil {
			a.logger.Err(err).Msg("error stopping server")
		}
		if err := a.broker.Close(); err != nil {
			a.logger.Err(err).Msg("error closing broker")
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
