package app

import (
	"context"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"ticketing/internal/application/usecases/booking"
	"ticketing/internal/config"
	"ticketing/internal/infrastructure/clients"
	httpserver "ticketing/internal/interfaces/http"
	"ticketing/internal/interfaces/message"
	"ticketing/internal/interfaces/message/events"
	"ticketing/internal/log"
	"ticketing/internal/repository"
	"ticketing/internal/repository/memory"
)

// BookingApp is the saga-orchestrating booking service.
type BookingApp struct {
	logger zerolog.Logger
	broker *message.Broker
	srv    *httpserver.BookingServer
	db     *sqlx.DB
}

func NewBookingApp(cfg config.Config) (*BookingApp, error) {
	log.Init(logrus.InfoLevel)
	watermillLogger := log.NewWatermillAdapter(logrus.NewEntry(logrus.StandardLogger()))

	var (
		bookingsRepo booking.BookingsRepository
		paymentsRepo booking.PaymentsRepository
		sagasRepo    booking.SagasRepository
		db           *sqlx.DB
	)
	if cfg.Storage == config.StoragePostgres {
		var err error
		db, err = openPostgres(cfg)
		if err != nil {
			return nil, err
		}
		bookingsRepo = repository.NewBookingsRepo(db)
		paymentsRepo = repository.NewPaymentsRepo(db)
		sagasRepo = repository.NewSagasRepo(db)
	} else {
		bookingsRepo = memory.NewBookingsRepo()
		paymentsRepo = memory.NewPaymentsRepo()
		sagasRepo = memory.NewSagasRepo()
	}

	broker, err := message.NewBroker(cfg.AmqpURL, cfg.ReconnectInterval, watermillLogger)
	if err != nil {
		return nil, err
	}

	eventBus, err := events.NewEventBus(broker.Publisher(), watermillLogger)
	if err != nil {
		_ = broker.Close()
		return nil, err
	}

	orchestrator := booking.NewOrchestrator(
		clients.NewEventsClient(cfg.EventServiceURL),
		clients.NewPaymentsClient(clients.PaymentsClientConfig{
			Delay:       cfg.PaymentDelay,
			SuccessRate: cfg.PaymentSuccessRate,
			Seed:        cfg.PaymentSeed,
		}),
		bookingsRepo,
		paymentsRepo,
		sagasRepo,
		eventBus,
	)

	return &BookingApp{
		logger: zerolog.New(os.Stdout),
		broker: broker,
		srv:    httpserver.NewBookingServer(cfg.HTTPAddr, orchestrator),
		db:     db,
	}, nil
}

func (a *BookingApp) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info().Msg("starting booking server")
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
