package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"ticketing/internal/app"
	"ticketing/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.NewNotificationsApp(config.Load())
	if err != nil {
		logrus.WithError(err).Fatal("failed to start notification service")
	}

	if err := a.Run(ctx); err != nil {
		logrus.WithError(err).Fatal("notification service exited with error")
	}
}
