package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"storefront/internal/config"
	"storefront/internal/orders/consumer"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)

	app := &cli.App{
		Name:   "storefront-notifier",
		Usage:  "consume order events and emit owner notifications",
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("notifier exited")
	}
}

func run(*cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := consumer.NewConsumer(cfg.KafkaBrokers...)
	defer c.Close()

	log.WithField("brokers", cfg.KafkaBrokers).Info("notifier consuming order events")
	c.Run(ctx)
	return nil
}
