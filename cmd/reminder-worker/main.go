// The reminder-worker scans daily for unpaid bills coming due and
// publishes a reminder per bill. Pass -once to run a single scan and
// exit, which is how a cron-style deployment invokes it.
package main

import (
	"context"
	"errors"
	"flag"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fintrack/fintrack-be/internal/config"
	"github.com/fintrack/fintrack-be/internal/notify"
	"github.com/fintrack/fintrack-be/internal/reminder"
	"github.com/fintrack/fintrack-be/internal/storage/postgres"
)

func main() {
	once := flag.Bool("once", false, "run a single scan and exit")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found; relying on existing environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := postgres.NewStore(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("init database", zap.Error(err))
	}
	defer store.Close()

	var notifier reminder.Notifier
	if cfg.AMQPURL != "" {
		publisher, err := notify.NewAMQPPublisher(cfg.AMQPURL, cfg.ReminderExchange, cfg.ReminderQueue)
		if err != nil {
			log.Fatal("connect broker", zap.Error(err))
		}
		defer publisher.Close()
		notifier = publisher
	} else {
		log.Warn("AMQP_URL not set; reminders will only be logged")
		notifier = notify.NewLogNotifier(log)
	}

	scanner := reminder.NewScanner(store, notifier, cfg.ReminderWindow, cfg.ReminderHour, log)

	if *once {
		if err := scanner.RunOnce(ctx); err != nil {
			log.Fatal("reminder scan failed", zap.Error(err))
		}
		return
	}

	log.Info("reminder worker started",
		zap.Int("hour", cfg.ReminderHour),
		zap.Duration("window", cfg.ReminderWindow),
	)
	if err := scanner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("reminder worker stopped", zap.Error(err))
	}
}
