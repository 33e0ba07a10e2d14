package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mkorchagin/funpay-steampoints/internal/bot"
	"github.com/mkorchagin/funpay-steampoints/internal/bsp"
	envconfig "github.com/mkorchagin/funpay-steampoints/internal/config"
	"github.com/mkorchagin/funpay-steampoints/internal/funpay"
	"github.com/mkorchagin/funpay-steampoints/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to optional config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Couldn't load .env: %v", err)
	}

	settings, err := envconfig.FromEnv()
	if err != nil {
		log.Fatalf("Couldn't read settings: %v", err)
	}

	cfg, err := readConfig(*configPath)
	if err != nil {
		log.Fatalf("Couldn't read config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var journal bot.Journal
	if cfg.Database != nil {
		pool, err := store.NewPool(ctx, store.PoolConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Database: cfg.Database.Database,
			PoolSize: cfg.Database.PoolSize,
			SSLMode:  cfg.Database.SSLMode,
		})
		if err != nil {
			log.Fatalf("Couldn't connect to database: %v", err)
		}

		st := store.New(pool)
		defer st.Close()

		if err := st.EnsureSchema(ctx); err != nil {
			log.Fatalf("Couldn't prepare journal schema: %v", err)
		}
		journal = st
		logger.Info("journal enabled", "database", cfg.Database.Database)
	}

	market := funpay.New(cfg.Funpay.BaseURL, settings.FunpayAuthToken, settings.RequestTimeout)
	delivery := bsp.New(cfg.BSP.BaseURL, settings.BSPAPIKey, settings.RequestTimeout)

	account, err := market.Account(ctx)
	if err != nil {
		log.Fatalf("Couldn't authorize on the marketplace: %v", err)
	}
	logger.Info("authorized", "username", account.Username)

	logger.Info("settings",
		"category", settings.CategoryID,
		"deactivate_category", settings.DeactivateCategoryID,
		"interval", settings.RequestTimeout,
		"min_points", settings.MinPoints,
		"min_balance", settings.BSPMinBalance.String(),
		"auto_refund", settings.AutoRefund,
		"auto_deactivate", settings.AutoDeactivate,
	)

	if err := bot.New(settings, market, delivery, journal, logger).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Bot stopped: %v", err)
	}
}
