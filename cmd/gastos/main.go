package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"gastos/internal/backend"
	"gastos/internal/cli"
	"gastos/internal/config"
	apphttp "gastos/internal/http"
	"gastos/internal/log"
	"gastos/internal/seed"
	"gastos/internal/services"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.SetupLogger(os.Stderr, "info").Error("Configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger := cli.SetupLogger(os.Stdout, cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server error", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(cfg *config.Config, logger *log.Logger) error {
	ctx := context.Background()
	factory := backend.NewFactory(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	store, err := factory.CreateBackend(ctx, backendCfg)
	if err != nil {
		return err
	}
	defer store.Close()

	publisher, closePublisher := factory.CreatePublisher(ctx, cfg)

	opts := []services.Option{services.WithLogger(logger)}
	if publisher != nil {
		opts = append(opts, services.WithEvents(publisher))
	}
	repos := store.Repositories
	totals := services.NewTotalsEngine(repos.Transactions, cfg.TotalsConcurrency, logger)

	if cfg.SeedOnStart {
		if _, err := seed.New(repos, seed.WithLogger(logger)).Run(ctx, cfg.SeedPeople); err != nil {
			return err
		}
	}

	srv := apphttp.NewServer(apphttp.Config{
		Addr:               cfg.Addr(),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		CORSAllowedOrigin:  cfg.CORSAllowedOrigin,
		Logger:             logger,
	}, apphttp.Deps{
		People:       services.NewPersonService(repos.People, totals, opts...),
		Categories:   services.NewCategoryService(repos.Categories, totals, opts...),
		Transactions: services.NewTransactionService(repos, totals, opts...),
		Pinger:       store.Pinger,
	})

	_, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err.Error())
		}
		if closePublisher != nil {
			if err := closePublisher(); err != nil {
				logger.Warn("AMQP close error", log.FieldError, err.Error())
			}
		}
	})

	logger.Info("Starting gastos server",
		log.FieldOperation, log.OpStartup,
		"addr", cfg.Addr(),
		"backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-done
	return nil
}
