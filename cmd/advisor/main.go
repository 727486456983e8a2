// Command advisor serves the shopping advisor HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	advisor "github.com/ourstudio-se/shopping-advisor"
	"github.com/ourstudio-se/shopping-advisor/catalog/techspecs"
	"github.com/ourstudio-se/shopping-advisor/server"
	"github.com/ourstudio-se/shopping-advisor/tracer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "advisor: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configDir := flag.String("config", ".", "directory containing config.yaml and .env")
	flag.Parse()

	cfg, err := Load(*configDir)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.Logger)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracer.Setup(ctx, tracer.Config{
		Enabled:  cfg.Tracer.Enabled,
		Exporter: cfg.Tracer.Exporter,
	})
	if err != nil {
		return fmt.Errorf("setup tracer: %w", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", slog.String("error", err.Error()))
		}
	}()

	llm, err := newLLM(cfg.LLM, logger)
	if err != nil {
		return fmt.Errorf("create llm gateway: %w", err)
	}

	catalog, err := techspecs.New(techspecs.Config{
		APIID:   cfg.Catalog.APIID,
		APIKey:  cfg.Catalog.APIKey,
		BaseURL: cfg.Catalog.BaseURL,
		Timeout: cfg.Catalog.Timeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("create catalog gateway: %w", err)
	}

	profiles, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("profile store close failed", slog.String("error", err.Error()))
		}
	}()

	categories, err := loadCategories(cfg.Advisor.CategoriesFile)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	adv, err := advisor.New(advisor.Config{
		LLM:              llm,
		Catalog:          catalog,
		Profiles:         profiles,
		Categories:       categories,
		ExtractionModel:  modelFor(cfg.LLM),
		SynthesisModel:   modelFor(cfg.LLM),
		SearchLimit:      cfg.Advisor.SearchLimit,
		FetchConcurrency: cfg.Advisor.FetchConcurrency,
		Logger:           logger,
	})
	if err != nil {
		return err
	}

	srv := server.New(adv, server.Config{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
		Logger:         logger,
	})

	logger.Info("starting advisor",
		slog.String("addr", cfg.Server.Addr),
		slog.String("llm", cfg.LLM.Provider),
		slog.String("store", cfg.Store.Driver),
	)
	return srv.Run(ctx, cfg.Server.Addr)
}
