package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"reelvault/internal/api"
	"reelvault/internal/bot"
	"reelvault/internal/classifier"
	"reelvault/internal/config"
	"reelvault/internal/scraper"
	"reelvault/internal/session"
	"reelvault/internal/storage"
)

const (
	gcInterval      = 10 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(cfg.Level())

	log.WithFields(logrus.Fields{
		"badgerdb_path": cfg.BadgerDBPath,
		"http_addr":     cfg.HTTPAddr,
		"telegram":      cfg.TelegramBotToken != "",
		"ai":            cfg.GeminiAPIKey != "",
		"scrape_urls":   cfg.ScrapeURLs,
	}).Info("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Error("ReelVault stopped with an error")
		os.Exit(1)
	}
	log.Info("ReelVault shut down gracefully.")
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	// --- Initialize Components ---
	repo, err := storage.NewBadgerRepository(cfg.BadgerDBPath, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		log.Info("Closing database...")
		if err := repo.Close(); err != nil {
			log.WithError(err).Error("Error closing database")
		}
	}()

	var model classifier.Model
	if cfg.GeminiAPIKey != "" {
		gemini, err := classifier.NewGeminiModel(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiRequestsPerSecond)
		if err != nil {
			return fmt.Errorf("failed to initialize Gemini: %w", err)
		}
		model = gemini
	} else {
		log.Warn("GEMINI_API_KEY not set, reels will be classified offline")
	}

	var opts []classifier.Option
	if cfg.ScrapeURLs {
		opts = append(opts, classifier.WithScraper(scraper.NewRodScraper(log, scraper.DefaultTimeout)))
	}
	pipeline := classifier.NewPipeline(model, log, opts...)
	sessions := session.NewManager(pipeline, repo, log)

	// --- Application Startup ---
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		repo.RunGC(gCtx, gcInterval)
		return nil
	})

	if cfg.TelegramBotToken != "" {
		botHandler, err := bot.NewHandler(cfg.TelegramBotToken, bot.NewCommands(sessions), log)
		if err != nil {
			return fmt.Errorf("failed to initialize Telegram bot handler: %w", err)
		}
		g.Go(func() error {
			botHandler.Start(gCtx)
			return nil
		})
	}

	if cfg.HTTPAddr != "" {
		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           api.NewRouter(sessions, log),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			log.WithField("address", cfg.HTTPAddr).Info("Starting HTTP server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	log.Info("ReelVault is running. Press Ctrl+C to exit.")
	<-gCtx.Done()
	log.Info("Shutting down ReelVault...")
	return g.Wait()
}
