package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"expensebot/internal/amqp"
	"expensebot/internal/backend"
	"expensebot/internal/config"
	"expensebot/internal/core"
	applog "expensebot/internal/log"
	"expensebot/internal/media"
	"expensebot/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting expensebot-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize the selected store
	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateStore(ctx, backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
		PostgresURL:  cfg.PostgresURL,
	})
	if err != nil {
		logger.Error("Failed to initialize store", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer result.Cleanup()

	// Initialize AMQP client for consuming messages
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	expenseService := services.NewExpenseService(result.Store, nil, amqpClient)

	var transcriber media.Transcriber
	if cfg.TranscribeCommand != "" {
		transcriber = media.NewExecTranscriber(cfg.TranscribeCommand)
	} else {
		logger.Info("Voice transcription disabled - no TRANSCRIBE_COMMAND provided")
	}
	processor := services.NewMediaProcessor(
		expenseService,
		media.NewExecOCR(cfg.OCRCommand),
		transcriber,
		cfg.MediaTimeout,
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.Consume(ctx, amqp.IngestQueue, func(ctx context.Context, body []byte) error {
			msg, err := amqp.TextMessageFromJSON(body)
			if err != nil {
				return fmt.Errorf("unmarshal text message: %v: %w", err, amqp.ErrBadMessage)
			}
			_, err = expenseService.Ingest(ctx, msg.UserID, msg.Text, core.SourceText, nil, msg.Timestamp)
			if errors.Is(err, core.ErrNoAmountFound) || errors.Is(err, core.ErrInvalidAmount) {
				// Retrying an unparseable entry cannot succeed.
				return fmt.Errorf("%v: %w", err, amqp.ErrBadMessage)
			}
			return err
		})
	})

	g.Go(func() error {
		return amqpClient.Consume(ctx, amqp.MediaQueue, func(ctx context.Context, body []byte) error {
			job, err := amqp.MediaJobFromJSON(body)
			if err != nil {
				return fmt.Errorf("unmarshal media job: %v: %w", err, amqp.ErrBadMessage)
			}
			_, err = processor.ProcessJob(ctx, job)
			if errors.Is(err, core.ErrNoAmountFound) || errors.Is(err, core.ErrInvalidAmount) {
				return fmt.Errorf("%v: %w", err, amqp.ErrBadMessage)
			}
			return err
		})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete")
}
