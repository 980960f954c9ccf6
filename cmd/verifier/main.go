package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/hazard-verify-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/hazard-verify-service/internal/adapter/kafka"
	"github.com/couchcryptid/hazard-verify-service/internal/adapter/reportstore"
	"github.com/couchcryptid/hazard-verify-service/internal/adapter/zeroshot"
	"github.com/couchcryptid/hazard-verify-service/internal/config"
	"github.com/couchcryptid/hazard-verify-service/internal/domain"
	"github.com/couchcryptid/hazard-verify-service/internal/observability"
	"github.com/couchcryptid/hazard-verify-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Zero-shot classifier (feature-flagged via CLASSIFIER_ENABLED / CLASSIFIER_URL).
	var classifier domain.Classifier
	if cfg.ClassifierEnabled {
		client := zeroshot.NewClient(cfg.ClassifierURL, cfg.ClassifierToken, cfg.ClassifierTimeout, logger, metrics)
		classifier = zeroshot.NewCachedClassifier(client, cfg.ClassifierCacheSize, metrics)
		logger.Info("zero-shot classifier enabled", "cache_size", cfg.ClassifierCacheSize, "timeout", cfg.ClassifierTimeout)
	} else {
		logger.Info("zero-shot classifier disabled")
	}

	history := reportstore.NewFileStore(cfg.HistoryPath, logger, metrics)
	verifier := pipeline.NewVerifier(history, classifier, cfg.FusionPolicy, cfg.ClassifierTimeout, logger, metrics)
	logger.Info("fusion policy loaded",
		"policy", cfg.FusionPolicy.Name,
		"weights", cfg.FusionPolicy.Weights,
		"threshold", cfg.FusionPolicy.Threshold,
		"history_path", cfg.HistoryPath,
	)
	switch {
	case classifier != nil && !cfg.FusionPolicy.Uses(domain.SignalNLP):
		logger.Warn("classifier enabled but the fusion policy ignores the nlp signal, classification is skipped", "policy", cfg.FusionPolicy.Name)
	case classifier == nil && cfg.FusionPolicy.Uses(domain.SignalNLP):
		logger.Warn("fusion policy weighs the nlp signal but the classifier is disabled", "policy", cfg.FusionPolicy.Name)
	}

	var checkers []sharedobs.ReadinessChecker
	var p *pipeline.Pipeline
	var reader *kafkaadapter.Reader
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		transformer := pipeline.NewTransformer(verifier.WithSource(pipeline.SourceKafka))
		p = pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)
		checkers = append(checkers, p)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, verifier.WithSource(pipeline.SourceHTTP), httpadapter.AllReady(checkers...), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if p != nil {
		g.Go(func() error {
			return p.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		if reader != nil {
			if err := reader.Close(); err != nil {
				logger.Error("kafka reader close error", "error", err)
			}
		}
		if writer != nil {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("service stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
