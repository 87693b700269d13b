package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"examsort/classify"
	"examsort/config"
	"examsort/extract"
	"examsort/modelfile"
	"examsort/pipeline"
	"examsort/state"
	"examsort/textnorm"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	// =========
	// Config
	// =========
	cfg, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// =========
	// Logging
	// =========
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// =========
	// Keywords
	// =========
	keywords := classify.ExamKeywords
	if cfg.KeywordsFile != "" {
		keywords, err = config.LoadKeywords(cfg.KeywordsFile)
		if err != nil {
			logger.Fatal("failed to load keywords", zap.Error(err))
		}
	}

	// =========
	// Model
	// =========
	var model classify.Classifier
	if !cfg.JustByFileName {
		downloader := modelfile.NewDownloader(logger)
		if err := downloader.Ensure(ctx, cfg.ModelFile, cfg.ModelURL); err != nil {
			logger.Fatal("failed to acquire model", zap.Error(err))
		}

		linear, err := classify.LoadLinearModel(cfg.ModelFile)
		if err != nil {
			logger.Fatal("failed to load model", zap.Error(err))
		}
		defer linear.Close()
		model = linear
	}

	// =========
	// State store
	// =========
	var store *state.Store
	if cfg.StateDB != "" {
		store, err = state.Open(cfg.StateDB)
		if err != nil {
			logger.Fatal("failed to open state db", zap.Error(err))
		}
		defer store.Close()
	}

	// =========
	// Audit logs
	// =========
	logs, err := pipeline.OpenAuditLogs(cfg.MoveLogPath, cfg.FileNameLogPath)
	if err != nil {
		logger.Fatal("failed to open audit logs", zap.Error(err))
	}
	defer logs.Close()

	// =========
	// Batch run
	// =========
	runner := &pipeline.Runner{
		InputDir:       cfg.InputDir,
		OutputDir:      cfg.OutputDir,
		Threshold:      cfg.Threshold,
		JustByFileName: cfg.JustByFileName,
		RunID:          runID,
		Extractor:      extract.NewDispatcher(),
		Normalizer:     textnorm.New(cfg.CorrectedNoise),
		Model:          model,
		Matcher:        classify.NewFilenameMatcher(keywords),
		Logs:           logs,
		Store:          store,
		Logger:         logger,
	}

	if _, err := runner.Run(ctx); err != nil {
		logger.Fatal("batch failed", zap.Error(err))
	}
}
