package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/xaenox/st-notes/internal/bot"
	"github.com/xaenox/st-notes/internal/classifier"
	"github.com/xaenox/st-notes/internal/library"
	"github.com/xaenox/st-notes/internal/notes"
	"github.com/xaenox/st-notes/internal/storage"
	"github.com/xaenox/st-notes/pkg/config"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	// A missing default config file is fine; everything has defaults or env overrides
	path := *configPath
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && path == "config.yaml" {
		path = ""
	}

	// Load configuration
	cfg, err := config.LoadConfig(path)
	if err != nil {
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("Failed to load config", zap.Error(err), zap.String("path", path))
	}

	// Initialize logger
	logger, err := cfg.Log.Logger()
	if err != nil {
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("Failed to build logger", zap.Error(err))
	}
	defer logger.Sync()

	if cfg.Telegram.Token == "" {
		logger.Fatal("Telegram token is not set (TELEGRAM_TOKEN or telegram.token)")
	}

	// Initialize storage
	kv, err := storage.Open(cfg.StorageOptions(), logger)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer kv.Close()

	keys := cfg.Keyspace()
	lib := library.New(kv, keys, logger)
	store := notes.NewKVStore(kv, keys, logger)

	var clf classifier.Classifier = classifier.NewKeywordClassifier()
	if cfg.Classifier.UseGPT {
		if cfg.OpenAI.APIKey == "" {
			logger.Warn("GPT classifier requested without an API key, using keywords")
		} else {
			logger.Info("Using GPT classifier", zap.String("model", cfg.OpenAI.Model))
			clf = classifier.NewGPTClassifier(
				cfg.OpenAI.OpenAIClientConfig(),
				cfg.OpenAI.Model,
				cfg.OpenAI.MaxTokens,
				cfg.OpenAI.Temperature,
				logger,
			)
		}
	}

	// Initialize bot
	b, err := bot.New(cfg.Telegram.Token, lib, store, clf, logger)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the bot
	logger.Info("Bot started", zap.String("storage", cfg.Storage.Backend))
	if err := b.Start(ctx); err != nil {
		logger.Fatal("Bot error", zap.Error(err))
	}
	logger.Info("Bot stopped")
}
