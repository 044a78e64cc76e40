package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xaenox/st-notes/internal/classifier"
	"github.com/xaenox/st-notes/internal/library"
	"github.com/xaenox/st-notes/internal/notes"
	"github.com/xaenox/st-notes/internal/storage"
	"github.com/xaenox/st-notes/pkg/config"
	"go.uber.org/zap"
)

// app carries what every subcommand needs once the root has loaded config.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "stnotes",
		Short: "Manage ST-Notes books, categories and notes",
		Long: `stnotes works on the same key-value store as the ST-Notes bot.
Books hold notes written in one of several templates (cornell, lined,
feynman, charting, mindmap); categories group books.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(a.configPath)
			if err != nil {
				return err
			}
			if a.verbose {
				cfg.Log.Level = "debug"
			}

			logger, err := cfg.Log.Logger()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(newBooksCmd(a), newCategoriesCmd(a), newNotesCmd(a))
	return rootCmd
}

// workspace is an open store with the services built on it.
type workspace struct {
	kv      storage.Storage
	library *library.Library
	notes   *notes.KVStore
}

func (a *app) open() (*workspace, error) {
	kv, err := storage.Open(a.cfg.StorageOptions(), a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	keys := a.cfg.Keyspace()
	return &workspace{
		kv:      kv,
		library: library.New(kv, keys, a.logger),
		notes:   notes.NewKVStore(kv, keys, a.logger),
	}, nil
}

func (w *workspace) Close() error {
	return w.kv.Close()
}

func (a *app) classifier() classifier.Classifier {
	if !a.cfg.Classifier.UseGPT || a.cfg.OpenAI.APIKey == "" {
		return classifier.NewKeywordClassifier()
	}
	return classifier.NewGPTClassifier(
		a.cfg.OpenAI.OpenAIClientConfig(),
		a.cfg.OpenAI.Model,
		a.cfg.OpenAI.MaxTokens,
		a.cfg.OpenAI.Temperature,
		a.logger,
	)
}
