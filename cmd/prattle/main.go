package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/driftline/prattle/pkg/chain"
	"github.com/driftline/prattle/pkg/corpus"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "./config.json", "path to the JSON config file")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("prattle %s (%s, built %s)\n", Version, Commit, BuildDate)
		return
	}

	baseLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	if err := run(*configPath, baseLogger); err != nil {
		baseLogger.Error("prattle failed", "error", err)
		os.Exit(1)
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func run(configPath string, baseLogger *slog.Logger) error {
	config, err := LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(config.LogLevel)}))
	ctx := context.Background()

	db, err := initDB(config.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	if err = corpus.SetupSchema(db); err != nil {
		return fmt.Errorf("failed to set up corpus schema: %w", err)
	}

	store, err := corpus.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create corpus store: %w", err)
	}
	store.SetLogger(logger)
	defer store.Close()

	text, err := resolveCorpus(ctx, config, store)
	if err != nil {
		return err
	}

	model := chain.NewModel()
	model.SetLogger(logger)
	if err = model.Train(text); err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	stats := model.Stats()
	logger.Debug("model built",
		"vocab_size", stats.VocabSize,
		"edges", stats.EdgeCount,
		"dead_ends", stats.DeadEnds,
		"starters", stats.Starters,
	)

	samplerOpts := []chain.SamplerOption{}
	if config.Seed != 0 {
		samplerOpts = append(samplerOpts, chain.WithSeed(config.Seed))
	}
	sampler := chain.NewSampler(model, samplerOpts...)
	sampler.SetLogger(logger)

	walkOpts := []chain.WalkOption{
		chain.WithMaxOutputSize(config.MaxOutputBytes),
		chain.WithRetries(config.Retries),
		chain.WithStartAttempts(config.StartAttempts),
	}

	for i := 0; i < len(config.SentenceEndings); i++ {
		ending := config.SentenceEndings[i]
		out, ok := sampler.Sentence(ending, walkOpts...)
		if !ok {
			logger.Warn("no sentence produced within retry budget", "ending", string(ending))
			continue
		}
		fmt.Println(out)
		fmt.Println()
		if err = store.LogGeneration(ctx, config.CorpusName, out, chain.StopTerminal.String()); err != nil {
			logger.Warn("failed to log generation", "error", err)
		}
	}

	return nil
}

// resolveCorpus returns the cleaned corpus text: from the configured file
// (caching it in the store), or from the store when no file is configured.
func resolveCorpus(ctx context.Context, config *Config, store *corpus.Store) (string, error) {
	if config.CorpusPath != "" {
		text, err := corpus.Load(config.CorpusPath)
		if err != nil {
			return "", fmt.Errorf("failed to load corpus from '%s': %w", config.CorpusPath, err)
		}
		if err = store.Put(ctx, config.CorpusName, text); err != nil {
			return "", err
		}
		return text, nil
	}
	text, err := store.Get(ctx, config.CorpusName)
	if err != nil {
		return "", fmt.Errorf("failed to load corpus from store: %w", err)
	}
	return text, nil
}
