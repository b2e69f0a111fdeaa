package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
)

// Config holds all settings for a prattle run.
type Config struct {
	LogLevel     string `json:"log_level"`
	DatabasePath string `json:"database_path"`
	// CorpusPath, when set, is read, cleaned and cached in the store under
	// CorpusName. When empty, the corpus is fetched from the store instead.
	CorpusPath      string `json:"corpus_path"`
	CorpusName      string `json:"corpus_name"`
	SentenceEndings string `json:"sentence_endings"`
	MaxOutputBytes  int    `json:"max_output_bytes"`
	Retries         int    `json:"retries"`
	StartAttempts   int    `json:"start_attempts"`
	// Seed makes generation deterministic when non-zero.
	Seed uint64 `json:"seed"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:        "info",
		DatabasePath:    "./data/prattle.db?_journal_mode=WAL&_busy_timeout=5000",
		CorpusPath:      "./pg84.txt",
		CorpusName:      "pg84",
		SentenceEndings: "?!",
		MaxOutputBytes:  4096,
		Retries:         1000,
		StartAttempts:   10000,
		Seed:            0,
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		// If the file doesn't exist, create it with the default config.
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// Log a warning instead of failing, as the program can still run with defaults.
				fmt.Printf("warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}
