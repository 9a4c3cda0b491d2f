package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the prefixgen configuration file
// (~/.config/prefixgen/config.yaml). Sampling fields are pointers so "not
// set" can be told apart from zero values.
type Config struct {
	VocabPath string `yaml:"vocab_path"`

	// Sampling defaults
	Temperature *float64 `yaml:"temperature"`
	TopK        *int64   `yaml:"top_k"`
	TopP        *float64 `yaml:"top_p"`
	MaxAttempts *int64   `yaml:"max_attempts"`
	MaxTokens   *int64   `yaml:"max_tokens"`
	MinTokens   *int64   `yaml:"min_tokens"`
	Seed        *int64   `yaml:"seed"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string `yaml:"server_address"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "prefixgen", "config.yaml")
}

// loadConfig reads the config file. A missing file is not an error; flags
// and built-in defaults cover everything.
func loadConfig() (Config, error) {
	return loadConfigFrom(configPath())
}

func loadConfigFrom(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applySamplingConfig applies config file defaults to the complete command
// variables when the corresponding CLI flag was not explicitly set.
func applySamplingConfig(c *cli.Command, cfg Config,
	temp *float64, topK *int64, topP *float64,
	maxAttempts, maxTokens, minTokens, seed *int64,
) {
	if cfg.VocabPath != "" && !c.IsSet("vocab") {
		vocabPath = cfg.VocabPath
	}
	if cfg.Temperature != nil && !c.IsSet("temp") && !c.IsSet("temperature") {
		*temp = *cfg.Temperature
	}
	if cfg.TopK != nil && !c.IsSet("top-k") {
		*topK = *cfg.TopK
	}
	if cfg.TopP != nil && !c.IsSet("top-p") {
		*topP = *cfg.TopP
	}
	if cfg.MaxAttempts != nil && !c.IsSet("max-attempts") {
		*maxAttempts = *cfg.MaxAttempts
	}
	if cfg.MaxTokens != nil && !c.IsSet("max-tokens") {
		*maxTokens = *cfg.MaxTokens
	}
	if cfg.MinTokens != nil && !c.IsSet("min-tokens") {
		*minTokens = *cfg.MinTokens
	}
	if cfg.Seed != nil && !c.IsSet("seed") {
		*seed = *cfg.Seed
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}
