package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "sol2clar.yaml"

type Config struct {
	Output struct {
		Dir       string `yaml:"dir"`
		Extension string `yaml:"extension"`
		Manifest  bool   `yaml:"manifest"`
	} `yaml:"output"`
	Compile struct {
		Concurrency int  `yaml:"concurrency"`
		Lint        bool `yaml:"lint"`
	} `yaml:"compile"`
}

// Default returns the configuration used when no file sets a value.
func Default() *Config {
	cfg := &Config{}
	cfg.Output.Dir = "."
	cfg.Output.Extension = ".clar"
	cfg.Compile.Concurrency = 4
	return cfg
}

// Load builds the CLI configuration. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config over the defaults
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// 3. Override with Environment Variables if present
	if dir := os.Getenv("SOL2CLAR_OUT_DIR"); dir != "" {
		cfg.Output.Dir = dir
	}
	if ext := os.Getenv("SOL2CLAR_EXTENSION"); ext != "" {
		cfg.Output.Extension = ext
	}
	if n := os.Getenv("SOL2CLAR_CONCURRENCY"); n != "" {
		v, err := strconv.Atoi(n)
		if err != nil {
			return nil, fmt.Errorf("SOL2CLAR_CONCURRENCY: %w", err)
		}
		cfg.Compile.Concurrency = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the compiler cannot use.
func (c *Config) Validate() error {
	if c.Compile.Concurrency < 1 {
		return fmt.Errorf("compile.concurrency must be at least 1, got %d", c.Compile.Concurrency)
	}
	if c.Output.Extension == "" {
		return errors.New("output.extension must not be empty")
	}
	return nil
}
