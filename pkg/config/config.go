// Package config loads ryakugo settings from a YAML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// EnvConfigPath names the environment variable holding the config file path.
const EnvConfigPath = "RYAKUGO_CONFIG"

// DefaultConfigPath is read when present and no path was given.
const DefaultConfigPath = "./ryakugo.yaml"

// Config is the root configuration.
type Config struct {
	Extract ExtractConfig `yaml:"extract"`
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Batch   BatchConfig   `yaml:"batch"`
	Watch   WatchConfig   `yaml:"watch"`
	Log     LogConfig     `yaml:"log"`
}

// ExtractConfig controls the extractor and pair post-processing.
type ExtractConfig struct {
	MaxDepth  int  `yaml:"max_depth"  env:"RYAKUGO_MAX_DEPTH"  env-default:"64"`
	Dedupe    bool `yaml:"dedupe"     env:"RYAKUGO_DEDUPE"     env-default:"false"`
	Sort      bool `yaml:"sort"       env:"RYAKUGO_SORT"       env-default:"false"`
	OnlyParen bool `yaml:"only_paren" env:"RYAKUGO_ONLY_PAREN" env-default:"false"`
}

// InputConfig selects and decodes source files.
type InputConfig struct {
	Encoding string   `yaml:"encoding" env:"RYAKUGO_ENCODING" env-default:"utf-8"`
	Include  []string `yaml:"include"  env:"RYAKUGO_INCLUDE"  env-default:"**/*.txt" env-separator:","`
	Exclude  []string `yaml:"exclude"  env:"RYAKUGO_EXCLUDE"  env-separator:","`
}

// OutputConfig holds the result format and optional knowledge base path.
type OutputConfig struct {
	Format string `yaml:"format" env:"RYAKUGO_FORMAT" env-default:"json"`
	DB     string `yaml:"db"     env:"RYAKUGO_DB"`
}

// BatchConfig controls directory extraction.
type BatchConfig struct {
	Workers int `yaml:"workers" env:"RYAKUGO_WORKERS" env-default:"4"`
}

// WatchConfig controls the file watcher.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" env:"RYAKUGO_WATCH_DEBOUNCE" env-default:"200ms"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"RYAKUGO_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"RYAKUGO_LOG_FORMAT" env-default:"text"`
}

// Load reads configuration with priority ENV > YAML > defaults.
// The YAML path is path if non-empty, then RYAKUGO_CONFIG, then
// ./ryakugo.yaml. A missing file is an error only when the path was given
// explicitly.
func Load(path string) (*Config, error) {
	var cfg Config

	explicitPath := path != ""
	if !explicitPath {
		path = os.Getenv(EnvConfigPath)
		explicitPath = path != ""
	}
	if !explicitPath {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}
