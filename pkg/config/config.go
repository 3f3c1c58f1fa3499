// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/filedeck/pkg/cache"
	"github.com/walteh/filedeck/pkg/execution"
	"github.com/walteh/filedeck/pkg/persist"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 💾 CacheConfig bounds the content cache
type CacheConfig struct {
	MaxEntries int    `json:"max_entries,omitempty" yaml:"max_entries,omitempty" hcl:"max_entries,optional" split_words:"true"`
	Expiration string `json:"expiration,omitempty" yaml:"expiration,omitempty" hcl:"expiration,optional" split_words:"true"`
}

// 🏃 ExecutionConfig tunes the simulated run
type ExecutionConfig struct {
	Steps     int    `json:"steps,omitempty" yaml:"steps,omitempty" hcl:"steps,optional" split_words:"true"`
	StepDelay string `json:"step_delay,omitempty" yaml:"step_delay,omitempty" hcl:"step_delay,optional" split_words:"true"`
}

// 📚 Config represents the complete configuration
type Config struct {
	StorageDir         string           `json:"storage_dir,omitempty" yaml:"storage_dir,omitempty" hcl:"storage_dir,optional" split_words:"true"`
	StorageFile        string           `json:"storage_file,omitempty" yaml:"storage_file,omitempty" hcl:"storage_file,optional" split_words:"true"`
	AcceptedExtensions []string         `json:"accepted_extensions,omitempty" yaml:"accepted_extensions,omitempty" hcl:"accepted_extensions,optional" split_words:"true"`
	PickerExtensions   []string         `json:"picker_extensions,omitempty" yaml:"picker_extensions,omitempty" hcl:"picker_extensions,optional" split_words:"true"`
	LogLevel           string           `json:"log_level,omitempty" yaml:"log_level,omitempty" hcl:"log_level,optional" split_words:"true"`
	Cache              *CacheConfig     `json:"cache,omitempty" yaml:"cache,omitempty" hcl:"cache,block" split_words:"true"`
	Execution          *ExecutionConfig `json:"execution,omitempty" yaml:"execution,omitempty" hcl:"execution,block" split_words:"true"`
}

// 🏭 Default returns a config with every default filled in. StorageDir is
// left empty; the caller decides where application data lives.
func Default() *Config {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

// 🎯 Load loads the configuration from a file and applies FILEDECK_*
// environment overrides. A missing file yields the defaults.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		p := GetParser(path)
		if p == nil {
			return nil, errors.Errorf("no parser found for file: %s", path)
		}
		cfg, err = p.Parse(ctx, data)
		if err != nil {
			return nil, errors.Errorf("parsing config: %w", err)
		}
	case os.IsNotExist(err):
		logger.Debug().Str("path", path).Msg("config file not found, using defaults")
	default:
		return nil, errors.Errorf("reading config file: %w", err)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate fills defaults and checks values
func (cfg *Config) Validate() error {
	if cfg.StorageDir != "" {
		cfg.StorageDir = filepath.Clean(cfg.StorageDir)
	}
	if cfg.StorageFile == "" {
		cfg.StorageFile = persist.DefaultFileName
	}
	if strings.ContainsRune(cfg.StorageFile, filepath.Separator) {
		return errors.Errorf("storage_file must be a file name, got %q", cfg.StorageFile)
	}

	if len(cfg.AcceptedExtensions) == 0 {
		cfg.AcceptedExtensions = []string{"xml", "json"}
	}
	if len(cfg.PickerExtensions) == 0 {
		cfg.PickerExtensions = []string{"xml", "vecto"}
	}
	cfg.AcceptedExtensions = normalizeExtensions(cfg.AcceptedExtensions)
	cfg.PickerExtensions = normalizeExtensions(cfg.PickerExtensions)

	if cfg.LogLevel == "" {
		cfg.LogLevel = zerolog.InfoLevel.String()
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return errors.Errorf("log_level: %w", err)
	}

	if cfg.Cache == nil {
		cfg.Cache = &CacheConfig{}
	}
	if cfg.Cache.MaxEntries < 0 {
		return errors.Errorf("cache.max_entries must be positive, got %d", cfg.Cache.MaxEntries)
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = cache.DefaultMaxEntries
	}
	if cfg.Cache.Expiration == "" {
		cfg.Cache.Expiration = cache.DefaultExpiration.String()
	}
	if err := positiveDuration("cache.expiration", cfg.Cache.Expiration); err != nil {
		return err
	}

	if cfg.Execution == nil {
		cfg.Execution = &ExecutionConfig{}
	}
	if cfg.Execution.Steps < 0 {
		return errors.Errorf("execution.steps must be positive, got %d", cfg.Execution.Steps)
	}
	if cfg.Execution.Steps == 0 {
		cfg.Execution.Steps = execution.DefaultSteps
	}
	if cfg.Execution.StepDelay == "" {
		cfg.Execution.StepDelay = execution.DefaultStepDelay.String()
	}
	if err := positiveDuration("execution.step_delay", cfg.Execution.StepDelay); err != nil {
		return err
	}

	return nil
}

// Level returns the parsed log level. Call after Validate.
func (cfg *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// ExpirationDuration returns the parsed expiration window. Call after Validate.
func (c *CacheConfig) ExpirationDuration() time.Duration {
	d, _ := time.ParseDuration(c.Expiration)
	return d
}

// StepDelayDuration returns the parsed step delay. Call after Validate.
func (c *ExecutionConfig) StepDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.StepDelay)
	return d
}

func positiveDuration(field, value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return errors.Errorf("%s: %w", field, err)
	}
	if d <= 0 {
		return errors.Errorf("%s must be positive, got %s", field, value)
	}
	return nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}
