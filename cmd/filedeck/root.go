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

package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/filedeck/cmd/filedeck/commands"
	"github.com/walteh/filedeck/cmd/filedeck/opts"
	"github.com/walteh/filedeck/pkg/cache"
	"github.com/walteh/filedeck/pkg/config"
	"github.com/walteh/filedeck/pkg/execution"
	"github.com/walteh/filedeck/pkg/filelist"
	"github.com/walteh/filedeck/pkg/log"
	"github.com/walteh/filedeck/pkg/persist"
	"gitlab.com/tozd/go/errors"
)

const appName = "filedeck"

type rootFlags struct {
	configFile string
	storageDir string
	debug      bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	ro := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Keep an ordered deck of xml and json files",
		Long: `filedeck keeps an ordered list of files between runs, previews their
content through a bounded cache and simulates running them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(flags.debug)
			ctx := zerolog.DefaultContextLogger.WithContext(cmd.Context())

			loaded, err := newRootOpts(ctx, flags)
			if err != nil {
				return err
			}
			*ro = *loaded
			cmd.SetContext(ctx)
			return nil
		},
	}

	addRootFlags(cmd, flags)

	cmd.AddCommand(
		commands.NewAddCmd(ro),
		commands.NewDropCmd(ro),
		commands.NewListCmd(ro),
		commands.NewShowCmd(ro),
		commands.NewUpCmd(ro),
		commands.NewDownCmd(ro),
		commands.NewRemoveCmd(ro),
		commands.NewRunCmd(ro),
		commands.NewClearCmd(ro),
		newVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", defaultConfigPath(), "config file path (.json, .yaml or .hcl)")
	cmd.PersistentFlags().StringVar(&flags.storageDir, "storage-dir", "", "directory holding the persisted file list")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
}

// mirrorLevel keeps console messages off stderr unless they are warnings or
// debugging is on.
func mirrorLevel(debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.WarnLevel
}

func defaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(dir, appName)
}

func defaultConfigPath() string {
	return filepath.Join(defaultDir(), appName+".yaml")
}

// resolveStorageDir picks the flag, then FILEDECK_STORAGE_DIR or the config
// file (already merged into cfg), then the user config directory.
func resolveStorageDir(flagValue string, cfg *config.Config) string {
	switch {
	case flagValue != "":
		return flagValue
	case cfg.StorageDir != "":
		return cfg.StorageDir
	default:
		return defaultDir()
	}
}

// newRootOpts creates a new RootOpts with initialized dependencies
func newRootOpts(ctx context.Context, flags *rootFlags) (*opts.RootOpts, error) {
	cfg, err := config.Load(ctx, flags.configFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	level := cfg.Level()
	if flags.debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	storageDir, err := filepath.Abs(resolveStorageDir(flags.storageDir, cfg))
	if err != nil {
		return nil, errors.Errorf("resolving storage directory: %w", err)
	}

	store := persist.New(storageDir, persist.WithFileName(cfg.StorageFile))

	contentCache := cache.New(
		cache.WithMaxEntries(cfg.Cache.MaxEntries),
		cache.WithExpiration(cfg.Cache.ExpirationDuration()),
		cache.WithLogger(*zerolog.Ctx(ctx)),
	)

	model, err := filelist.New(ctx, filelist.Options{
		Store:              store,
		Cache:              contentCache,
		AcceptedExtensions: cfg.AcceptedExtensions,
	})
	if err != nil {
		return nil, errors.Errorf("creating file list: %w", err)
	}

	logger := zerolog.Ctx(ctx)
	model.Subscribe(func(c filelist.Change) {
		logger.Debug().Str("kind", c.Kind.String()).Ints("indices", c.Indices).Str("id", c.ID).Msg("list changed")
	})

	model.Load(ctx)

	logger.Debug().Str("storage", store.Path()).Int("files", model.Len()).Msg("file list ready")

	return &opts.RootOpts{
		Config:     cfg,
		StorageDir: storageDir,
		Store:      store,
		Cache:      contentCache,
		Model:      model,
		Runner:     execution.NewRunner(cfg.Execution.Steps, cfg.Execution.StepDelayDuration()),
		UserLogger: log.New(os.Stdout, mirrorLevel(flags.debug)),
	}, nil
}
