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
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Empty(t, cfg.StorageDir)
	assert.Equal(t, "fileList.json", cfg.StorageFile)
	assert.Equal(t, []string{"xml", "json"}, cfg.AcceptedExtensions)
	assert.Equal(t, []string{"xml", "vecto"}, cfg.PickerExtensions)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
	assert.Equal(t, 50, cfg.Cache.MaxEntries)
	assert.Equal(t, 30*time.Minute, cfg.Cache.ExpirationDuration())
	assert.Equal(t, 100, cfg.Execution.Steps)
	assert.Equal(t, 50*time.Millisecond, cfg.Execution.StepDelayDuration())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantErr  bool
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name: "json",
			file: "filedeck.json",
			content: `{
				"storage_dir": "/tmp/deck",
				"accepted_extensions": [".XML"],
				"cache": {"max_entries": 5, "expiration": "10s"}
			}`,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/tmp/deck", cfg.StorageDir)
				assert.Equal(t, []string{"xml"}, cfg.AcceptedExtensions)
				assert.Equal(t, 5, cfg.Cache.MaxEntries)
				assert.Equal(t, 10*time.Second, cfg.Cache.ExpirationDuration())
				assert.Equal(t, 100, cfg.Execution.Steps, "unset block gets defaults")
			},
		},
		{
			name:    "json_unknown_field",
			file:    "filedeck.json",
			content: `{"storage_dirr": "/tmp"}`,
			wantErr: true,
		},
		{
			name: "yaml",
			file: "filedeck.yaml",
			content: `
storage_file: decks.json
log_level: debug
execution:
  steps: 10
  step_delay: 1ms
`,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "decks.json", cfg.StorageFile)
				assert.Equal(t, zerolog.DebugLevel, cfg.Level())
				assert.Equal(t, 10, cfg.Execution.Steps)
				assert.Equal(t, time.Millisecond, cfg.Execution.StepDelayDuration())
			},
		},
		{
			name:    "empty_yaml",
			file:    "filedeck.yml",
			content: "",
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name:    "yaml_unknown_field",
			file:    "filedeck.yml",
			content: "nope: true\n",
			wantErr: true,
		},
		{
			name: "hcl",
			file: "filedeck.hcl",
			content: `
storage_dir = "/var/deck"
picker_extensions = ["xml"]

cache {
  max_entries = 2
}
`,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/var/deck", cfg.StorageDir)
				assert.Equal(t, []string{"xml"}, cfg.PickerExtensions)
				assert.Equal(t, 2, cfg.Cache.MaxEntries)
				assert.Equal(t, 30*time.Minute, cfg.Cache.ExpirationDuration())
			},
		},
		{
			name:    "hcl_syntax_error",
			file:    "filedeck.hcl",
			content: `storage_dir = `,
			wantErr: true,
		},
		{
			name:    "unsupported_extension",
			file:    "filedeck.toml",
			content: `storage_dir = "x"`,
			wantErr: true,
		},
		{
			name:    "invalid_duration",
			file:    "filedeck.json",
			content: `{"cache": {"expiration": "soon"}}`,
			wantErr: true,
		},
		{
			name:    "negative_capacity",
			file:    "filedeck.json",
			content: `{"cache": {"max_entries": -1}}`,
			wantErr: true,
		},
		{
			name:    "bad_log_level",
			file:    "filedeck.json",
			content: `{"log_level": "loud"}`,
			wantErr: true,
		},
		{
			name:    "storage_file_with_separator",
			file:    "filedeck.json",
			content: `{"storage_file": "nested/list.json"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)

			cfg, err := Load(testContext(t), path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(testContext(t), filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FILEDECK_STORAGE_DIR", "/env/deck")
	t.Setenv("FILEDECK_CACHE_MAX_ENTRIES", "7")
	t.Setenv("FILEDECK_CACHE_EXPIRATION", "1m")
	t.Setenv("FILEDECK_LOG_LEVEL", "warn")

	path := writeConfig(t, "filedeck.json", `{"storage_dir": "/file/deck", "cache": {"max_entries": 3}}`)

	cfg, err := Load(testContext(t), path)
	require.NoError(t, err)

	assert.Equal(t, "/env/deck", cfg.StorageDir)
	assert.Equal(t, 7, cfg.Cache.MaxEntries)
	assert.Equal(t, time.Minute, cfg.Cache.ExpirationDuration())
	assert.Equal(t, zerolog.WarnLevel, cfg.Level())
}

func TestLoadEnvInvalid(t *testing.T) {
	t.Setenv("FILEDECK_CACHE_MAX_ENTRIES", "many")

	_, err := Load(testContext(t), filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestHCLReadsEnvironment(t *testing.T) {
	t.Setenv("FILEDECK_TEST_HOME", "/home/deck")

	cfg, err := (&HCLParser{}).Parse(testContext(t), []byte(`storage_dir = "${env.FILEDECK_TEST_HOME}/data"`))
	require.NoError(t, err)
	assert.Equal(t, "/home/deck/data", cfg.StorageDir)
}

func TestGetParser(t *testing.T) {
	tests := []struct {
		file string
		want Parser
	}{
		{"a.json", &JSONParser{}},
		{"A.JSON", &JSONParser{}},
		{"a.yaml", &YAMLParser{}},
		{"a.yml", &YAMLParser{}},
		{"a.hcl", &HCLParser{}},
		{"a.toml", nil},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got := GetParser(tt.file)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.IsType(t, tt.want, got)
		})
	}
}
