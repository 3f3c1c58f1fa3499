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
	"github.com/kelseyhightower/envconfig"
	"gitlab.com/tozd/go/errors"
)

// EnvPrefix prefixes every environment override, e.g. FILEDECK_STORAGE_DIR
// or FILEDECK_CACHE_MAX_ENTRIES.
const EnvPrefix = "FILEDECK"

// 🌱 ApplyEnv overlays FILEDECK_* environment variables on cfg. Unset
// variables leave the field untouched.
func ApplyEnv(cfg *Config) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return errors.Errorf("reading environment: %w", err)
	}
	return nil
}
