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

// Package persist mirrors the ordered file list to a JSON document on disk.
//
// Persistence is best effort. Store never returns an error: I/O and
// serialization faults are logged through the context logger and the caller
// carries on with an empty list (Load) or an unchanged file (Save).
package persist

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/filedeck/pkg/format"
	"gitlab.com/tozd/go/errors"
)

const DefaultFileName = "fileList.json"

// 📄 Entry is the on-disk shape of one file in the list
type Entry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Extension   string `json:"extension"`
	Description string `json:"description"`
	Size        string `json:"size"`
	Modified    string `json:"modified"`
	FilePath    string `json:"filePath"`
	IsSelected  bool   `json:"isSelected"`
}

// 💾 Store reads and writes the list snapshot
type Store struct {
	path string

	// serializes writers sharing the temp file
	mu sync.Mutex
}

type Option func(*Store)

// WithFileName overrides the snapshot file name inside the storage directory.
func WithFileName(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.path = filepath.Join(filepath.Dir(s.path), name)
		}
	}
}

// 🏭 New creates a store that keeps its snapshot in dir
func New(dir string, opts ...Option) *Store {
	s := &Store{
		path: filepath.Join(filepath.Clean(dir), DefaultFileName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Path() string {
	return s.path
}

// 📝 Save overwrites the snapshot with entries, in order.
func (s *Store) Save(ctx context.Context, entries []Entry) {
	logger := zerolog.Ctx(ctx)

	if err := s.write(entries); err != nil {
		logger.Error().Err(err).Str("path", s.path).Msg("saving file list")
		return
	}

	logger.Debug().Str("path", s.path).Int("entries", len(entries)).Msg("saved file list")
}

func (s *Store) write(entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errors.Errorf("marshaling entries: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// 📂 Load reads the snapshot back.
//
// Entries whose file no longer exists are dropped without any error. Size and
// modified time of the survivors come from the file system, not from the
// snapshot, and selection is always reset.
func (s *Store) Load(ctx context.Context) []Entry {
	logger := zerolog.Ctx(ctx)

	stored, err := s.read()
	if err != nil {
		logger.Error().Err(err).Str("path", s.path).Msg("loading file list")
		return []Entry{}
	}

	entries := make([]Entry, 0, len(stored))
	for _, e := range stored {
		info, err := os.Stat(e.FilePath)
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Warn().Err(err).Str("file", e.FilePath).Msg("checking persisted file")
			}
			logger.Debug().Str("file", e.FilePath).Msg("dropping persisted entry, file is gone")
			continue
		}
		if info.IsDir() {
			logger.Debug().Str("file", e.FilePath).Msg("dropping persisted entry, path is a directory")
			continue
		}

		e.Size = format.FormatSize(info.Size())
		e.Modified = format.FormatModified(info.ModTime())
		e.IsSelected = false
		entries = append(entries, e)
	}

	logger.Debug().
		Str("path", s.path).
		Int("stored", len(stored)).
		Int("loaded", len(entries)).
		Msg("loaded file list")

	return entries
}

func (s *Store) read() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Errorf("reading file list: %w", err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Errorf("parsing file list: %w", err)
	}

	return entries, nil
}

// 🗑️ Clear deletes the snapshot if there is one.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		zerolog.Ctx(ctx).Error().Err(err).Str("path", s.path).Msg("clearing file list")
	}
}

// Exists reports whether a snapshot file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}
