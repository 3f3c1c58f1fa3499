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

package persist

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/filedeck/pkg/format"
)

func setupTestLogger(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.TestWriter{T: t}).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

func writeFile(t *testing.T, dir, name string, size int) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", size)), 0644))
	return path
}

func entryFor(path string, selected bool) Entry {
	return Entry{
		ID:          "id-" + filepath.Base(path),
		Name:        filepath.Base(path),
		Extension:   strings.TrimPrefix(filepath.Ext(path), "."),
		Description: "Imported file from " + filepath.Dir(path),
		Size:        "stale size",
		Modified:    "1999-01-01 00:00",
		FilePath:    path,
		IsSelected:  selected,
	}
}

func TestNew(t *testing.T) {
	dir := t.TempDir()

	s := New(dir)
	assert.Equal(t, filepath.Join(dir, "fileList.json"), s.Path())

	s = New(dir, WithFileName("other.json"))
	assert.Equal(t, filepath.Join(dir, "other.json"), s.Path())
}

func TestRoundTrip(t *testing.T) {
	ctx := setupTestLogger(t)
	files := t.TempDir()
	storage := t.TempDir()

	var saved []Entry
	for i, name := range []string{"c.xml", "a.json", "b.xml"} {
		saved = append(saved, entryFor(writeFile(t, files, name, 1024*(i+1)), i%2 == 0))
	}

	s := New(storage)
	s.Save(ctx, saved)
	require.True(t, s.Exists())

	loaded := New(storage).Load(ctx)
	require.Len(t, loaded, 3)

	for i, e := range loaded {
		assert.Equal(t, saved[i].ID, e.ID, "order must be preserved")
		assert.Equal(t, saved[i].Name, e.Name)
		assert.Equal(t, saved[i].Description, e.Description)
		assert.False(t, e.IsSelected, "selection must be reset")

		info, err := os.Stat(e.FilePath)
		require.NoError(t, err)
		assert.Equal(t, format.FormatSize(info.Size()), e.Size, "size comes from the file system")
		assert.Equal(t, format.FormatModified(info.ModTime()), e.Modified)
	}
	assert.Equal(t, "1 KB", loaded[0].Size)
	assert.Equal(t, "3 KB", loaded[2].Size)
}

func TestLoadDropsMissingFiles(t *testing.T) {
	ctx := setupTestLogger(t)
	files := t.TempDir()

	a := writeFile(t, files, "a.xml", 10)
	b := writeFile(t, files, "b.xml", 10)
	c := writeFile(t, files, "c.xml", 10)

	s := New(t.TempDir())
	s.Save(ctx, []Entry{entryFor(a, false), entryFor(b, false), entryFor(c, false)})

	require.NoError(t, os.Remove(b))

	loaded := s.Load(ctx)
	require.Len(t, loaded, 2)
	assert.Equal(t, a, loaded[0].FilePath)
	assert.Equal(t, c, loaded[1].FilePath)
}

func TestLoadDropsDirectories(t *testing.T) {
	ctx := setupTestLogger(t)
	files := t.TempDir()
	sub := filepath.Join(files, "dir.xml")
	require.NoError(t, os.Mkdir(sub, 0755))

	s := New(t.TempDir())
	s.Save(ctx, []Entry{entryFor(sub, false)})
	assert.Empty(t, s.Load(ctx))
}

func TestLoadFaults(t *testing.T) {
	ctx := setupTestLogger(t)

	tests := []struct {
		name    string
		content *string
	}{
		{name: "no_storage_file"},
		{name: "empty_file", content: ptr("")},
		{name: "null_document", content: ptr("null")},
		{name: "empty_array", content: ptr("[]")},
		{name: "malformed_json", content: ptr("{not json")},
		{name: "wrong_shape", content: ptr(`{"id": "x"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			s := New(dir)
			if tt.content != nil {
				require.NoError(t, os.WriteFile(s.Path(), []byte(*tt.content), 0644))
			}

			loaded := s.Load(ctx)
			assert.NotNil(t, loaded)
			assert.Empty(t, loaded)
		})
	}
}

func TestSaveFormat(t *testing.T) {
	ctx := setupTestLogger(t)
	files := t.TempDir()
	path := writeFile(t, files, "a.xml", 1)

	storage := filepath.Join(t.TempDir(), "nested", "app-data")
	s := New(storage)
	s.Save(ctx, []Entry{entryFor(path, true)})

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err, "parent directories should be created")

	assert.True(t, strings.HasPrefix(string(data), "[\n  {\n    \"id\""), "output should be indented")

	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	for _, key := range []string{"id", "name", "extension", "description", "size", "modified", "filePath", "isSelected"} {
		assert.Contains(t, raw[0], key)
	}
	assert.Len(t, raw[0], 8)

	_, err = os.Stat(s.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestSaveOverwritesAndNil(t *testing.T) {
	ctx := setupTestLogger(t)
	files := t.TempDir()
	s := New(t.TempDir())

	s.Save(ctx, []Entry{entryFor(writeFile(t, files, "a.xml", 1), false)})
	s.Save(ctx, nil)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
	assert.Empty(t, s.Load(ctx))
}

func TestSaveFailureIsSwallowed(t *testing.T) {
	ctx := setupTestLogger(t)
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	s := New(blocker)
	assert.NotPanics(t, func() {
		s.Save(ctx, []Entry{{ID: "1"}})
	})
	assert.False(t, s.Exists())
}

func TestClearAndExists(t *testing.T) {
	ctx := setupTestLogger(t)
	s := New(t.TempDir())

	assert.False(t, s.Exists())
	s.Clear(ctx)

	s.Save(ctx, []Entry{})
	assert.True(t, s.Exists())

	s.Clear(ctx)
	assert.False(t, s.Exists())
	assert.Empty(t, s.Load(ctx))
}

func TestSaveUsesLatestSnapshot(t *testing.T) {
	ctx := setupTestLogger(t)
	files := t.TempDir()
	s := New(t.TempDir())

	a := entryFor(writeFile(t, files, "a.xml", 1), false)
	b := entryFor(writeFile(t, files, "b.xml", 1), false)

	s.Save(ctx, []Entry{a, b})
	s.Save(ctx, []Entry{b, a})

	loaded := s.Load(ctx)
	require.Len(t, loaded, 2)
	assert.Equal(t, b.ID, loaded[0].ID)
	assert.Equal(t, a.ID, loaded[1].ID)
}

func ptr(s string) *string {
	return &s
}
