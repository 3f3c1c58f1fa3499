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

package filelist

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/walteh/filedeck/pkg/format"
	"github.com/walteh/filedeck/pkg/persist"
	"gitlab.com/tozd/go/errors"
)

// 📄 FileReference is one row of the list
type FileReference struct {
	ID          string
	Name        string
	Extension   string // lower case, no leading dot
	Description string
	Size        string
	Modified    string
	FilePath    string

	// transient, never restored from disk
	IsSelected bool
	IsActive   bool
	IsCached   bool
}

// FileMeta is what a picker or drop surface knows about a file.
type FileMeta struct {
	FullPath string
	FileName string
}

// ExtensionOf returns the text after the final dot of name, lower cased.
func ExtensionOf(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// describe builds a reference from the file system. Only the path and name
// come from meta; extension, size and modified time are read from disk.
func describe(meta FileMeta, id string) (*FileReference, error) {
	info, err := os.Stat(meta.FullPath)
	if err != nil {
		return nil, errors.Errorf("reading file info: %w", err)
	}
	if info.IsDir() {
		return nil, errors.Errorf("%s is a directory", meta.FullPath)
	}

	name := meta.FileName
	if name == "" {
		name = filepath.Base(meta.FullPath)
	}

	return &FileReference{
		ID:          id,
		Name:        name,
		Extension:   ExtensionOf(meta.FullPath),
		Description: "Imported file from " + filepath.Dir(meta.FullPath),
		Size:        format.FormatSize(info.Size()),
		Modified:    format.FormatModified(info.ModTime()),
		FilePath:    meta.FullPath,
	}, nil
}

func (f *FileReference) toEntry() persist.Entry {
	return persist.Entry{
		ID:          f.ID,
		Name:        f.Name,
		Extension:   f.Extension,
		Description: f.Description,
		Size:        f.Size,
		Modified:    f.Modified,
		FilePath:    f.FilePath,
		IsSelected:  f.IsSelected,
	}
}

func fromEntry(e persist.Entry) *FileReference {
	return &FileReference{
		ID:          e.ID,
		Name:        e.Name,
		Extension:   e.Extension,
		Description: e.Description,
		Size:        e.Size,
		Modified:    e.Modified,
		FilePath:    e.FilePath,
	}
}
