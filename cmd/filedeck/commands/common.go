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

package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/walteh/filedeck/cmd/filedeck/opts"
	"github.com/walteh/filedeck/pkg/filelist"
	"github.com/walteh/filedeck/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// resolve finds a file by its full id or a unique id prefix, as printed by list.
func resolve(m *filelist.Model, arg string) (filelist.FileReference, error) {
	if ref, ok := m.Get(arg); ok {
		return ref, nil
	}

	var matches []filelist.FileReference
	for _, f := range m.Files() {
		if strings.HasPrefix(f.ID, arg) {
			matches = append(matches, f)
		}
	}

	switch len(matches) {
	case 0:
		return filelist.FileReference{}, errors.WithMessagef(filelist.ErrNotFound, "%s", arg)
	case 1:
		return matches[0], nil
	default:
		return filelist.FileReference{}, errors.Errorf("id prefix %q matches %d files", arg, len(matches))
	}
}

// selectOnly makes the given files the whole selection. Selection is not
// persisted, so a fresh process always starts with none.
func selectOnly(m *filelist.Model, args []string) ([]filelist.FileReference, error) {
	refs := make([]filelist.FileReference, 0, len(args))
	want := make(map[string]bool, len(args))
	for _, arg := range args {
		ref, err := resolve(m, arg)
		if err != nil {
			return nil, err
		}
		if !want[ref.ID] {
			refs = append(refs, ref)
		}
		want[ref.ID] = true
	}

	for _, f := range m.Files() {
		if f.IsSelected == want[f.ID] {
			continue
		}
		if err := m.ToggleSelection(f.ID); err != nil {
			return nil, errors.Errorf("selecting %s: %w", f.Name, err)
		}
	}

	return refs, nil
}

// finish waits for background saves and loads, then prints the errors the
// model collected along the way. Each printed error is dismissed; one that
// arrives meanwhile stays for the next pass.
func finish(ro *opts.RootOpts) error {
	ro.Model.Wait()

	for _, msg := range ro.Model.Errors() {
		ro.UserLogger.Error(msg)
		if err := ro.Model.DismissError(0); err != nil {
			return errors.Errorf("dismissing error: %w", err)
		}
	}

	return nil
}

func rowOf(f filelist.FileReference) log.Row {
	return log.Row{
		ID:         f.ID,
		Name:       f.Name,
		Extension:  f.Extension,
		Size:       f.Size,
		Modified:   f.Modified,
		IsSelected: f.IsSelected,
		IsActive:   f.IsActive,
		IsCached:   f.IsCached,
	}
}

func printRows(ctx context.Context, ro *opts.RootOpts) {
	files := ro.Model.Files()
	ro.UserLogger.Header(countLabel(len(files)))
	for _, f := range files {
		ro.UserLogger.LogFileRow(ctx, rowOf(f))
	}
}

func countLabel(n int) string {
	if n == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%d files", n)
}
