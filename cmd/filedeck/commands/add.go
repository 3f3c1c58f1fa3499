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
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/filedeck/cmd/filedeck/opts"
	"github.com/walteh/filedeck/pkg/filelist"
	"gitlab.com/tozd/go/errors"
)

// NewAddCmd creates the add command
func NewAddCmd(ro *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <path>...",
		Short: "Add files to the end of the list",
		Long: `Add appends files the way the file picker does. Files outside the picker's
extensions are added anyway, with a warning.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			metas := make([]filelist.FileMeta, 0, len(args))
			for _, arg := range args {
				abs, err := filepath.Abs(arg)
				if err != nil {
					return errors.Errorf("resolving %s: %w", arg, err)
				}
				if !slices.Contains(ro.Config.PickerExtensions, filelist.ExtensionOf(abs)) {
					ro.UserLogger.Warningf("%s is not a .%s file", filepath.Base(abs), strings.Join(ro.Config.PickerExtensions, "/."))
				}
				metas = append(metas, filelist.FileMeta{FullPath: abs, FileName: filepath.Base(abs)})
			}

			added, err := ro.Model.AddFiles(ctx, metas)
			if err != nil {
				return errors.Errorf("adding files: %w", err)
			}

			for _, f := range added {
				ro.UserLogger.Successf("added %s (%s)", f.Name, f.Size)
			}

			return finish(ro)
		},
	}

	return cmd
}
