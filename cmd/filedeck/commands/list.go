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
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/filedeck/cmd/filedeck/opts"
	"gitlab.com/tozd/go/errors"
)

// NewListCmd creates the list command
func NewListCmd(ro *opts.RootOpts) *cobra.Command {
	var asTable bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the file list in order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if !asTable {
				printRows(ctx, ro)
				return finish(ro)
			}

			data := pterm.TableData{{"ID", "Name", "Type", "Size", "Modified", "Path"}}
			for _, f := range ro.Model.Files() {
				data = append(data, []string{f.ID, f.Name, f.Extension, f.Size, f.Modified, f.FilePath})
			}
			if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
				return errors.Errorf("rendering table: %w", err)
			}

			return finish(ro)
		},
	}

	cmd.Flags().BoolVar(&asTable, "table", false, "render as a table with full ids and paths")

	return cmd
}
