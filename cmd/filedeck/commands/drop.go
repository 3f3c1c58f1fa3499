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
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/filedeck/cmd/filedeck/opts"
	"github.com/walteh/filedeck/pkg/filelist"
	"gitlab.com/tozd/go/errors"
)

// NewDropCmd creates the drop command
func NewDropCmd(ro *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drop <pattern>...",
		Short: "Drop files matching glob patterns onto the list",
		Long: `Drop expands patterns such as "configs/**/*.xml" and adds every match.
Only accepted extensions are added; the rest are reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			wd, err := os.Getwd()
			if err != nil {
				return errors.Errorf("getting working directory: %w", err)
			}

			added, err := ro.Model.Drop(ctx, filelist.GlobDropSource{Base: wd, Patterns: args})
			if err != nil {
				// already in the model's error list
				return finish(ro)
			}

			if len(added) == 0 {
				ro.UserLogger.Info("nothing added")
			}
			for _, f := range added {
				ro.UserLogger.Successf("added %s (%s)", f.Name, f.Size)
			}

			return finish(ro)
		},
	}

	return cmd
}
