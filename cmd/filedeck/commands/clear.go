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
	"github.com/spf13/cobra"
	"github.com/walteh/filedeck/cmd/filedeck/opts"
)

// NewClearCmd creates the clear command
func NewClearCmd(ro *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget the persisted file list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// pending saves from Load must land before the file goes
			ro.Model.Wait()

			if !ro.Store.Exists() {
				ro.UserLogger.Info("nothing to clear")
				return finish(ro)
			}

			ro.Store.Clear(cmd.Context())
			ro.Model.ClearCache()
			ro.Model.ClearErrors()
			ro.UserLogger.Successf("removed %s", ro.Store.Path())

			return finish(ro)
		},
	}

	return cmd
}
