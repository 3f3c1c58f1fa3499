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

// NewRemoveCmd creates the rm command
func NewRemoveCmd(ro *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"remove"},
		Short:   "Remove files from the list",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, err := selectOnly(ro.Model, args)
			if err != nil {
				return err
			}

			removed := ro.Model.DeleteSelected(cmd.Context())
			for _, f := range refs {
				ro.UserLogger.Successf("removed %s", f.Name)
			}
			if removed != len(refs) {
				ro.UserLogger.Warningf("removed %d of %d files", removed, len(refs))
			}

			return finish(ro)
		},
	}

	return cmd
}
