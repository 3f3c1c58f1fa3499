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
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/filedeck/cmd/filedeck/opts"
)

// NewShowCmd creates the show command
func NewShowCmd(ro *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>...",
		Short: "Make a file active and print its content",
		Long: `Show activates each file in turn and prints its details and content.
Content goes through the content cache, so showing a file twice reads it once.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			for _, arg := range args {
				ref, err := resolve(ro.Model, arg)
				if err != nil {
					return err
				}
				if err := ro.Model.SelectActive(ctx, ref.ID); err != nil {
					return err
				}
				ro.Model.Wait()

				current, _ := ro.Model.Get(ref.ID)
				ro.UserLogger.LogFileRow(ctx, rowOf(current))
				pterm.Info.Println(current.Description)
				pterm.Println(fmt.Sprintf("%s  %s  %s", current.FilePath, current.Size, current.Modified))

				content, ok := ro.Model.Content(ref.ID)
				if !ok {
					continue
				}
				pterm.DefaultBox.WithTitle(current.Name).Println(content)
			}

			ro.UserLogger.Infof("%d of %d cached entries", ro.Cache.Count(), ro.Cache.MaxEntries())

			return finish(ro)
		},
	}

	return cmd
}
