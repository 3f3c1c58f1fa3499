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

	"github.com/spf13/cobra"
	"github.com/walteh/filedeck/cmd/filedeck/opts"
	"github.com/walteh/filedeck/pkg/filelist"
	"gitlab.com/tozd/go/errors"
)

// NewUpCmd creates the up command
func NewUpCmd(ro *opts.RootOpts) *cobra.Command {
	return newMoveCmd(ro, "up", "Move a file one place toward the top", (*filelist.Model).MoveSelectedUp)
}

// NewDownCmd creates the down command
func NewDownCmd(ro *opts.RootOpts) *cobra.Command {
	return newMoveCmd(ro, "down", "Move a file one place toward the bottom", (*filelist.Model).MoveSelectedDown)
}

func newMoveCmd(ro *opts.RootOpts, use, short string, move func(*filelist.Model, context.Context)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Long: short + `. Exactly one file moves at a time; a file already at
the edge stays put.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if _, err := selectOnly(ro.Model, args); err != nil {
				return err
			}
			if n := ro.Model.SelectedCount(); n != 1 {
				return errors.Errorf("moving needs exactly one selected file, have %d", n)
			}

			move(ro.Model, ctx)

			printRows(ctx, ro)

			return finish(ro)
		},
	}

	return cmd
}
