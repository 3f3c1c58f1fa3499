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
	"os"
	"os/signal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/filedeck/cmd/filedeck/opts"
	"github.com/walteh/filedeck/pkg/execution"
	"github.com/walteh/filedeck/pkg/filelist"
	"github.com/walteh/filedeck/pkg/format"
	"github.com/walteh/filedeck/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewRunCmd creates the run command
func NewRunCmd(ro *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [id]",
		Short: "Simulate running a file",
		Long: `Run simulates executing a file with a progress bar. Without an id the
first file in the list runs. The simulation always ends in an error, which
is reported like any other.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var ref filelist.FileReference
			if len(args) == 1 {
				var err error
				if ref, err = resolve(ro.Model, args[0]); err != nil {
					return err
				}
			} else {
				files := ro.Model.Files()
				if len(files) == 0 {
					return errors.New("the list is empty")
				}
				ref = files[0]
			}

			steps := ro.Runner.Steps()
			bar, err := pterm.DefaultProgressbar.WithTotal(steps).WithTitle(ref.Name).Start()
			if err != nil {
				return errors.Errorf("starting progress bar: %w", err)
			}

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt)
			stopped := stopOnSignal(ro.Runner, sig)

			ro.UserLogger.StartRun(ctx, log.RunOperation{Name: ref.Name, Steps: steps})
			runErr := ro.Runner.Start(ctx, ref.Name, func(step int) {
				if step > bar.Current {
					bar.Add(step - bar.Current)
				}
			})
			signal.Stop(sig)
			close(sig)
			_, _ = bar.Stop()
			ro.UserLogger.EndRun(ctx)

			switch {
			case runErr == nil:
				select {
				case at := <-stopped:
					ro.UserLogger.Warningf("run stopped, %s", format.FormatProgress(at, steps))
				default:
					ro.UserLogger.Info("run stopped")
				}
			case errors.Is(runErr, execution.ErrSimulated):
				ro.Model.ReportError(runErr.Error())
			case errors.Is(runErr, context.Canceled):
				ro.UserLogger.Warningf("run cancelled, %s", format.FormatProgress(bar.Current, steps))
			default:
				return runErr
			}

			return finish(ro)
		},
	}

	return cmd
}

// stopOnSignal stops runner on the first value from sig and sends the step
// it had reached. Closing sig ends the watch without stopping anything.
func stopOnSignal(runner *execution.Runner, sig <-chan os.Signal) <-chan int {
	stopped := make(chan int, 1)
	go func() {
		if _, ok := <-sig; !ok {
			return
		}
		if runner.IsRunning() {
			stopped <- runner.Progress()
			runner.Stop()
		}
	}()
	return stopped
}
