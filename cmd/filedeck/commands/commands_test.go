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
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/filedeck/cmd/filedeck/opts"
	"github.com/walteh/filedeck/pkg/cache"
	"github.com/walteh/filedeck/pkg/config"
	"github.com/walteh/filedeck/pkg/execution"
	"github.com/walteh/filedeck/pkg/filelist"
	"github.com/walteh/filedeck/pkg/log"
	"github.com/walteh/filedeck/pkg/persist"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func newTestOpts(t *testing.T) *opts.RootOpts {
	t.Helper()
	pterm.DisableOutput()
	t.Cleanup(pterm.EnableOutput)

	ctx := testContext(t)
	storageDir := t.TempDir()
	store := persist.New(storageDir)
	contentCache := cache.New(cache.WithMaxEntries(2))

	next := 0
	model, err := filelist.New(ctx, filelist.Options{
		Store: store,
		Cache: contentCache,
		NewID: func() string {
			next++
			return fmt.Sprintf("id-%02d", next)
		},
	})
	require.NoError(t, err)
	model.Load(ctx)

	return &opts.RootOpts{
		Config:     config.Default(),
		StorageDir: storageDir,
		Store:      store,
		Cache:      contentCache,
		Model:      model,
		Runner:     execution.NewRunner(2, time.Millisecond),
		UserLogger: log.New(io.Discard, zerolog.Disabled),
	}
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) error {
	t.Helper()
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.ExecuteContext(testContext(t))
}

func writeFiles(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("<"+name+"/>"), 0644))
		paths = append(paths, path)
	}
	return paths
}

func names(ro *opts.RootOpts) []string {
	var out []string
	for _, f := range ro.Model.Files() {
		out = append(out, f.Name)
	}
	return out
}

func persistedNames(t *testing.T, ro *opts.RootOpts) []string {
	t.Helper()
	var out []string
	for _, e := range ro.Store.Load(testContext(t)) {
		out = append(out, e.Name)
	}
	return out
}

func TestAdd(t *testing.T) {
	ro := newTestOpts(t)
	paths := writeFiles(t, "a.xml", "b.json", "c.vecto")

	require.NoError(t, execute(t, NewAddCmd(ro), paths...))

	assert.Equal(t, []string{"a.xml", "b.json", "c.vecto"}, names(ro))
	assert.Equal(t, []string{"a.xml", "b.json", "c.vecto"}, persistedNames(t, ro))
	assert.Empty(t, ro.Model.Errors(), "finish drains the error list")

	require.NoError(t, execute(t, NewAddCmd(ro), paths[0]))
	assert.Len(t, ro.Model.Files(), 3, "duplicate is not added")

	assert.Error(t, execute(t, NewAddCmd(ro)), "needs at least one path")
}

func TestDrop(t *testing.T) {
	ro := newTestOpts(t)
	paths := writeFiles(t, "a.xml", "b.json", "notes.txt")
	dir := filepath.Dir(paths[0])

	require.NoError(t, execute(t, NewDropCmd(ro), filepath.Join(dir, "*")))

	assert.ElementsMatch(t, []string{"a.xml", "b.json"}, names(ro))
	assert.ElementsMatch(t, []string{"a.xml", "b.json"}, persistedNames(t, ro))
}

func TestDropInvalidPattern(t *testing.T) {
	ro := newTestOpts(t)

	require.NoError(t, execute(t, NewDropCmd(ro), "[unclosed"))
	assert.Empty(t, names(ro))
}

func TestMove(t *testing.T) {
	ro := newTestOpts(t)
	require.NoError(t, execute(t, NewAddCmd(ro), writeFiles(t, "a.xml", "b.xml", "c.xml")...))

	require.NoError(t, execute(t, NewUpCmd(ro), "id-03"))
	assert.Equal(t, []string{"a.xml", "c.xml", "b.xml"}, names(ro))

	require.NoError(t, execute(t, NewDownCmd(ro), "id-01"))
	assert.Equal(t, []string{"c.xml", "a.xml", "b.xml"}, names(ro))
	assert.Equal(t, []string{"c.xml", "a.xml", "b.xml"}, persistedNames(t, ro))

	assert.Error(t, execute(t, NewUpCmd(ro), "missing"))
}

func TestMoveRejectsSeveralIds(t *testing.T) {
	ro := newTestOpts(t)
	require.NoError(t, execute(t, NewAddCmd(ro), writeFiles(t, "a.xml", "b.xml", "c.xml")...))

	assert.Error(t, execute(t, NewUpCmd(ro), "id-02", "id-03"))
	assert.Error(t, execute(t, NewDownCmd(ro), "id-01", "id-02"))

	assert.Equal(t, []string{"a.xml", "b.xml", "c.xml"}, names(ro))
	assert.Equal(t, []string{"a.xml", "b.xml", "c.xml"}, persistedNames(t, ro))
}

func TestRemove(t *testing.T) {
	ro := newTestOpts(t)
	require.NoError(t, execute(t, NewAddCmd(ro), writeFiles(t, "a.xml", "b.xml", "c.xml")...))

	require.NoError(t, execute(t, NewRemoveCmd(ro), "id-01", "id-03"))

	assert.Equal(t, []string{"b.xml"}, names(ro))
	assert.Equal(t, []string{"b.xml"}, persistedNames(t, ro))
	assert.Zero(t, ro.Model.SelectedCount())
}

func TestShow(t *testing.T) {
	ro := newTestOpts(t)
	require.NoError(t, execute(t, NewAddCmd(ro), writeFiles(t, "a.xml", "b.xml")...))

	require.NoError(t, execute(t, NewShowCmd(ro), "id-02"))

	active, ok := ro.Model.ActiveFile()
	require.True(t, ok)
	assert.Equal(t, "b.xml", active.Name)
	assert.True(t, active.IsCached)

	content, ok := ro.Model.Content("id-02")
	require.True(t, ok)
	assert.Equal(t, "<b.xml/>", content)
	assert.Equal(t, 1, ro.Cache.Count())
}

func TestRun(t *testing.T) {
	ro := newTestOpts(t)

	assert.Error(t, execute(t, NewRunCmd(ro)), "empty list has nothing to run")

	require.NoError(t, execute(t, NewAddCmd(ro), writeFiles(t, "a.xml")...))
	require.NoError(t, execute(t, NewRunCmd(ro)))
	require.NoError(t, execute(t, NewRunCmd(ro), "id-01"))
	assert.False(t, ro.Runner.IsRunning())
}

func TestStopOnSignal(t *testing.T) {
	runner := execution.NewRunner(1000, time.Millisecond)
	sig := make(chan os.Signal, 1)
	stopped := stopOnSignal(runner, sig)

	done := make(chan error, 1)
	go func() {
		done <- runner.Start(testContext(t), "a.xml", nil)
	}()
	require.Eventually(t, func() bool { return runner.Progress() > 0 }, time.Second, time.Millisecond)

	sig <- os.Interrupt

	select {
	case err := <-done:
		require.NoError(t, err, "a stopped run is not an error")
	case <-time.After(time.Second):
		t.Fatal("run did not stop")
	}

	select {
	case at := <-stopped:
		assert.Greater(t, at, 0)
		assert.Less(t, at, 1000)
	case <-time.After(time.Second):
		t.Fatal("stop step was not reported")
	}
	assert.False(t, runner.IsRunning())
	assert.Zero(t, runner.Progress())
}

func TestStopOnSignalClosedWithoutSignal(t *testing.T) {
	runner := execution.NewRunner(1, time.Millisecond)
	sig := make(chan os.Signal, 1)
	stopped := stopOnSignal(runner, sig)
	close(sig)

	assert.Never(t, func() bool {
		select {
		case <-stopped:
			return true
		default:
			return false
		}
	}, 50*time.Millisecond, 5*time.Millisecond)
}

func TestFinishPrintsAndDismissesErrors(t *testing.T) {
	ro := newTestOpts(t)
	buf := &bytes.Buffer{}
	ro.UserLogger = log.New(buf, zerolog.Disabled)

	ro.Model.ReportError("first problem")
	ro.Model.ReportError("second problem")

	require.NoError(t, finish(ro))

	assert.Contains(t, buf.String(), "first problem")
	assert.Contains(t, buf.String(), "second problem")
	assert.Empty(t, ro.Model.Errors())
}

func TestClear(t *testing.T) {
	ro := newTestOpts(t)
	require.NoError(t, execute(t, NewAddCmd(ro), writeFiles(t, "a.xml")...))
	require.True(t, ro.Store.Exists())

	require.NoError(t, execute(t, NewClearCmd(ro)))
	assert.False(t, ro.Store.Exists())

	require.NoError(t, execute(t, NewClearCmd(ro)))
}

func TestResolve(t *testing.T) {
	ro := newTestOpts(t)
	require.NoError(t, execute(t, NewAddCmd(ro), writeFiles(t, "a.xml", "b.xml")...))

	tests := []struct {
		name    string
		arg     string
		want    string
		wantErr bool
	}{
		{name: "full_id", arg: "id-01", want: "a.xml"},
		{name: "unique_prefix", arg: "id-02", want: "b.xml"},
		{name: "ambiguous_prefix", arg: "id-", wantErr: true},
		{name: "unknown", arg: "zzz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := resolve(ro.Model, tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ref.Name)
		})
	}
}
