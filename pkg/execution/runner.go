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

// Package execution simulates running the active file: progress climbs
// step by step and a run that is not stopped ends with a simulated error.
package execution

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrSimulated      = errors.Base("simulated execution error")
	ErrAlreadyRunning = errors.Base("execution already running")
)

const (
	DefaultSteps     = 100
	DefaultStepDelay = 50 * time.Millisecond
)

// 🏃 Runner executes one simulated run at a time
type Runner struct {
	steps int
	delay time.Duration
	now   func() time.Time

	mu       sync.Mutex
	running  bool
	stopped  bool
	progress int
	cancel   context.CancelFunc
}

// 🏗️ NewRunner creates a runner. Non-positive values fall back to the defaults.
func NewRunner(steps int, delay time.Duration) *Runner {
	if steps <= 0 {
		steps = DefaultSteps
	}
	if delay <= 0 {
		delay = DefaultStepDelay
	}
	return &Runner{
		steps: steps,
		delay: delay,
		now:   time.Now,
	}
}

func (r *Runner) Steps() int {
	return r.steps
}

// ▶️ Start runs until every step is done, Stop is called or ctx ends.
// onProgress is called with 0..Steps(). A stopped run returns nil.
func (r *Runner) Start(ctx context.Context, name string, onProgress func(step int)) error {
	logger := zerolog.Ctx(ctx)

	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.running = true
	r.stopped = false
	r.progress = 0
	r.cancel = cancel
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
		cancel()
	}()

	logger.Debug().Str("file", name).Int("steps", r.steps).Msg("starting execution")

	ticker := time.NewTicker(r.delay)
	defer ticker.Stop()

	for step := 0; step <= r.steps; step++ {
		if !r.advance(step) {
			return nil
		}
		if onProgress != nil {
			onProgress(step)
		}
		if step == r.steps {
			break
		}

		select {
		case <-runCtx.Done():
			if r.wasStopped() {
				logger.Debug().Str("file", name).Msg("execution stopped")
				return nil
			}
			return errors.Errorf("execution cancelled: %w", ctx.Err())
		case <-ticker.C:
		}
	}

	return errors.Errorf("executing %s at %s: %w", name, r.now().Format("15:04:05"), ErrSimulated)
}

// ⏹️ Stop ends the current run, if any, and resets progress.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		r.stopped = true
		r.cancel()
	}
	r.progress = 0
}

func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Runner) Progress() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progress
}

// advance records step unless the run was stopped.
func (r *Runner) advance(step int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return false
	}
	r.progress = step
	return true
}

func (r *Runner) wasStopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}
