// Copyright 2025 Poiesic Systems
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


package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/poiesic/locbench/core"
	"github.com/poiesic/locbench/storage"
)

// Invocation is one fully assembled external program call.
type Invocation struct {
	Program string   // Interpreter binary
	Args    []string // Entrypoint followed by the benchmark flags
	Env     []string // Complete child environment
	Stdout  io.Writer
	Stderr  io.Writer
}

// Runner executes an invocation and reports the child's exit code.
// A non-zero exit code is not an error at this level; err is reserved for
// failures to start the process at all.
type Runner interface {
	Run(ctx context.Context, inv *Invocation) (exitCode int, err error)
}

// execRunner is the production Runner backed by os/exec.
type execRunner struct{}

var _ Runner = (*execRunner)(nil)

func (execRunner) Run(ctx context.Context, inv *Invocation) (int, error) {
	cmd := exec.CommandContext(ctx, inv.Program, inv.Args...)
	cmd.Env = inv.Env
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, err
	}
	return 0, nil
}

// Launcher performs the single linear launch sequence: load the optional env
// file, create the result directory, invoke the external program, and record
// the run manifest.
type Launcher struct {
	config *Config
	runner Runner
	runs   storage.RunRepository
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithRunner substitutes the execution backend. Tests use this to record the
// argument vector and environment instead of starting a process.
func WithRunner(runner Runner) Option {
	return func(l *Launcher) {
		if runner != nil {
			l.runner = runner
		}
	}
}

// WithRunRepository enables run manifest recording. A nil repository disables it.
func WithRunRepository(runs storage.RunRepository) Option {
	return func(l *Launcher) { l.runs = runs }
}

// WithOutput redirects the child's stdout and stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(l *Launcher) {
		if stdout != nil {
			l.stdout = stdout
		}
		if stderr != nil {
			l.stderr = stderr
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Launcher) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLauncher creates a Launcher for the given configuration.
func NewLauncher(config *Config, opts ...Option) (*Launcher, error) {
	if config == nil {
		return nil, ErrInvalidConfig
	}

	l := &Launcher{
		config: config,
		runner: execRunner{},
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Plan assembles the invocation without side effects: no directory creation,
// no process start. Used by dry runs and by Launch itself.
func (l *Launcher) Plan() (*Invocation, error) {
	if err := l.config.LoadEnvFile(); err != nil {
		return nil, err
	}
	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return &Invocation{
		Program: l.config.Interpreter(),
		Args:    append([]string{l.config.Entrypoint}, l.config.Args()...),
		Env:     l.config.BuildEnv(os.Environ()),
		Stdout:  l.stdout,
		Stderr:  l.stderr,
	}, nil
}

// Launch runs the external program once and returns its run manifest.
//
// The result directory is created idempotently before the run; a creation
// failure is fatal. The external program's exit code is propagated: a non-zero
// exit yields a manifest with RunStatusFailed and an error wrapping
// ErrExternalProgram. Manifest persistence failures are logged, never fatal.
func (l *Launcher) Launch(ctx context.Context) (*core.RunRecord, error) {
	inv, err := l.Plan()
	if err != nil {
		return nil, err
	}

	// Idempotent: no error when the directory already exists.
	if err := os.MkdirAll(l.config.ResultPath, 0755); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOutputDir, l.config.ResultPath, err)
	}

	record := &core.RunRecord{
		Dataset:      l.config.Dataset,
		Split:        l.config.Split,
		Model:        l.config.Model,
		Args:         inv.Args,
		EnvKeys:      l.config.EnvKeys(),
		OutputFolder: l.config.OutputFolder(),
		StartedAt:    time.Now().UTC(),
	}
	record.Id = core.IDFromContent(record.Fingerprint())

	l.logger.Info("launching external program",
		"program", inv.Program,
		"entrypoint", l.config.Entrypoint,
		"dataset", l.config.Dataset,
		"split", l.config.Split,
		"model", l.config.Model,
		"output_folder", record.OutputFolder)

	exitCode, runErr := l.runner.Run(ctx, inv)

	record.FinishedAt = time.Now().UTC()
	record.ExitCode = exitCode
	if runErr == nil && exitCode == 0 {
		record.Status = core.RunStatusCompleted
	} else {
		record.Status = core.RunStatusFailed
	}

	l.saveRecord(ctx, record)

	if runErr != nil {
		return record, fmt.Errorf("%w: %w", ErrStartProcess, runErr)
	}
	if exitCode != 0 {
		return record, fmt.Errorf("%w: exit code %d", ErrExternalProgram, exitCode)
	}

	l.logger.Info("external program completed", "run_id", uint64(record.Id),
		"duration", record.FinishedAt.Sub(record.StartedAt))
	return record, nil
}

func (l *Launcher) saveRecord(ctx context.Context, record *core.RunRecord) {
	if l.runs == nil {
		return
	}
	if err := l.runs.SaveRun(ctx, record); err != nil {
		l.logger.Error("failed to record run manifest", "run_id", uint64(record.Id), "err", err)
	}
}
