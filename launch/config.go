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
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
)

// Default values for a benchmark launch. ResultPath and Entrypoint mirror the
// layout the evaluation tooling expects (swe-res-<trial>/location).
const (
	DefaultDataset      = "princeton-nlp/SWE-bench_Lite"
	DefaultSplit        = "test"
	DefaultResultPath   = "swe-res"
	DefaultEntrypoint   = "auto_search_main.py"
	DefaultEvalNLimit   = 300
	DefaultNumProcesses = 2
)

// Config holds everything needed to construct one external invocation.
type Config struct {
	// Dataset, Split and Model are passed through verbatim as
	// --dataset, --split and --model.
	Dataset string
	Split   string
	Model   string

	// EvalNLimit and NumProcesses are passed through as --eval_n_limit and
	// --num_processes. Parallelism is delegated entirely to the external
	// program; the launcher itself is single-shot.
	EvalNLimit   int
	NumProcesses int

	// Pass-through boolean flags. All default to true.
	Localize           bool
	Merge              bool
	UseFunctionCalling bool
	SimpleDesc         bool

	// ResultPath is created if absent; <ResultPath>/location is passed as
	// --output_folder.
	ResultPath string

	// Entrypoint is the external program file, PythonBin the interpreter.
	// An empty PythonBin selects python3 (python on Windows).
	Entrypoint string
	PythonBin  string

	// Child environment. APIBase is optional and omitted when empty.
	APIKey        string
	APIBase       string
	PythonPath    []string // Entries prepended to any inherited PYTHONPATH
	GraphIndexDir string
	BM25IndexDir  string

	// EnvFile is an optional dotenv file consulted for values not set
	// explicitly. Explicit values always win.
	EnvFile string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithDataset sets the benchmark dataset name.
func WithDataset(dataset string) ConfigOption {
	return func(c *Config) { c.Dataset = dataset }
}

// WithSplit sets the dataset split.
func WithSplit(split string) ConfigOption {
	return func(c *Config) { c.Split = split }
}

// WithModel sets the model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) { c.Model = model }
}

// WithEvalNLimit sets the instance limit for the run.
func WithEvalNLimit(limit int) ConfigOption {
	return func(c *Config) { c.EvalNLimit = limit }
}

// WithNumProcesses sets the worker count passed to the external program.
func WithNumProcesses(n int) ConfigOption {
	return func(c *Config) { c.NumProcesses = n }
}

// WithLocalize toggles the --localize flag.
func WithLocalize(enabled bool) ConfigOption {
	return func(c *Config) { c.Localize = enabled }
}

// WithMerge toggles the --merge flag.
func WithMerge(enabled bool) ConfigOption {
	return func(c *Config) { c.Merge = enabled }
}

// WithUseFunctionCalling toggles the --use_function_calling flag.
func WithUseFunctionCalling(enabled bool) ConfigOption {
	return func(c *Config) { c.UseFunctionCalling = enabled }
}

// WithSimpleDesc toggles the --simple_desc flag.
func WithSimpleDesc(enabled bool) ConfigOption {
	return func(c *Config) { c.SimpleDesc = enabled }
}

// WithResultPath sets the result directory.
func WithResultPath(path string) ConfigOption {
	return func(c *Config) { c.ResultPath = path }
}

// WithEntrypoint sets the external program file.
func WithEntrypoint(entrypoint string) ConfigOption {
	return func(c *Config) { c.Entrypoint = entrypoint }
}

// WithPythonBin sets the interpreter binary.
func WithPythonBin(bin string) ConfigOption {
	return func(c *Config) { c.PythonBin = bin }
}

// WithAPIKey sets the OPENAI_API_KEY value for the child process.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) { c.APIKey = key }
}

// WithAPIBase sets the optional OPENAI_API_BASE value for the child process.
func WithAPIBase(base string) ConfigOption {
	return func(c *Config) { c.APIBase = base }
}

// WithPythonPath sets the entries prepended to the child's PYTHONPATH.
func WithPythonPath(entries ...string) ConfigOption {
	return func(c *Config) { c.PythonPath = entries }
}

// WithGraphIndexDir sets the GRAPH_INDEX_DIR value for the child process.
func WithGraphIndexDir(dir string) ConfigOption {
	return func(c *Config) { c.GraphIndexDir = dir }
}

// WithBM25IndexDir sets the BM25_INDEX_DIR value for the child process.
func WithBM25IndexDir(dir string) ConfigOption {
	return func(c *Config) { c.BM25IndexDir = dir }
}

// WithEnvFile sets the optional dotenv file path.
func WithEnvFile(path string) ConfigOption {
	return func(c *Config) { c.EnvFile = path }
}

// DefaultConfig returns a Config with the standard benchmark defaults applied.
// PythonPath defaults to the current directory, matching the launch script
// convention of extending the module search path with the working directory.
func DefaultConfig() *Config {
	return &Config{
		Dataset:            DefaultDataset,
		Split:              DefaultSplit,
		EvalNLimit:         DefaultEvalNLimit,
		NumProcesses:       DefaultNumProcesses,
		Localize:           true,
		Merge:              true,
		UseFunctionCalling: true,
		SimpleDesc:         true,
		ResultPath:         DefaultResultPath,
		Entrypoint:         DefaultEntrypoint,
		PythonPath:         []string{"."},
	}
}

// NewConfig creates a Config with defaults and applies the given options.
func NewConfig(opts ...ConfigOption) *Config {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// Validate checks structural fields of the configuration. The API key is
// deliberately not validated here: the external program diagnoses a missing
// credential itself.
func (c *Config) Validate() error {
	if c.Dataset == "" {
		return fmt.Errorf("%w: dataset is required", ErrInvalidConfig)
	}
	if c.Split == "" {
		return fmt.Errorf("%w: split is required", ErrInvalidConfig)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: model is required", ErrInvalidConfig)
	}
	if c.EvalNLimit <= 0 {
		return fmt.Errorf("%w: eval_n_limit must be greater than 0", ErrInvalidConfig)
	}
	if c.NumProcesses <= 0 {
		return fmt.Errorf("%w: num_processes must be greater than 0", ErrInvalidConfig)
	}
	if c.ResultPath == "" {
		return fmt.Errorf("%w: result path is required", ErrInvalidConfig)
	}
	if c.Entrypoint == "" {
		return fmt.Errorf("%w: entrypoint is required", ErrInvalidConfig)
	}
	return nil
}

// OutputFolder returns the --output_folder value: <ResultPath>/location.
func (c *Config) OutputFolder() string {
	return filepath.Join(c.ResultPath, "location")
}

// Interpreter returns the configured interpreter binary, or the platform
// default when unset.
func (c *Config) Interpreter() string {
	if c.PythonBin != "" {
		return c.PythonBin
	}
	if runtime.GOOS == "windows" {
		return "python"
	}
	return "python3"
}

// Args builds the argument vector for the external program, token for token.
// The flag order is fixed and independent of environment variable values.
func (c *Config) Args() []string {
	args := []string{
		"--dataset", c.Dataset,
		"--split", c.Split,
		"--model", c.Model,
	}
	if c.Localize {
		args = append(args, "--localize")
	}
	if c.Merge {
		args = append(args, "--merge")
	}
	args = append(args,
		"--output_folder", c.OutputFolder(),
		"--eval_n_limit", strconv.Itoa(c.EvalNLimit),
		"--num_processes", strconv.Itoa(c.NumProcesses),
	)
	if c.UseFunctionCalling {
		args = append(args, "--use_function_calling")
	}
	if c.SimpleDesc {
		args = append(args, "--simple_desc")
	}
	return args
}
