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


package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/locbench"
	"github.com/poiesic/locbench/bench"
	"github.com/poiesic/locbench/core"
	"github.com/poiesic/locbench/eval"
	"github.com/poiesic/locbench/launch"
	"github.com/poiesic/locbench/preflight"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "locbench",
		Usage: "Launch and score localization benchmark runs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Launch the external localization program once",
				Action: runCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dataset",
						Usage: "Benchmark dataset name, passed through verbatim",
						Value: launch.DefaultDataset,
					},
					&cli.StringFlag{
						Name:  "split",
						Usage: "Dataset split, passed through verbatim",
						Value: launch.DefaultSplit,
					},
					&cli.StringFlag{
						Name:     "model",
						Usage:    "Model identifier, passed through verbatim",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "eval-n-limit",
						Usage: "Instance limit passed as --eval_n_limit",
						Value: launch.DefaultEvalNLimit,
					},
					&cli.IntFlag{
						Name:  "num-processes",
						Usage: "Worker count passed as --num_processes",
						Value: launch.DefaultNumProcesses,
					},
					&cli.BoolFlag{
						Name:  "localize",
						Usage: "Pass the --localize flag",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "merge",
						Usage: "Pass the --merge flag",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "use-function-calling",
						Usage: "Pass the --use_function_calling flag",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "simple-desc",
						Usage: "Pass the --simple_desc flag",
						Value: true,
					},
					&cli.StringFlag{
						Name:  "result-path",
						Usage: "Result directory, created if absent",
						Value: launch.DefaultResultPath,
					},
					&cli.StringFlag{
						Name:  "entrypoint",
						Usage: "External program file",
						Value: launch.DefaultEntrypoint,
					},
					&cli.StringFlag{
						Name:  "python",
						Usage: "Interpreter binary (default: python3, python on Windows)",
					},
					&cli.StringFlag{
						Name:    "api-key",
						Usage:   "Value for OPENAI_API_KEY in the child process",
						EnvVars: []string{"OPENAI_API_KEY"},
					},
					&cli.StringFlag{
						Name:    "api-base",
						Usage:   "Optional value for OPENAI_API_BASE in the child process",
						EnvVars: []string{"OPENAI_API_BASE"},
					},
					&cli.StringSliceFlag{
						Name:  "pythonpath",
						Usage: "Entries prepended to the child's PYTHONPATH",
						Value: cli.NewStringSlice("."),
					},
					&cli.StringFlag{
						Name:    "graph-index-dir",
						Usage:   "Value for GRAPH_INDEX_DIR in the child process",
						EnvVars: []string{"GRAPH_INDEX_DIR"},
					},
					&cli.StringFlag{
						Name:    "bm25-index-dir",
						Usage:   "Value for BM25_INDEX_DIR in the child process",
						EnvVars: []string{"BM25_INDEX_DIR"},
					},
					&cli.StringFlag{
						Name:  "env-file",
						Usage: "Optional dotenv file consulted for unset values",
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Run registry directory; omit to skip recording",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Print the planned invocation without launching",
					},
				},
			},
			{
				Name:   "eval",
				Usage:  "Score one or more trials against the benchmark",
				Action: evalCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "root",
						Usage: "Directory containing the swe-res-<trial> folders",
						Value: ".",
					},
					&cli.IntSliceFlag{
						Name:  "trials",
						Usage: "Trial numbers to score",
						Value: cli.NewIntSlice(1),
					},
					&cli.StringFlag{
						Name:     "dataset-file",
						Usage:    "JSONL export of the benchmark instances",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Worker pool size for concurrent trial scoring",
					},
				},
			},
			{
				Name:   "export",
				Usage:  "Write the per-cutoff hit list of a trial as CSV",
				Action: exportCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "root",
						Usage: "Directory containing the swe-res-<trial> folders",
						Value: ".",
					},
					&cli.IntFlag{
						Name:  "trial",
						Usage: "Trial number to export",
						Value: 1,
					},
					&cli.StringFlag{
						Name:     "dataset-file",
						Usage:    "JSONL export of the benchmark instances",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "Output CSV path (default: localized_bugs<trial>.csv)",
					},
				},
			},
			{
				Name:      "variability",
				Usage:     "Combine trial hit lists into per-cutoff union and intersection CSVs",
				ArgsUsage: "trial1.csv trial2.csv [trial3.csv ...]",
				Action:    variabilityCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "union-out",
						Usage: "Union CSV path",
						Value: "bugs_union_per_k.csv",
					},
					&cli.StringFlag{
						Name:  "intersection-out",
						Usage: "Intersection CSV path",
						Value: "bugs_intersection_per_k.csv",
					},
				},
			},
			{
				Name:   "runs",
				Usage:  "List recorded launches, most recent first",
				Action: runsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Run registry directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to list",
						Value: 20,
					},
				},
			},
			{
				Name:   "doctor",
				Usage:  "Check the model endpoint and index directories",
				Action: doctorCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "host",
						Usage:   "OpenAI-compatible endpoint base URL",
						EnvVars: []string{"OPENAI_API_BASE"},
					},
					&cli.StringFlag{
						Name:  "model",
						Usage: "Model to probe; omit to skip the probe",
					},
					&cli.StringFlag{
						Name:    "api-key",
						Usage:   "Credential sent with the probe",
						EnvVars: []string{"OPENAI_API_KEY"},
					},
					&cli.StringFlag{
						Name:    "graph-index-dir",
						Usage:   "Graph index directory to check",
						EnvVars: []string{"GRAPH_INDEX_DIR"},
					},
					&cli.StringFlag{
						Name:    "bm25-index-dir",
						Usage:   "BM25 index directory to check",
						EnvVars: []string{"BM25_INDEX_DIR"},
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum probe attempts",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func launchConfig(c *cli.Context) *launch.Config {
	return launch.NewConfig(
		launch.WithDataset(c.String("dataset")),
		launch.WithSplit(c.String("split")),
		launch.WithModel(c.String("model")),
		launch.WithEvalNLimit(c.Int("eval-n-limit")),
		launch.WithNumProcesses(c.Int("num-processes")),
		launch.WithLocalize(c.Bool("localize")),
		launch.WithMerge(c.Bool("merge")),
		launch.WithUseFunctionCalling(c.Bool("use-function-calling")),
		launch.WithSimpleDesc(c.Bool("simple-desc")),
		launch.WithResultPath(c.String("result-path")),
		launch.WithEntrypoint(c.String("entrypoint")),
		launch.WithPythonBin(c.String("python")),
		launch.WithAPIKey(c.String("api-key")),
		launch.WithAPIBase(c.String("api-base")),
		launch.WithPythonPath(c.StringSlice("pythonpath")...),
		launch.WithGraphIndexDir(c.String("graph-index-dir")),
		launch.WithBM25IndexDir(c.String("bm25-index-dir")),
		launch.WithEnvFile(c.String("env-file")),
	)
}

func runCommand(c *cli.Context) error {
	config := launchConfig(c)

	if c.Bool("dry-run") {
		launcher, err := launch.NewLauncher(config)
		if err != nil {
			return err
		}
		inv, err := launcher.Plan()
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s %s\n", inv.Program, strings.Join(inv.Args, " "))
		fmt.Fprintf(os.Stdout, "env: %s\n", strings.Join(config.EnvKeys(), " "))
		return nil
	}

	var launcher *launch.Launcher
	var err error
	if dbPath := c.String("db"); dbPath != "" {
		harness, harnessErr := locbench.NewHarness(dbPath)
		if harnessErr != nil {
			return fmt.Errorf("failed to open run registry: %w", harnessErr)
		}
		defer harness.Close()
		launcher, err = harness.NewLauncher(config)
	} else {
		launcher, err = launch.NewLauncher(config)
	}
	if err != nil {
		return err
	}

	record, err := launcher.Launch(c.Context)
	if err != nil {
		// Pass the external program's exit code through unchanged.
		if errors.Is(err, launch.ErrExternalProgram) && record != nil {
			return cli.Exit(err.Error(), record.ExitCode)
		}
		return err
	}

	fmt.Fprintf(os.Stderr, "Run %d completed, output in %s\n", uint64(record.Id), record.OutputFolder)
	return nil
}

func evalCommand(c *cli.Context) error {
	instances, err := bench.LoadInstances(c.String("dataset-file"))
	if err != nil {
		return fmt.Errorf("failed to load benchmark instances: %w", err)
	}

	var opts []eval.TrialOption
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, eval.WithPoolSize(size))
	}

	reports, err := eval.EvaluateTrials(c.Context, c.String("root"), c.IntSlice("trials"), instances, opts...)
	if err != nil {
		return err
	}

	var failed bool
	for _, report := range reports {
		fmt.Fprintf(os.Stdout, "\nTrial %d\n", report.Trial)
		if report.Err != nil {
			failed = true
			fmt.Fprintf(os.Stdout, "error: %v\n", report.Err)
			continue
		}
		if err := eval.WriteReport(os.Stdout, report.Report); err != nil {
			return err
		}
	}
	if failed {
		return fmt.Errorf("one or more trials failed to evaluate")
	}
	return nil
}

func exportCommand(c *cli.Context) error {
	instances, err := bench.LoadInstances(c.String("dataset-file"))
	if err != nil {
		return fmt.Errorf("failed to load benchmark instances: %w", err)
	}

	trial := c.Int("trial")
	outPath := c.String("out")
	if outPath == "" {
		outPath = eval.LocalizedCSVName(trial)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := eval.ExportLocalized(c.String("root"), trial, instances, f); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Wrote bug IDs to %s\n", outPath)
	return nil
}

func variabilityCommand(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) < 2 {
		return fmt.Errorf("at least two trial CSV files are required")
	}

	files := make([]map[string]map[string]struct{}, 0, len(paths))
	for _, path := range paths {
		data, err := eval.ParseLocalizedCSV(path)
		if err != nil {
			return err
		}
		files = append(files, data)
	}

	union, intersection := eval.Combine(files)
	if err := eval.WriteWideCSV(c.String("union-out"), union); err != nil {
		return err
	}
	if err := eval.WriteWideCSV(c.String("intersection-out"), intersection); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Wrote %s and %s\n", c.String("union-out"), c.String("intersection-out"))
	return nil
}

func runsCommand(c *cli.Context) error {
	harness, err := locbench.NewHarness(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open run registry: %w", err)
	}
	defer harness.Close()

	records, err := harness.RunRepository().ListRuns(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(os.Stdout, "no recorded runs")
		return nil
	}
	for _, record := range records {
		status := "completed"
		if record.Status != core.RunStatusCompleted {
			status = fmt.Sprintf("failed (exit %d)", record.ExitCode)
		}
		fmt.Fprintf(os.Stdout, "%d  %s  %s/%s  %s  %s  %s\n",
			uint64(record.Id),
			record.StartedAt.Format(time.RFC3339),
			record.Dataset, record.Split,
			record.Model,
			status,
			record.OutputFolder)
	}
	return nil
}

func doctorCommand(c *cli.Context) error {
	config := &preflight.Config{
		Host:          c.String("host"),
		Model:         c.String("model"),
		APIKey:        c.String("api-key"),
		GraphIndexDir: c.String("graph-index-dir"),
		BM25IndexDir:  c.String("bm25-index-dir"),
		MaxRetries:    c.Int("max-retries"),
		RetryDelay:    c.Duration("retry-delay"),
	}

	var failures int

	if config.Model != "" {
		checker, err := preflight.NewChecker(config)
		if err != nil {
			return err
		}
		if err := checker.CheckModel(c.Context); err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "model probe: FAIL: %v\n", err)
		} else {
			fmt.Fprintln(os.Stderr, "model probe: ok")
		}
	} else {
		fmt.Fprintln(os.Stderr, "model probe: skipped (no model configured)")
	}

	if err := preflight.CheckIndexDirs(config); err != nil {
		failures++
		fmt.Fprintf(os.Stderr, "index dirs: FAIL: %v\n", err)
	} else {
		fmt.Fprintln(os.Stderr, "index dirs: ok")
	}

	if failures > 0 {
		return fmt.Errorf("%d preflight check(s) failed", failures)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
