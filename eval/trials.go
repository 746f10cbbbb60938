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


package eval

import (
	"context"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/locbench/bench"
	"github.com/poiesic/locbench/core"
	"github.com/poiesic/locbench/results"
)

// TrialReport is the outcome of scoring one trial.
type TrialReport struct {
	Trial  int
	Report *core.Report
	Err    error
}

// trialEvaluator fans trial scoring out over a worker pool.
type trialEvaluator struct {
	pool      *ants.Pool
	root      string
	instances []*core.Instance
}

// TrialOption configures trial evaluation.
type TrialOption func(*trialEvaluatorOptions)

type trialEvaluatorOptions struct {
	poolSize int
}

// WithPoolSize sets the worker pool size for concurrent trial scoring.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) TrialOption {
	return func(o *trialEvaluatorOptions) {
		if size >= 1 {
			o.poolSize = size
		}
	}
}

// EvaluateTrials loads and scores several trials concurrently. Per-trial
// failures (typically a missing loc_outputs.jsonl) land in that trial's
// report; only pool setup errors fail the call. Reports come back in the
// order of the trials argument.
func EvaluateTrials(ctx context.Context, root string, trials []int, instances []*core.Instance, opts ...TrialOption) ([]*TrialReport, error) {
	if len(trials) == 0 {
		return nil, ErrNoTrials
	}

	options := &trialEvaluatorOptions{poolSize: max(runtime.NumCPU()/2, 1)}
	for _, opt := range opts {
		opt(options)
	}

	pool, err := ants.NewPool(options.poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	ev := &trialEvaluator{pool: pool, root: root, instances: instances}

	reports := make([]*TrialReport, len(trials))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for i, trial := range trials {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			report := ev.evaluateOne(ctx, trial)
			mu.Lock()
			reports[i] = report
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			reports[i] = &TrialReport{Trial: trial, Err: submitErr}
			mu.Unlock()
		}
	}
	wg.Wait()

	return reports, nil
}

func (ev *trialEvaluator) evaluateOne(ctx context.Context, trial int) *TrialReport {
	if err := ctx.Err(); err != nil {
		return &TrialReport{Trial: trial, Err: err}
	}

	predictions, err := results.LoadTrial(ev.root, trial)
	if err != nil {
		return &TrialReport{Trial: trial, Err: err}
	}

	set := bench.BuildEvalSet(ev.instances, predictions)
	return &TrialReport{Trial: trial, Report: Evaluate(set)}
}
