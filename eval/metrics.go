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
	"fmt"
	"io"
	"slices"

	"github.com/poiesic/locbench/bench"
	"github.com/poiesic/locbench/core"
)

// RankCutoff bounds MRR and MAP to the top 10 suspicious files.
const RankCutoff = 10

// AccuracyCutoffs are the k values reported for Accuracy@k.
var AccuracyCutoffs = []int{1, 5, 10}

// HitAt reports whether any fixed file appears in the top-k suspicious files.
func HitAt(bug *core.BugResult, k int) bool {
	top := bug.SuspiciousFiles
	if len(top) > k {
		top = top[:k]
	}
	for _, fixed := range bug.FixedFiles {
		if slices.Contains(top, fixed) {
			return true
		}
	}
	return false
}

// reciprocalRank returns 1/(rank of the first hit) within the cutoff, or 0.
func reciprocalRank(bug *core.BugResult, cutoff int) float64 {
	limit := min(cutoff, len(bug.SuspiciousFiles))
	for i := 0; i < limit; i++ {
		if slices.Contains(bug.FixedFiles, bug.SuspiciousFiles[i]) {
			return 1 / float64(i+1)
		}
	}
	return 0
}

// averagePrecision returns AP within the cutoff: precision summed at each
// relevant rank, divided by the number of fixed files.
func averagePrecision(bug *core.BugResult, cutoff int) float64 {
	if len(bug.FixedFiles) == 0 {
		return 0
	}

	var precisionSum float64
	relevant := 0
	limit := min(cutoff, len(bug.SuspiciousFiles))
	for i := 0; i < limit; i++ {
		if slices.Contains(bug.FixedFiles, bug.SuspiciousFiles[i]) {
			relevant++
			precisionSum += float64(relevant) / float64(i+1)
		}
	}
	return precisionSum / float64(len(bug.FixedFiles))
}

// Evaluate scores an evaluation set. All averages use the full set size as
// denominator, so missing predictions count as misses.
func Evaluate(set *bench.EvalSet) *core.Report {
	report := &core.Report{
		Total:             len(set.Bugs),
		HitsAt:            make(map[int]int, len(AccuracyCutoffs)),
		AccuracyAt:        make(map[int]float64, len(AccuracyCutoffs)),
		SkippedNoFix:      set.SkippedNoFix,
		MissingPrediction: set.MissingPrediction,
	}
	if report.Total == 0 {
		return report
	}

	for _, k := range AccuracyCutoffs {
		hits := 0
		for _, bug := range set.Bugs {
			if HitAt(bug, k) {
				hits++
			}
		}
		report.HitsAt[k] = hits
		report.AccuracyAt[k] = float64(hits) / float64(report.Total)
	}

	var inverseRank, apSum float64
	for _, bug := range set.Bugs {
		inverseRank += reciprocalRank(bug, RankCutoff)
		apSum += averagePrecision(bug, RankCutoff)
	}
	report.MRR = inverseRank / float64(report.Total)
	report.MAP = apSum / float64(report.Total)

	return report
}

// WriteReport prints a report in the conventional textual form.
func WriteReport(w io.Writer, report *core.Report) error {
	if _, err := fmt.Fprintf(w, "Total Bugs Processed: %d\n", report.Total); err != nil {
		return err
	}
	if report.Total == 0 {
		return nil
	}
	for _, k := range AccuracyCutoffs {
		hits := report.HitsAt[k]
		if _, err := fmt.Fprintf(w, "Accuracy@%d: %d/%d = %.2f%%\n",
			k, hits, report.Total, report.AccuracyAt[k]*100); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "MRR@%d: %.4f\n", RankCutoff, report.MRR); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "MAP@%d: %.4f\n", RankCutoff, report.MAP); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Skipped (no fixed files): %d, missing predictions: %d\n",
		report.SkippedNoFix, report.MissingPrediction)
	return err
}
