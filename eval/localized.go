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
	"encoding/csv"
	"fmt"
	"io"
	"slices"

	"github.com/poiesic/locbench/bench"
	"github.com/poiesic/locbench/core"
	"github.com/poiesic/locbench/results"
)

// csvColumns is the fixed header of localized-bug CSV files.
var csvColumns = []string{"accuracy@1", "accuracy@5", "accuracy@10"}

// LocalizedBuckets returns, per accuracy cutoff, the ids of instances whose
// fixed files were localized within the top k. Ids are ordered with the
// natural sort used across trial comparisons, so output is deterministic.
func LocalizedBuckets(set *bench.EvalSet) map[int][]string {
	buckets := make(map[int][]string, len(AccuracyCutoffs))
	for _, k := range AccuracyCutoffs {
		var ids []string
		for id, bug := range set.Bugs {
			if HitAt(bug, k) {
				ids = append(ids, id)
			}
		}
		slices.SortFunc(ids, compareNatural)
		buckets[k] = ids
	}
	return buckets
}

// WriteLocalizedCSV writes the bucket lists as a wide CSV: one column per
// cutoff, rows padded with empty cells to the longest column.
func WriteLocalizedCSV(w io.Writer, buckets map[int][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvColumns); err != nil {
		return err
	}

	maxLen := 0
	for _, k := range AccuracyCutoffs {
		if len(buckets[k]) > maxLen {
			maxLen = len(buckets[k])
		}
	}

	for i := 0; i < maxLen; i++ {
		row := make([]string, len(AccuracyCutoffs))
		for col, k := range AccuracyCutoffs {
			if i < len(buckets[k]) {
				row[col] = buckets[k][i]
			}
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// LocalizedCSVName returns the conventional file name for a trial's hit list.
func LocalizedCSVName(trial int) string {
	return fmt.Sprintf("localized_bugs%d.csv", trial)
}

// ExportLocalized loads one trial, scores it against the instances, and
// writes its hit-list CSV to w.
func ExportLocalized(root string, trial int, instances []*core.Instance, w io.Writer) error {
	predictions, err := results.LoadTrial(root, trial)
	if err != nil {
		return err
	}
	set := bench.BuildEvalSet(instances, predictions)
	return WriteLocalizedCSV(w, LocalizedBuckets(set))
}
