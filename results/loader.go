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


package results

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/locbench/core"
)

// OutputFileName is the prediction file the external program writes into the
// location folder of each trial.
const OutputFileName = "loc_outputs.jsonl"

// rawRecord mirrors one line of loc_outputs.jsonl. found_files has taken
// several shapes across external program versions, so it is decoded loosely.
type rawRecord struct {
	InstanceID   string `json:"instance_id"`
	FoundFiles   any    `json:"found_files"`
	RawOutputLoc any    `json:"raw_output_loc"`
}

// TrialOutputPath returns <root>/swe-res-<trial>/location/loc_outputs.jsonl.
func TrialOutputPath(root string, trial int) string {
	return filepath.Join(root, fmt.Sprintf("swe-res-%d", trial), "location", OutputFileName)
}

// LoadFile reads one loc_outputs.jsonl file. found_files is flattened; when it
// comes back empty the raw model output is parsed as a fallback.
func LoadFile(path string) ([]*core.LocOutput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var outputs []*core.LocOutput
	err = decodeLines(f, path, func(raw json.RawMessage) error {
		var rec rawRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}

		output := &core.LocOutput{
			InstanceID:   strings.TrimSpace(rec.InstanceID),
			FoundFiles:   flattenFoundFiles(rec.FoundFiles),
			RawOutputLoc: stringSegments(rec.RawOutputLoc),
		}
		if len(output.FoundFiles) == 0 {
			// Covers both [] and [[]].
			output.FoundFiles = ParseRawOutput(output.RawOutputLoc)
			if len(output.FoundFiles) > 0 {
				slog.Debug("recovered found files from raw output",
					"instance_id", output.InstanceID, "count", len(output.FoundFiles))
			}
		}
		outputs = append(outputs, output)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outputs, nil
}

// LoadTrial reads the predictions of one trial as a map keyed by instance id.
func LoadTrial(root string, trial int) (map[string][]string, error) {
	path := TrialOutputPath(root, trial)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoOutputs, path)
	}

	outputs, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	predictions := make(map[string][]string, len(outputs))
	for _, output := range outputs {
		predictions[output.InstanceID] = output.FoundFiles
	}
	return predictions, nil
}

// flattenFoundFiles normalizes the found_files field to a flat string list.
// Accepted shapes: string, list of strings, list of lists of strings.
func flattenFoundFiles(v any) []string {
	switch value := v.(type) {
	case string:
		if value == "" {
			return nil
		}
		return []string{value}
	case []any:
		var out []string
		for _, item := range value {
			switch entry := item.(type) {
			case string:
				out = append(out, entry)
			case []any:
				for _, nested := range entry {
					if s, ok := nested.(string); ok {
						out = append(out, s)
					}
				}
			}
		}
		return out
	default:
		return nil
	}
}

// stringSegments keeps the string elements of a loosely typed list.
func stringSegments(v any) []string {
	switch value := v.(type) {
	case string:
		if value == "" {
			return nil
		}
		return []string{value}
	case []any:
		var out []string
		for _, item := range value {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
