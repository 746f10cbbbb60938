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


package bench

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/poiesic/locbench/core"
)

// ErrBadInstance indicates a malformed line in an instance export file.
var ErrBadInstance = errors.New("bad instance record")

// Large patches push lines past the bufio default.
const maxInstanceLineSize = 16 * 1024 * 1024

// LoadInstances reads a JSONL export of the benchmark. Each line must carry
// instance_id and patch fields; lines without an instance id fail the load.
func LoadInstances(path string) ([]*core.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxInstanceLineSize)

	var instances []*core.Instance
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var raw struct {
			InstanceID string `json:"instance_id"`
			Patch      string `json:"patch"`
		}
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			return nil, fmt.Errorf("%w: line %d in %s: %w", ErrBadInstance, line, path, err)
		}

		instance := &core.Instance{
			InstanceID: strings.TrimSpace(raw.InstanceID),
			Patch:      raw.Patch,
		}
		if err := core.ValidateInstance(instance); err != nil {
			return nil, fmt.Errorf("%w: line %d in %s: %w", ErrBadInstance, line, path, err)
		}
		instances = append(instances, instance)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return instances, nil
}

// EvalSet pairs predictions with gold fixed files for scoring.
type EvalSet struct {
	// Bugs maps instance id to its suspicious/fixed file pairing. Instances
	// whose patch yields no fixed files are excluded.
	Bugs map[string]*core.BugResult

	// SkippedNoFix counts instances excluded for lack of fixed files.
	SkippedNoFix int

	// MissingPrediction counts evaluated instances with no predicted files.
	MissingPrediction int
}

// BuildEvalSet joins benchmark instances with a prediction map. Instances
// without fixed files are skipped; instances without predictions stay in the
// set with empty suspicious files, counting against every metric.
func BuildEvalSet(instances []*core.Instance, predictions map[string][]string) *EvalSet {
	set := &EvalSet{Bugs: make(map[string]*core.BugResult, len(instances))}

	for _, instance := range instances {
		fixed := ExtractFixedFiles(instance.Patch)
		if len(fixed) == 0 {
			set.SkippedNoFix++
			continue
		}

		suspicious := predictions[instance.InstanceID]
		if len(suspicious) == 0 {
			set.MissingPrediction++
		}

		set.Bugs[instance.InstanceID] = &core.BugResult{
			SuspiciousFiles: suspicious,
			FixedFiles:      fixed,
		}
	}
	return set
}
