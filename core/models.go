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


package core

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// RunStatus describes the outcome of a benchmark launch.
type RunStatus int

const (
	// RunStatusCompleted means the external program exited with code zero.
	RunStatusCompleted RunStatus = iota + 1
	// RunStatusFailed means the external program exited non-zero or could not be started.
	RunStatusFailed
)

// RunRecord is the manifest of one launch of the external localization program.
// Secret values are never stored; EnvKeys holds the names of the variables the
// launcher set on the child process, not their contents.
type RunRecord struct {
	Id           ID
	Dataset      string
	Split        string
	Model        string
	Args         []string // Argument vector passed to the external program
	EnvKeys      []string // Names of environment variables set by the launcher
	OutputFolder string
	ExitCode     int
	Status       RunStatus
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Fingerprint returns a string representation used for generating deterministic IDs.
func (r *RunRecord) Fingerprint() string {
	return fmt.Sprintf("%s|%s|%s|%d", r.Dataset, r.Split, r.Model, r.StartedAt.UnixNano())
}

// LocOutput represents one record of a loc_outputs.jsonl file produced by the
// external program. FoundFiles is the normalized, flattened list of predicted
// files; RawOutputLoc carries the raw model output used as a parsing fallback.
type LocOutput struct {
	InstanceID   string
	FoundFiles   []string
	RawOutputLoc []string
}

// Instance is a single benchmark instance with its gold patch.
type Instance struct {
	InstanceID string
	Patch      string
}

// BugResult pairs the predicted suspicious files with the gold fixed files
// for one benchmark instance.
type BugResult struct {
	SuspiciousFiles []string
	FixedFiles      []string
}

// Report holds localization metrics over an evaluation set.
type Report struct {
	Total             int             // Instances evaluated
	HitsAt            map[int]int     // Instances with a hit in the top-k, per cutoff
	AccuracyAt        map[int]float64 // HitsAt / Total, per cutoff
	MRR               float64         // Mean reciprocal rank within the top 10
	MAP               float64         // Mean average precision within the top 10
	SkippedNoFix      int             // Instances whose patch yielded no fixed files
	MissingPrediction int             // Instances with no predicted files
}
