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


package storage

import (
	"context"

	"github.com/poiesic/locbench/core"
)

// RunRepository persists launch manifests.
type RunRepository interface {
	// SaveRun stores a run manifest. The record is validated before writing.
	SaveRun(ctx context.Context, record *core.RunRecord) error

	// GetRun retrieves a run manifest by ID.
	// Returns ErrNotFound if no such run exists.
	GetRun(ctx context.Context, id core.ID) (*core.RunRecord, error)

	// ListRuns returns up to limit manifests, most recent first.
	ListRuns(ctx context.Context, limit int) ([]*core.RunRecord, error)

	// Close releases repository resources.
	Close() error
}
