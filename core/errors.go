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

import "errors"

// Domain validation errors
var (
	// ErrInvalidRunRecord indicates a RunRecord failed validation.
	ErrInvalidRunRecord = errors.New("invalid run record")

	// ErrEmptyDataset indicates the Dataset field is empty.
	ErrEmptyDataset = errors.New("dataset cannot be empty")

	// ErrEmptySplit indicates the Split field is empty.
	ErrEmptySplit = errors.New("split cannot be empty")

	// ErrEmptyModel indicates the Model field is empty.
	ErrEmptyModel = errors.New("model cannot be empty")

	// ErrInvalidRunStatus indicates an invalid RunStatus value.
	ErrInvalidRunStatus = errors.New("invalid run status")

	// ErrInvalidTimestamps indicates FinishedAt precedes StartedAt.
	ErrInvalidTimestamps = errors.New("finished timestamp precedes started timestamp")

	// ErrEmptyInstanceID indicates the InstanceID field is empty.
	ErrEmptyInstanceID = errors.New("instance id cannot be empty")
)
