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

import "fmt"

// ValidateRunRecord validates a RunRecord before persistence.
func ValidateRunRecord(record *RunRecord) error {
	if record == nil {
		return ErrInvalidRunRecord
	}
	if record.Dataset == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRunRecord, ErrEmptyDataset)
	}
	if record.Split == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRunRecord, ErrEmptySplit)
	}
	if record.Model == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRunRecord, ErrEmptyModel)
	}
	if record.Status != RunStatusCompleted && record.Status != RunStatusFailed {
		return fmt.Errorf("%w: %w", ErrInvalidRunRecord, ErrInvalidRunStatus)
	}
	if !record.FinishedAt.IsZero() && record.FinishedAt.Before(record.StartedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidRunRecord, ErrInvalidTimestamps)
	}
	return nil
}

// ValidateInstance validates a benchmark instance.
func ValidateInstance(instance *Instance) error {
	if instance == nil || instance.InstanceID == "" {
		return ErrEmptyInstanceID
	}
	return nil
}
