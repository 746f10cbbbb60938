package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRunRecord() *RunRecord {
	now := time.Now().UTC()
	return &RunRecord{
		Id:           IDFromContent("run"),
		Dataset:      "princeton-nlp/SWE-bench_Lite",
		Split:        "test",
		Model:        "gpt-4o",
		Args:         []string{"--dataset", "princeton-nlp/SWE-bench_Lite"},
		EnvKeys:      []string{"OPENAI_API_KEY", "PYTHONPATH"},
		OutputFolder: "swe-res/location",
		Status:       RunStatusCompleted,
		StartedAt:    now.Add(-time.Minute),
		FinishedAt:   now,
	}
}

func TestValidateRunRecord(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RunRecord)
		wantErr error
	}{
		{
			name:    "valid record",
			mutate:  func(r *RunRecord) {},
			wantErr: nil,
		},
		{
			name:    "empty dataset",
			mutate:  func(r *RunRecord) { r.Dataset = "" },
			wantErr: ErrEmptyDataset,
		},
		{
			name:    "empty split",
			mutate:  func(r *RunRecord) { r.Split = "" },
			wantErr: ErrEmptySplit,
		},
		{
			name:    "empty model",
			mutate:  func(r *RunRecord) { r.Model = "" },
			wantErr: ErrEmptyModel,
		},
		{
			name:    "zero status",
			mutate:  func(r *RunRecord) { r.Status = 0 },
			wantErr: ErrInvalidRunStatus,
		},
		{
			name:    "finished before started",
			mutate:  func(r *RunRecord) { r.FinishedAt = r.StartedAt.Add(-time.Hour) },
			wantErr: ErrInvalidTimestamps,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := validRunRecord()
			tt.mutate(record)

			err := ValidateRunRecord(record)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrInvalidRunRecord)
		})
	}

	t.Run("nil record", func(t *testing.T) {
		assert.ErrorIs(t, ValidateRunRecord(nil), ErrInvalidRunRecord)
	})
}

func TestValidateInstance(t *testing.T) {
	assert.NoError(t, ValidateInstance(&Instance{InstanceID: "sympy__sympy-20590"}))
	assert.ErrorIs(t, ValidateInstance(&Instance{}), ErrEmptyInstanceID)
	assert.ErrorIs(t, ValidateInstance(nil), ErrEmptyInstanceID)
}
