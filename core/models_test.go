package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same ID",
			content: "django__django-11099",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "princeton-nlp/SWE-bench_Lite|test|gpt-4o|1724400000000000000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)
			assert.Equal(t, id1, id2, "hashing the same content twice must agree")
		})
	}

	t.Run("different content produces different IDs", func(t *testing.T) {
		assert.NotEqual(t, IDFromContent("astropy__astropy-12907"), IDFromContent("astropy__astropy-12908"))
	})
}

func TestRunRecordFingerprint(t *testing.T) {
	started := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	record := &RunRecord{
		Dataset:   "princeton-nlp/SWE-bench_Lite",
		Split:     "test",
		Model:     "gpt-4o",
		StartedAt: started,
	}

	fp := record.Fingerprint()
	assert.Contains(t, fp, "princeton-nlp/SWE-bench_Lite")
	assert.Contains(t, fp, "test")
	assert.Contains(t, fp, "gpt-4o")

	// Fingerprints of runs started at different times must differ.
	other := *record
	other.StartedAt = started.Add(time.Second)
	assert.NotEqual(t, fp, other.Fingerprint())
}
