package eval

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/locbench/bench"
	"github.com/poiesic/locbench/core"
)

func TestLocalizedBuckets(t *testing.T) {
	set := &bench.EvalSet{
		Bugs: map[string]*core.BugResult{
			// Hit at rank 1.
			"django__django-11": {
				SuspiciousFiles: []string{"a.py"},
				FixedFiles:      []string{"a.py"},
			},
			// Hit at rank 3: counts for k=5 and k=10 only.
			"django__django-2": {
				SuspiciousFiles: []string{"x.py", "y.py", "b.py"},
				FixedFiles:      []string{"b.py"},
			},
			// Never hit.
			"sympy__sympy-1": {
				SuspiciousFiles: []string{"q.py"},
				FixedFiles:      []string{"z.py"},
			},
		},
	}

	buckets := LocalizedBuckets(set)

	assert.Equal(t, []string{"django__django-11"}, buckets[1])
	// Natural order: -2 before -11.
	assert.Equal(t, []string{"django__django-2", "django__django-11"}, buckets[5])
	assert.Equal(t, []string{"django__django-2", "django__django-11"}, buckets[10])
}

func TestWriteLocalizedCSV(t *testing.T) {
	buckets := map[int][]string{
		1:  {"bug-1"},
		5:  {"bug-1", "bug-2"},
		10: {"bug-1", "bug-2", "bug-3"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLocalizedCSV(&buf, buckets))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4, "header plus rows padded to the longest column")

	assert.Equal(t, []string{"accuracy@1", "accuracy@5", "accuracy@10"}, rows[0])
	assert.Equal(t, []string{"bug-1", "bug-1", "bug-1"}, rows[1])
	assert.Equal(t, []string{"", "bug-2", "bug-2"}, rows[2])
	assert.Equal(t, []string{"", "", "bug-3"}, rows[3])
}

func TestLocalizedCSVName(t *testing.T) {
	assert.Equal(t, "localized_bugs3.csv", LocalizedCSVName(3))
}
