package eval

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareNatural(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"django__django-7", "django__django-53", -1},
		{"django__django-53", "django__django-7", 1},
		{"django__django-7", "django__django-7", 0},
		{"astropy__astropy-1", "django__django-1", -1},
		{"django__django-7", "django__django", -1}, // unnumbered sorts last
		{"django__django", "django__django-7", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, compareNatural(tt.a, tt.b), "%s vs %s", tt.a, tt.b)
	}
}

func writeCSV(t *testing.T, name string, rows [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	writer := csv.NewWriter(f)
	require.NoError(t, writer.WriteAll(rows))
	return path
}

func TestParseLocalizedCSV(t *testing.T) {
	path := writeCSV(t, "trial1.csv", [][]string{
		{"accuracy@1", "accuracy@5", "accuracy@10"},
		{"bug-1", "bug-1", "bug-1"},
		{"", "bug-2", "bug-2"},
		{"", "", "bug-3"},
	})

	columns, err := ParseLocalizedCSV(path)
	require.NoError(t, err)

	assert.Equal(t, map[string]struct{}{"bug-1": {}}, columns["accuracy@1"])
	assert.Equal(t, map[string]struct{}{"bug-1": {}, "bug-2": {}}, columns["accuracy@5"])
	assert.Len(t, columns["accuracy@10"], 3)
}

func TestParseLocalizedCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := ParseLocalizedCSV(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadCSV)
}

func TestCombine(t *testing.T) {
	trial1 := map[string]map[string]struct{}{
		"accuracy@1":  {"bug-1": {}, "bug-2": {}},
		"accuracy@5":  {"bug-1": {}, "bug-2": {}, "bug-3": {}},
		"accuracy@10": {"bug-1": {}, "bug-2": {}, "bug-3": {}},
	}
	trial2 := map[string]map[string]struct{}{
		"accuracy@1":  {"bug-2": {}, "bug-4": {}},
		"accuracy@5":  {"bug-2": {}, "bug-3": {}},
		"accuracy@10": {"bug-2": {}, "bug-3": {}, "bug-5": {}},
	}

	union, intersection := Combine([]map[string]map[string]struct{}{trial1, trial2})

	assert.Len(t, union["accuracy@1"], 3)
	assert.Contains(t, union["accuracy@1"], "bug-4")
	assert.Equal(t, map[string]struct{}{"bug-2": {}}, intersection["accuracy@1"])
	assert.Equal(t, map[string]struct{}{"bug-2": {}, "bug-3": {}}, intersection["accuracy@5"])
	assert.Len(t, union["accuracy@10"], 4)
}

func TestWriteWideCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "union.csv")
	columns := map[string]map[string]struct{}{
		"accuracy@1":  {"django__django-53": {}, "django__django-7": {}},
		"accuracy@5":  {"a-1": {}},
		"accuracy@10": {},
	}

	require.NoError(t, WriteWideCSV(path, columns))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"accuracy@1", "accuracy@5", "accuracy@10"}, rows[0])
	assert.Equal(t, []string{"django__django-7", "a-1", ""}, rows[1],
		"ids come out in natural order")
	assert.Equal(t, []string{"django__django-53", "", ""}, rows[2])
}

func TestCombineRoundTrip(t *testing.T) {
	// Two trial hit lists through parse, combine and write.
	path1 := writeCSV(t, "localized_bugs1.csv", [][]string{
		{"accuracy@1", "accuracy@5", "accuracy@10"},
		{"bug-1", "bug-1", "bug-1"},
		{"", "bug-3", "bug-3"},
	})
	path2 := writeCSV(t, "localized_bugs2.csv", [][]string{
		{"accuracy@1", "accuracy@5", "accuracy@10"},
		{"bug-2", "bug-1", "bug-1"},
		{"", "bug-2", "bug-2"},
	})

	parsed1, err := ParseLocalizedCSV(path1)
	require.NoError(t, err)
	parsed2, err := ParseLocalizedCSV(path2)
	require.NoError(t, err)

	union, intersection := Combine([]map[string]map[string]struct{}{parsed1, parsed2})

	out := filepath.Join(t.TempDir(), "intersection.csv")
	require.NoError(t, WriteWideCSV(out, intersection))

	reparsed, err := ParseLocalizedCSV(out)
	require.NoError(t, err)
	assert.Empty(t, reparsed["accuracy@1"])
	assert.Equal(t, map[string]struct{}{"bug-1": {}}, reparsed["accuracy@5"])

	assert.Len(t, union["accuracy@1"], 2)
}
