package eval

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/locbench/core"
	"github.com/poiesic/locbench/results"
)

func writeTrial(t *testing.T, root string, trial int, content string) {
	t.Helper()
	dir := filepath.Join(root, fmt.Sprintf("swe-res-%d", trial), "location")
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, "loc_outputs.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func trialInstances() []*core.Instance {
	return []*core.Instance{
		{InstanceID: "bug-1", Patch: "diff --git a/a.py b/a.py\n"},
		{InstanceID: "bug-2", Patch: "diff --git a/b.py b/b.py\n"},
	}
}

func TestEvaluateTrials(t *testing.T) {
	root := t.TempDir()
	writeTrial(t, root, 1, `{"instance_id": "bug-1", "found_files": ["a.py"], "raw_output_loc": []}
{"instance_id": "bug-2", "found_files": ["x.py"], "raw_output_loc": []}
`)
	writeTrial(t, root, 2, `{"instance_id": "bug-1", "found_files": ["x.py", "a.py"], "raw_output_loc": []}
{"instance_id": "bug-2", "found_files": ["b.py"], "raw_output_loc": []}
`)

	reports, err := EvaluateTrials(context.Background(), root, []int{1, 2}, trialInstances())
	require.NoError(t, err)
	require.Len(t, reports, 2)

	require.NoError(t, reports[0].Err)
	assert.Equal(t, 1, reports[0].Trial)
	assert.Equal(t, 2, reports[0].Report.Total)
	assert.Equal(t, 1, reports[0].Report.HitsAt[1])

	require.NoError(t, reports[1].Err)
	assert.Equal(t, 2, reports[1].Trial)
	assert.Equal(t, 2, reports[1].Report.HitsAt[5])
	assert.Equal(t, 1, reports[1].Report.HitsAt[1])
}

func TestEvaluateTrialsMissingTrial(t *testing.T) {
	root := t.TempDir()
	writeTrial(t, root, 1, `{"instance_id": "bug-1", "found_files": ["a.py"], "raw_output_loc": []}
`)

	reports, err := EvaluateTrials(context.Background(), root, []int{1, 9}, trialInstances(),
		WithPoolSize(2))
	require.NoError(t, err, "a missing trial must not fail the batch")
	require.Len(t, reports, 2)

	assert.NoError(t, reports[0].Err)
	require.Error(t, reports[1].Err)
	assert.ErrorIs(t, reports[1].Err, results.ErrNoOutputs)
}

func TestEvaluateTrialsNoTrials(t *testing.T) {
	_, err := EvaluateTrials(context.Background(), t.TempDir(), nil, trialInstances())
	assert.ErrorIs(t, err, ErrNoTrials)
}

func TestEvaluateTrialsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reports, err := EvaluateTrials(ctx, t.TempDir(), []int{1}, trialInstances())
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.ErrorIs(t, reports[0].Err, context.Canceled)
}
