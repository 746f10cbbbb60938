package badger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/locbench/core"
	"github.com/poiesic/locbench/storage"
)

func newTestRepository(t *testing.T) storage.RunRepository {
	t.Helper()
	runs, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		runs.Close()
		backend.Close()
	})
	return runs
}

func testRecord(id core.ID, startedAt time.Time) *core.RunRecord {
	return &core.RunRecord{
		Id:           id,
		Dataset:      "princeton-nlp/SWE-bench_Lite",
		Split:        "test",
		Model:        "gpt-4o",
		Args:         []string{"auto_search_main.py", "--localize"},
		EnvKeys:      []string{"OPENAI_API_KEY"},
		OutputFolder: "swe-res/location",
		Status:       core.RunStatusCompleted,
		StartedAt:    startedAt,
		FinishedAt:   startedAt.Add(time.Minute),
	}
}

func TestSaveAndGetRun(t *testing.T) {
	runs := newTestRepository(t)
	ctx := context.Background()

	record := testRecord(42, time.Now().UTC().Truncate(time.Microsecond))
	require.NoError(t, runs.SaveRun(ctx, record))

	stored, err := runs.GetRun(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, record.Dataset, stored.Dataset)
	assert.Equal(t, record.Args, stored.Args)
	assert.Equal(t, record.Status, stored.Status)
	assert.True(t, record.StartedAt.Equal(stored.StartedAt))
}

func TestSaveRunOverwrite(t *testing.T) {
	runs := newTestRepository(t)
	ctx := context.Background()
	startedAt := time.Now().UTC()

	record := testRecord(7, startedAt)
	require.NoError(t, runs.SaveRun(ctx, record))

	record.Status = core.RunStatusFailed
	record.ExitCode = 2
	require.NoError(t, runs.SaveRun(ctx, record))

	stored, err := runs.GetRun(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, core.RunStatusFailed, stored.Status)
	assert.Equal(t, 2, stored.ExitCode)
}

func TestSaveRunInvalid(t *testing.T) {
	runs := newTestRepository(t)

	record := testRecord(1, time.Now().UTC())
	record.Model = ""
	err := runs.SaveRun(context.Background(), record)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidRunRecord)
}

func TestGetRunNotFound(t *testing.T) {
	runs := newTestRepository(t)

	_, err := runs.GetRun(context.Background(), 999)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListRunsMostRecentFirst(t *testing.T) {
	runs := newTestRepository(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	for i := 1; i <= 5; i++ {
		record := testRecord(core.ID(i), base.Add(time.Duration(i)*time.Second))
		record.Model = fmt.Sprintf("model-%d", i)
		require.NoError(t, runs.SaveRun(ctx, record))
	}

	records, err := runs.ListRuns(ctx, 3)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "model-5", records[0].Model)
	assert.Equal(t, "model-4", records[1].Model)
	assert.Equal(t, "model-3", records[2].Model)
}

func TestListRunsLimitExceedsCount(t *testing.T) {
	runs := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, runs.SaveRun(ctx, testRecord(1, time.Now().UTC())))

	records, err := runs.ListRuns(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestListRunsInvalidLimit(t *testing.T) {
	runs := newTestRepository(t)

	_, err := runs.ListRuns(context.Background(), 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestRepositoryClosedBackend(t *testing.T) {
	runs, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	ctx := context.Background()
	err = runs.SaveRun(ctx, testRecord(1, time.Now().UTC()))
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	_, err = runs.GetRun(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	_, err = runs.ListRuns(ctx, 10)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}
