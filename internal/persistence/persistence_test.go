package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/lane2go/lane2go/internal/actuation"
	"github.com/lane2go/lane2go/internal/controller"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPersistence(t *testing.T) Persistence {
	p := NewPersistence(filepath.Join(t.TempDir(), "db", "lane2go.db"))
	require.NoError(t, p.Init())
	return p
}

func createRecords(n int) []Record {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	records := make([]Record, n)
	for i := range records {
		records[i] = Record{
			Time:      start.Add(time.Duration(i) * 100 * time.Millisecond),
			Angle:     i - n/2,
			Speed:     10 + i,
			Estimated: 320 + i,
			Error:     6 + i,
		}
	}
	return records
}

func TestPersistence_SaveAndLoadRecords(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	records := createRecords(10)
	require.NoError(t, p.StartRun("run-1", time.Now()))

	// WHEN
	require.NoError(t, p.SaveRecords("run-1", records[:4]))
	require.NoError(t, p.SaveRecords("run-1", records[4:]))

	// THEN
	loaded, err := p.LoadRecords("run-1")
	require.NoError(t, err)
	assert.Equal(t, records, loaded)

	info, err := p.LoadRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(10), info.Records)
}

func TestPersistence_SaveRecords_UnknownRun(t *testing.T) {
	// GIVEN
	p := createPersistence(t)

	// WHEN
	err := p.SaveRecords("missing", createRecords(1))

	// THEN
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestPersistence_LoadRecords_UnknownRun(t *testing.T) {
	// GIVEN
	p := createPersistence(t)

	// WHEN
	records, err := p.LoadRecords("missing")

	// THEN
	assert.Nil(t, records)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestPersistence_StartRun_Twice(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	require.NoError(t, p.StartRun("run-1", time.Now()))

	// WHEN
	err := p.StartRun("run-1", time.Now())

	// THEN
	assert.Error(t, err)
}

func TestPersistence_ListRuns_OldestFirst(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, p.StartRun("b", now.Add(time.Hour)))
	require.NoError(t, p.StartRun("c", now.Add(-time.Hour)))
	require.NoError(t, p.StartRun("a", now))

	// WHEN
	runs, err := p.ListRuns()

	// THEN
	require.NoError(t, err)
	ids := []string{}
	for _, run := range runs {
		ids = append(ids, run.Id)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestPersistence_ListRuns_Empty(t *testing.T) {
	// GIVEN
	p := createPersistence(t)

	// WHEN
	runs, err := p.ListRuns()

	// THEN
	assert.NoError(t, err)
	assert.Empty(t, runs)
}

func TestPersistence_DeleteRun(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	require.NoError(t, p.StartRun("run-1", time.Now()))
	require.NoError(t, p.SaveRecords("run-1", createRecords(3)))

	// WHEN
	err := p.DeleteRun("run-1")

	// THEN
	assert.NoError(t, err)
	_, err = p.LoadRecords("run-1")
	assert.ErrorIs(t, err, ErrRunNotFound)
	runs, err := p.ListRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)

	// deleting again is not an error
	assert.NoError(t, p.DeleteRun("run-1"))
}

func TestRecorder_Run(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	recorder := NewRecorder[float64](p)
	recorder.flushInterval = 10 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- recorder.Run(ctx)
	}()
	assert.Eventually(t, func() bool {
		_, err := p.LoadRun(recorder.RunId())
		return err == nil
	}, 2*time.Second, 5*time.Millisecond)

	// WHEN
	for i := 0; i < 5; i++ {
		recorder.OnCycle(nil, controller.CycleResult[float64]{
			Estimated: 320 + i,
			Error:     6 + i,
			Command:   actuation.Command{Angle: i, Speed: 10},
		})
	}
	cancel()

	// THEN
	require.NoError(t, <-done)
	records, err := p.LoadRecords(recorder.RunId())
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, Record{Angle: 4, Speed: 10, Estimated: 324, Error: 10}, records[4])
}

func TestRecorder_DropsWhenBufferIsFull(t *testing.T) {
	// GIVEN
	recorder := NewRecorder[float64](createPersistence(t))

	// WHEN
	for i := 0; i < recorderBufferSize+3; i++ {
		recorder.OnCycle(nil, controller.CycleResult[float64]{})
	}

	// THEN
	assert.Equal(t, uint64(3), recorder.Dropped())
}
