package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/roadwatch/internal/filter"
)

func testSnapshot(t *testing.T, at time.Time, severity string, count int) filter.Snapshot {
	t.Helper()
	descs := accidentDescriptors()
	state := filter.UpdateField(filter.Initialize(descs), "severity", filter.Text(severity))
	return filter.NewSnapshot(state, descs, count, at)
}

func TestSaveSnapshot(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, WithIDGenerator(NewFixedGenerator("snap-1")))
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	snap := testSnapshot(t, at, "خطير", 2)

	id, err := s.SaveSnapshot(ctx, "accidents", snap)
	require.NoError(t, err)
	assert.Equal(t, "snap-1", id)

	got, err := s.Snapshot(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "snap-1", got.ID)
	assert.Equal(t, "accidents", got.Collection)
	assert.Equal(t, 2, got.Snapshot.ResultCount)
	assert.True(t, at.Equal(got.Snapshot.Timestamp))
	assert.Equal(t, "خطير", got.Snapshot.Filters["severity"])
}

func TestSnapshot_NotFound(t *testing.T) {
	_, err := createTestStore(t).Snapshot(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSnapshotNotFound))
	assert.Contains(t, err.Error(), "missing")
}

func TestSnapshots_OrderedByCreation(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, WithIDGenerator(NewFixedGenerator("c", "a", "b")))
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.SaveSnapshot(ctx, "accidents", testSnapshot(t, base.Add(2*time.Hour), "بسيط", 1))
	require.NoError(t, err)
	_, err = s.SaveSnapshot(ctx, "accidents", testSnapshot(t, base, "مميت", 1))
	require.NoError(t, err)
	_, err = s.SaveSnapshot(ctx, "blackspots", testSnapshot(t, base, "خطير", 0))
	require.NoError(t, err)

	got, err := s.Snapshots(ctx, "accidents")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestSnapshots_Empty(t *testing.T) {
	got, err := createTestStore(t).Snapshots(context.Background(), "accidents")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSnapshot_RestoresState(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, WithIDGenerator(NewFixedGenerator("snap-1")))
	_, err := s.ImportRecords(ctx, "accidents", testAccidents(t))
	require.NoError(t, err)

	descs := accidentDescriptors()
	state := filter.Initialize(descs)
	state = filter.UpdateField(state, "severity", filter.Text("خطير"))
	state = filter.UpdateField(state, "vehiclesInvolved", filter.NewRange(0, 2))
	matched, err := s.Records(ctx, "accidents", descs, state)
	require.NoError(t, err)

	id, err := s.SaveSnapshot(ctx, "accidents", filter.NewSnapshot(state, descs, len(matched), time.Now()))
	require.NoError(t, err)

	stored, err := s.Snapshot(ctx, id)
	require.NoError(t, err)
	restored, err := stored.Snapshot.State(descs)
	require.NoError(t, err)

	again, err := s.Records(ctx, "accidents", descs, restored)
	require.NoError(t, err)
	assert.Equal(t, recordIDs(matched), recordIDs(again))
	assert.Equal(t, stored.Snapshot.ResultCount, len(again))
}
