package resultstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/coursebuilder/internal/grader"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndList_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	grade := 75
	err := store.Record(ctx, Record{
		SubmissionID: "sub-1",
		Ok:           true,
		Grade:        &grade,
		Detail:       "Graded",
		NumExercises: 2,
		NumSubmitted: 2,
		NumTests:     4,
		NumPassed:    3,
		NumFailed:    1,
	})
	require.NoError(t, err)

	records, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "sub-1", rec.SubmissionID)
	assert.True(t, rec.Ok)
	require.NotNil(t, rec.Grade)
	assert.Equal(t, 75, *rec.Grade)
	assert.Equal(t, 4, rec.NumTests)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestRecord_NilGradePersists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Record(ctx, Record{SubmissionID: "sub-2", Ok: false, Detail: "No exercises"})
	require.NoError(t, err)

	records, err := store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Grade)
	assert.False(t, records[0].Ok)
}

func TestBySubmission_FiltersAndOrders(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "a"} {
		require.NoError(t, store.Record(ctx, Record{SubmissionID: id, Detail: "Graded"}))
	}

	records, err := store.BySubmission(ctx, "a")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Less(t, records[0].ID, records[1].ID)
}

func TestList_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, Record{SubmissionID: "old", Detail: "Graded"}))
	require.NoError(t, store.Record(ctx, Record{SubmissionID: "new", Detail: "Graded"}))

	records, err := store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "new", records[0].SubmissionID)
}

func TestFromResult_CopiesCounters(t *testing.T) {
	grade := 50
	res := &grader.Result{
		Ok: true, Grade: &grade, Detail: "Graded",
		NumExercises: 2, NumSubmitted: 1, NumTests: 2, NumPassed: 2,
	}

	rec := FromResult("sub-3", res)
	assert.Equal(t, "sub-3", rec.SubmissionID)
	assert.Equal(t, 50, *rec.Grade)
	assert.Equal(t, 2, rec.NumPassed)
}
