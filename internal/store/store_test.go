package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testRound(number int) RoundRecord {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return RoundRecord{
		ID:        uuid.NewString(),
		Number:    number,
		Source:    "General Trivia",
		Prompt:    "What is the capital of France?",
		Answer:    "Paris",
		PostRef:   "post-42",
		State:     RoundStatePublished,
		StartedAt: now,
		EndsAt:    now.Add(30 * time.Minute),
	}
}

func TestRoundLifecycle(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	n, err := db.NextRoundNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	r := testRound(1)
	require.NoError(t, db.CreateRound(ctx, r))

	n, err = db.NextRoundNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, db.SaveResponse(ctx, ResponseRecord{
		RoundID: r.ID, Handle: "alice", Text: "paris", Score: 100, Correct: true, Position: 1,
	}))
	require.NoError(t, db.SaveResponse(ctx, ResponseRecord{
		RoundID: r.ID, Handle: "bob", Text: "london", Score: 17, Correct: false, Position: 2,
	}))

	require.NoError(t, db.FinishRound(ctx, r.ID, 2, 1, 50))

	var state string
	var attempts, correct, percentage int
	err = db.conn.QueryRowContext(ctx,
		`SELECT state, attempts, correct, percentage FROM rounds WHERE id = ?`, r.ID,
	).Scan(&state, &attempts, &correct, &percentage)
	require.NoError(t, err)
	assert.Equal(t, RoundStateFinished, state)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 1, correct)
	assert.Equal(t, 50, percentage)
}

func TestSkipRoundLeavesPercentageUndefined(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	r := testRound(1)
	require.NoError(t, db.CreateRound(ctx, r))
	require.NoError(t, db.SkipRound(ctx, r.ID))

	var state string
	var percentage sql.NullInt64
	err := db.conn.QueryRowContext(ctx,
		`SELECT state, percentage FROM rounds WHERE id = ?`, r.ID,
	).Scan(&state, &percentage)
	require.NoError(t, err)
	assert.Equal(t, RoundStateSkipped, state)
	assert.False(t, percentage.Valid, "skipped rounds have no defined percentage")
}

func TestFinishUnknownRound(t *testing.T) {
	db := openTest(t)
	assert.Error(t, db.FinishRound(context.Background(), "missing", 1, 1, 100))
	assert.Error(t, db.SkipRound(context.Background(), "missing"))
}

func TestTriviaCatalog(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	_, err := db.RandomTriviaQuestion(ctx)
	assert.ErrorIs(t, err, ErrNoQuestions)

	require.NoError(t, db.SeedSampleQuestions(ctx))
	n, err := db.CountTriviaQuestions(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(sampleQuestions), n)

	// Seeding again must not duplicate.
	require.NoError(t, db.SeedSampleQuestions(ctx))
	n, err = db.CountTriviaQuestions(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(sampleQuestions), n)

	q, err := db.RandomTriviaQuestion(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, q.Prompt)
	assert.NotEmpty(t, q.Answer)
	assert.Empty(t, q.Image)
}
