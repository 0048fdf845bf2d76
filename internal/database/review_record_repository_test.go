package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabsrs/internal/database"
	"github.com/example/vocabsrs/internal/database/dbtest"
	"github.com/example/vocabsrs/pkg/models"
)

func newRecord(userID, wordID int64, correct, incorrect, consecutive int, at time.Time) *models.ReviewRecord {
	status := models.StatusLearning
	if consecutive > 0 {
		status = models.StatusReviewing
	}
	return &models.ReviewRecord{
		UserID:             userID,
		WordID:             wordID,
		Status:             status,
		LastReviewedAt:     at,
		NextReviewAt:       at.Add(24 * time.Hour),
		ConsecutiveCorrect: consecutive,
		TotalCorrect:       correct,
		TotalIncorrect:     incorrect,
	}
}

func TestReviewRecordRepository_InsertAndGet(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	user := dbtest.CreateUser(t, db, "alice", false, "", false)
	words := dbtest.CreateWords(t, db, "apple")
	repo := database.NewReviewRecordRepository(db)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rec := newRecord(user.ID, words[0], 1, 0, 1, now)
	require.NoError(t, repo.Insert(ctx, db, rec))
	assert.NotZero(t, rec.ID)

	got, err := repo.GetVersioned(ctx, db, user.ID, words[0])
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, models.StatusReviewing, got.Status)
	assert.Equal(t, 1, got.TotalCorrect)
	assert.True(t, got.LastReviewedAt.Equal(now))
	assert.True(t, got.NextReviewAt.Equal(now.Add(24*time.Hour)))

	_, err = repo.Get(ctx, user.ID, words[0]+100)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestReviewRecordRepository_InsertDuplicateIsConflict(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	user := dbtest.CreateUser(t, db, "alice", false, "", false)
	words := dbtest.CreateWords(t, db, "apple")
	repo := database.NewReviewRecordRepository(db)

	now := time.Now().UTC()
	require.NoError(t, repo.Insert(ctx, db, newRecord(user.ID, words[0], 1, 0, 1, now)))
	err := repo.Insert(ctx, db, newRecord(user.ID, words[0], 0, 1, 0, now))
	assert.ErrorIs(t, err, database.ErrConflict)
}

func TestReviewRecordRepository_UpdateChecksVersion(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	user := dbtest.CreateUser(t, db, "alice", false, "", false)
	words := dbtest.CreateWords(t, db, "apple")
	repo := database.NewReviewRecordRepository(db)

	now := time.Now().UTC()
	require.NoError(t, repo.Insert(ctx, db, newRecord(user.ID, words[0], 1, 0, 1, now)))

	current, err := repo.GetVersioned(ctx, db, user.ID, words[0])
	require.NoError(t, err)

	next := current.ReviewRecord
	next.TotalCorrect = 2
	next.ConsecutiveCorrect = 2
	require.NoError(t, repo.Update(ctx, db, &next, current.Version))

	// a writer still holding the old version loses
	stale := current.ReviewRecord
	stale.TotalIncorrect = 1
	err = repo.Update(ctx, db, &stale, current.Version)
	assert.ErrorIs(t, err, database.ErrConflict)

	got, err := repo.GetVersioned(ctx, db, user.ID, words[0])
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
	assert.Equal(t, 2, got.TotalCorrect)
	assert.Equal(t, 0, got.TotalIncorrect)
}

func TestReviewRecordRepository_DueQueries(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	user := dbtest.CreateUser(t, db, "alice", false, "", false)
	other := dbtest.CreateUser(t, db, "bob", false, "", false)
	words := dbtest.CreateWords(t, db, "apple", "pear", "plum")
	repo := database.NewReviewRecordRepository(db)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	// due yesterday, due in an hour, due in three days
	for i, offset := range []time.Duration{-48 * time.Hour, -23 * time.Hour, 48 * time.Hour} {
		rec := newRecord(user.ID, words[i], 1, 0, 1, base.Add(offset))
		require.NoError(t, repo.Insert(ctx, db, rec))
	}
	require.NoError(t, repo.Insert(ctx, db, newRecord(other.ID, words[0], 1, 0, 1, base.Add(-72*time.Hour))))

	count, err := repo.CountDue(ctx, user.ID, base)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = repo.CountDue(ctx, user.ID, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	due, err := repo.FindDue(ctx, user.ID, base.Add(2*time.Hour), 0)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, words[0], due[0].WordID)
	assert.Equal(t, words[1], due[1].WordID)

	due, err = repo.FindDue(ctx, user.ID, base.Add(2*time.Hour), 1)
	require.NoError(t, err)
	assert.Len(t, due, 1)

	counts, err := repo.CountByStatus(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, counts[models.StatusReviewing])
}

func TestReviewRecordRepository_FindWeak(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	user := dbtest.CreateUser(t, db, "alice", false, "", false)
	words := dbtest.CreateWords(t, db, "apple", "pear", "plum", "fig", "kiwi")
	repo := database.NewReviewRecordRepository(db)
	now := time.Now().UTC()

	records := []struct {
		correct, incorrect int
	}{
		{2, 3}, // 0.6, weak
		{9, 1}, // 0.1
		{1, 1}, // 0.5 but only 2 attempts
		{3, 2}, // 0.4, not above threshold
		{1, 4}, // 0.8, weakest
	}
	for i, r := range records {
		require.NoError(t, repo.Insert(ctx, db, newRecord(user.ID, words[i], r.correct, r.incorrect, 0, now)))
	}

	weak, err := repo.FindWeak(ctx, user.ID, 3, 0.4, 20)
	require.NoError(t, err)
	require.Len(t, weak, 2)
	assert.Equal(t, words[4], weak[0].WordID)
	assert.Equal(t, "kiwi", weak[0].Text)
	assert.InDelta(t, 0.8, weak[0].ErrorRate, 1e-9)
	assert.Equal(t, 5, weak[0].TotalAttempts)
	assert.Equal(t, words[0], weak[1].WordID)
	assert.InDelta(t, 0.6, weak[1].ErrorRate, 1e-9)

	weak, err = repo.FindWeak(ctx, user.ID, 3, 0.4, 1)
	require.NoError(t, err)
	assert.Len(t, weak, 1)
}

func TestReviewRecordRepository_FindWeakTieBreaksByWordID(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	user := dbtest.CreateUser(t, db, "alice", false, "", false)
	words := dbtest.CreateWords(t, db, "apple", "pear", "plum")
	repo := database.NewReviewRecordRepository(db)
	now := time.Now().UTC()

	// inserted in reverse so row order differs from word order
	for i := len(words) - 1; i >= 0; i-- {
		require.NoError(t, repo.Insert(ctx, db, newRecord(user.ID, words[i], 1, 2, 0, now)))
	}

	weak, err := repo.FindWeak(ctx, user.ID, 3, 0.4, 20)
	require.NoError(t, err)
	require.Len(t, weak, 3)
	for i := range words {
		assert.Equal(t, words[i], weak[i].WordID)
	}
}
