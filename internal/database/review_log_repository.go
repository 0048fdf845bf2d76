package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabsrs/pkg/models"
)

// ReviewLogRepository stores one row per recorded interaction
type ReviewLogRepository struct {
	db *sqlx.DB
}

// NewReviewLogRepository creates a new repository instance
func NewReviewLogRepository(db *sqlx.DB) *ReviewLogRepository {
	return &ReviewLogRepository{db: db}
}

// Insert appends an interaction through q, which may be a transaction
func (r *ReviewLogRepository) Insert(ctx context.Context, q sqlx.ExtContext, entry *models.ReviewLog) error {
	id, err := insertReturningID(ctx, q, `
		INSERT INTO review_logs (user_id, word_id, correct, is_new, reviewed_at)
		VALUES (?, ?, ?, ?, ?)`,
		entry.UserID, entry.WordID, entry.Correct, entry.IsNew, entry.ReviewedAt.UTC())
	if err != nil {
		return storeError(err, "failed to insert review log")
	}
	entry.ID = id
	return nil
}

// ListBetween returns a user's interactions in [from, to), oldest first
func (r *ReviewLogRepository) ListBetween(ctx context.Context, userID int64, from, to time.Time) ([]models.ReviewLog, error) {
	var entries []models.ReviewLog
	err := r.db.SelectContext(ctx, &entries, r.db.Rebind(`
		SELECT id, user_id, word_id, correct, is_new, reviewed_at
		FROM review_logs
		WHERE user_id = ? AND reviewed_at >= ? AND reviewed_at < ?
		ORDER BY reviewed_at ASC, id ASC`), userID, from.UTC(), to.UTC())
	if err != nil {
		return nil, storeError(err, "failed to list review logs")
	}
	return entries, nil
}

// ActivitySince returns the reviewed_at timestamps of a user's interactions since from, newest first.
// Callers bucket them into calendar days in their own time zone.
func (r *ReviewLogRepository) ActivitySince(ctx context.Context, userID int64, from time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.db.SelectContext(ctx, &times, r.db.Rebind(`
		SELECT reviewed_at
		FROM review_logs
		WHERE user_id = ? AND reviewed_at >= ?
		ORDER BY reviewed_at DESC`), userID, from.UTC())
	if err != nil {
		return nil, storeError(err, "failed to list activity")
	}
	return times, nil
}
