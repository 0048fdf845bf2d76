package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/vocabsrs/pkg/models"
)

const reviewRecordColumns = `id, user_id, word_id, status, last_reviewed_at, next_review_at,
	consecutive_correct, total_correct, total_incorrect, version, created_at, updated_at`

// ReviewRecord is the stored row, carrying the optimistic-lock version
type ReviewRecord struct {
	models.ReviewRecord
	Version int `db:"version"`
}

// ReviewRecordRepository handles database operations for review records
type ReviewRecordRepository struct {
	db *sqlx.DB
}

// NewReviewRecordRepository creates a new repository instance
func NewReviewRecordRepository(db *sqlx.DB) *ReviewRecordRepository {
	return &ReviewRecordRepository{db: db}
}

// Get returns the record for a user and word
func (r *ReviewRecordRepository) Get(ctx context.Context, userID, wordID int64) (*models.ReviewRecord, error) {
	rec, err := r.GetVersioned(ctx, r.db, userID, wordID)
	if err != nil {
		return nil, err
	}
	return &rec.ReviewRecord, nil
}

// GetVersioned reads a record through q, which may be a transaction
func (r *ReviewRecordRepository) GetVersioned(ctx context.Context, q sqlx.ExtContext, userID, wordID int64) (*ReviewRecord, error) {
	var rec ReviewRecord
	err := sqlx.GetContext(ctx, q, &rec, q.Rebind(
		"SELECT "+reviewRecordColumns+" FROM review_records WHERE user_id = ? AND word_id = ?"),
		userID, wordID)
	if err != nil {
		return nil, storeError(err, "failed to get review record")
	}
	return &rec, nil
}

// Insert creates the record for a pair seen for the first time.
// It returns ErrConflict when another writer created the pair first.
func (r *ReviewRecordRepository) Insert(ctx context.Context, q sqlx.ExtContext, rec *models.ReviewRecord) error {
	now := rec.LastReviewedAt.UTC()
	id, err := insertReturningID(ctx, q, `
		INSERT INTO review_records (
			user_id, word_id, status, last_reviewed_at, next_review_at,
			consecutive_correct, total_correct, total_incorrect, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		rec.UserID,
		rec.WordID,
		rec.Status,
		now,
		rec.NextReviewAt.UTC(),
		rec.ConsecutiveCorrect,
		rec.TotalCorrect,
		rec.TotalIncorrect,
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrap(ErrConflict, "review record already exists")
		}
		return storeError(err, "failed to insert review record")
	}
	rec.ID = id
	rec.CreatedAt = now
	rec.UpdatedAt = now
	return nil
}

// Update writes rec if the stored version still equals version.
// It returns ErrConflict when the row changed since it was read.
func (r *ReviewRecordRepository) Update(ctx context.Context, q sqlx.ExtContext, rec *models.ReviewRecord, version int) error {
	now := rec.LastReviewedAt.UTC()
	result, err := q.ExecContext(ctx, q.Rebind(`
		UPDATE review_records SET
			status = ?,
			last_reviewed_at = ?,
			next_review_at = ?,
			consecutive_correct = ?,
			total_correct = ?,
			total_incorrect = ?,
			version = version + 1,
			updated_at = ?
		WHERE id = ? AND version = ?`),
		rec.Status,
		now,
		rec.NextReviewAt.UTC(),
		rec.ConsecutiveCorrect,
		rec.TotalCorrect,
		rec.TotalIncorrect,
		now,
		rec.ID,
		version,
	)
	if err != nil {
		return storeError(err, "failed to update review record")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storeError(err, "failed to get rows affected")
	}
	if rows == 0 {
		return errors.Wrap(ErrConflict, "review record changed concurrently")
	}
	rec.UpdatedAt = now
	return nil
}

// ListByUser returns every record of a user
func (r *ReviewRecordRepository) ListByUser(ctx context.Context, userID int64) ([]models.ReviewRecord, error) {
	var records []models.ReviewRecord
	err := r.db.SelectContext(ctx, &records, r.db.Rebind(`
		SELECT id, user_id, word_id, status, last_reviewed_at, next_review_at,
			consecutive_correct, total_correct, total_incorrect, created_at, updated_at
		FROM review_records
		WHERE user_id = ?
		ORDER BY word_id ASC`), userID)
	if err != nil {
		return nil, storeError(err, "failed to list review records")
	}
	return records, nil
}

// FindDue returns records whose next review is at or before asOf, most overdue first.
// A limit of zero or less returns all of them.
func (r *ReviewRecordRepository) FindDue(ctx context.Context, userID int64, asOf time.Time, limit int) ([]models.ReviewRecord, error) {
	query := `
		SELECT id, user_id, word_id, status, last_reviewed_at, next_review_at,
			consecutive_correct, total_correct, total_incorrect, created_at, updated_at
		FROM review_records
		WHERE user_id = ? AND next_review_at <= ?
		ORDER BY next_review_at ASC, word_id ASC`
	args := []interface{}{userID, asOf.UTC()}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var records []models.ReviewRecord
	if err := r.db.SelectContext(ctx, &records, r.db.Rebind(query), args...); err != nil {
		return nil, storeError(err, "failed to get due records")
	}
	return records, nil
}

// CountDue returns how many words are due for a user at asOf
func (r *ReviewRecordRepository) CountDue(ctx context.Context, userID int64, asOf time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, r.db.Rebind(
		"SELECT COUNT(*) FROM review_records WHERE user_id = ? AND next_review_at <= ?"),
		userID, asOf.UTC())
	if err != nil {
		return 0, storeError(err, "failed to count due records")
	}
	return count, nil
}

// CountByStatus returns the number of records per status for a user
func (r *ReviewRecordRepository) CountByStatus(ctx context.Context, userID int64) (map[models.Status]int, error) {
	var rows []struct {
		Status models.Status `db:"status"`
		Count  int           `db:"count"`
	}
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT status, COUNT(*) AS count
		FROM review_records
		WHERE user_id = ?
		GROUP BY status`), userID)
	if err != nil {
		return nil, storeError(err, "failed to count records by status")
	}

	counts := make(map[models.Status]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// errorRateExpr is a float on every driver, so the rate parameter is never typed as an integer
const errorRateExpr = "(r.total_incorrect * 1.0) / NULLIF(r.total_correct + r.total_incorrect, 0)"

// FindWeak returns records with at least minAttempts answers and an error rate above
// minErrorRate, ordered by error rate descending and word ID ascending
func (r *ReviewRecordRepository) FindWeak(ctx context.Context, userID int64, minAttempts int, minErrorRate float64, limit int) ([]models.WeakWord, error) {
	var rows []struct {
		WordID         int64         `db:"word_id"`
		Text           string        `db:"text"`
		Status         models.Status `db:"status"`
		LastReviewedAt time.Time     `db:"last_reviewed_at"`
		TotalCorrect   int           `db:"total_correct"`
		TotalIncorrect int           `db:"total_incorrect"`
	}
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT r.word_id, COALESCE(w.text, '') AS text, r.status, r.last_reviewed_at,
			r.total_correct, r.total_incorrect
		FROM review_records r
		LEFT JOIN words w ON w.id = r.word_id
		WHERE r.user_id = ?
			AND r.total_correct + r.total_incorrect >= ?
			AND `+errorRateExpr+` > ?
		ORDER BY `+errorRateExpr+` DESC, r.word_id ASC
		LIMIT ?`), userID, minAttempts, minErrorRate, limit)
	if err != nil {
		return nil, storeError(err, "failed to find weak words")
	}

	words := make([]models.WeakWord, 0, len(rows))
	for _, row := range rows {
		attempts := row.TotalCorrect + row.TotalIncorrect
		words = append(words, models.WeakWord{
			WordID:         row.WordID,
			Text:           row.Text,
			ErrorRate:      float64(row.TotalIncorrect) / float64(attempts),
			TotalAttempts:  attempts,
			Status:         row.Status,
			LastReviewedAt: row.LastReviewedAt,
		})
	}
	return words, nil
}
