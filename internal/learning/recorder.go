// Package learning records flashcard answers and derives statistics from the review state.
package learning

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/vocabsrs/internal/database"
	"github.com/example/vocabsrs/internal/spaced_repetition"
	"github.com/example/vocabsrs/pkg/models"
)

const (
	conflictAttempts = 3
	conflictDelay    = 10 * time.Millisecond
)

// WordChecker confirms that a word exists before an answer is recorded
type WordChecker interface {
	Exists(ctx context.Context, wordID int64) (bool, error)
}

// Recorder applies answers to the review state of (user, word) pairs
type Recorder struct {
	db      *sqlx.DB
	records *database.ReviewRecordRepository
	logs    *database.ReviewLogRepository
	words   WordChecker
	locks   keyLock
	now     func() time.Time
	logger  *slog.Logger
}

// RecorderOption configures a Recorder
type RecorderOption func(*Recorder)

// WithRecorderClock replaces time.Now, mainly for tests
func WithRecorderClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		r.now = now
	}
}

// WithRecorderLogger sets the logger used for conflict retries
func WithRecorderLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// NewRecorder creates a Recorder. words may be nil when the caller already checked the word.
func NewRecorder(db *sqlx.DB, words WordChecker, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		db:      db,
		records: database.NewReviewRecordRepository(db),
		logs:    database.NewReviewLogRepository(db),
		words:   words,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RecordInteraction applies one answer to the user's record for the word, creating the
// record on the first answer. Exactly one record write and one log entry are persisted.
func (r *Recorder) RecordInteraction(ctx context.Context, userID, wordID int64, action models.Action) (*models.ReviewRecord, error) {
	if userID <= 0 || wordID <= 0 {
		return nil, fmt.Errorf("%w: user and word IDs must be positive", models.ErrInvalidArgument)
	}
	if !action.Valid() {
		return nil, fmt.Errorf("%w: unknown action %q", models.ErrInvalidArgument, action)
	}

	if r.words != nil {
		ok, err := r.words.Exists(ctx, wordID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Wrapf(models.ErrNotFound, "word %d", wordID)
		}
	}

	unlock := r.locks.lock(userID, wordID)
	defer unlock()

	var result *models.ReviewRecord
	err := retry.Do(
		func() error {
			rec, err := r.apply(ctx, userID, wordID, action.IsCorrect())
			if err != nil {
				if !errors.Is(err, database.ErrConflict) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			result = rec
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(conflictAttempts),
		retry.Delay(conflictDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			r.logger.Debug("Retrying review record write",
				slog.Int64("user_id", userID),
				slog.Int64("word_id", wordID),
				slog.Uint64("attempt", uint64(n+1)),
				slog.Any("error", err))
		}),
	)
	if err != nil {
		if errors.Is(err, database.ErrConflict) {
			return nil, fmt.Errorf("%w: %w", models.ErrStoreFailure, err)
		}
		return nil, err
	}
	return result, nil
}

// apply reads the current state, computes the transition and writes it in one transaction
func (r *Recorder) apply(ctx context.Context, userID, wordID int64, correct bool) (*models.ReviewRecord, error) {
	now := r.now().UTC()
	var rec models.ReviewRecord

	err := database.RunInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		current, err := r.records.GetVersioned(ctx, tx, userID, wordID)
		isNew := errors.Is(err, models.ErrNotFound)
		if err != nil && !isNew {
			return err
		}

		if isNew {
			rec = models.ReviewRecord{UserID: userID, WordID: wordID}
			applyAnswer(&rec, spaced_repetition.ComputeTransition(now, 0, correct), correct, now)
			if err := r.records.Insert(ctx, tx, &rec); err != nil {
				return err
			}
		} else {
			rec = current.ReviewRecord
			applyAnswer(&rec, spaced_repetition.ComputeTransition(now, rec.ConsecutiveCorrect, correct), correct, now)
			if err := r.records.Update(ctx, tx, &rec, current.Version); err != nil {
				return err
			}
		}

		return r.logs.Insert(ctx, tx, &models.ReviewLog{
			UserID:     userID,
			WordID:     wordID,
			Correct:    correct,
			IsNew:      isNew,
			ReviewedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func applyAnswer(rec *models.ReviewRecord, t spaced_repetition.Transition, correct bool, now time.Time) {
	rec.ConsecutiveCorrect = t.ConsecutiveCorrect
	rec.Status = t.Status
	rec.NextReviewAt = t.NextReviewAt
	rec.LastReviewedAt = now
	if correct {
		rec.TotalCorrect++
	} else {
		rec.TotalIncorrect++
	}
}
