package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/vocabsrs/pkg/models"
)

const planColumns = `id, user_id, name, target_wordbook_id, daily_new_words_target, daily_review_words_target,
	plan_end_date, reminder_enabled, reminder_time, is_active,
	progress_learned_words, progress_reviewed_words, progress_days_completed,
	ease_factor, interval_modifier, created_at`

// PlanRepository handles database operations for study plans
type PlanRepository struct {
	db *sqlx.DB
}

// NewPlanRepository creates a new repository instance
func NewPlanRepository(db *sqlx.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Create validates and stores a new plan. A plan created active deactivates its siblings.
func (r *PlanRepository) Create(ctx context.Context, plan *models.Plan) error {
	if plan.ReminderTime == "" {
		plan.ReminderTime = models.DefaultReminderTime
	}
	if plan.MemoryCurve == (models.MemoryCurve{}) {
		plan.MemoryCurve = models.DefaultMemoryCurve()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}
	if err := validateEntity(plan); err != nil {
		return err
	}
	if plan.PlanEndDate.Valid && plan.PlanEndDate.Time.Before(plan.CreatedAt) {
		return errors.Wrap(models.ErrInvalidArgument, "plan_end_date must not be before the creation date")
	}
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}

	return RunInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if plan.IsActive {
			if _, err := tx.ExecContext(ctx, tx.Rebind(
				"UPDATE plans SET is_active = ? WHERE user_id = ?"), false, plan.UserID); err != nil {
				return storeError(err, "failed to deactivate plans")
			}
		}

		endDate := plan.PlanEndDate
		if endDate.Valid {
			endDate.Time = endDate.Time.UTC()
		}
		_, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO plans (`+planColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			plan.ID,
			plan.UserID,
			plan.Name,
			plan.TargetWordbookID,
			plan.DailyNewWordsTarget,
			plan.DailyReviewWordsTarget,
			endDate,
			plan.ReminderEnabled,
			plan.ReminderTime,
			plan.IsActive,
			plan.LearnedWords,
			plan.ReviewedWords,
			plan.DaysCompleted,
			plan.EaseFactor,
			plan.IntervalModifier,
			plan.CreatedAt.UTC(),
		)
		if err != nil {
			return storeError(err, "failed to create plan")
		}
		return nil
	})
}

// GetByID returns a plan owned by userID
func (r *PlanRepository) GetByID(ctx context.Context, userID int64, planID string) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.GetContext(ctx, &plan, r.db.Rebind(
		"SELECT "+planColumns+" FROM plans WHERE user_id = ? AND id = ?"), userID, planID)
	if err != nil {
		return nil, storeError(err, "failed to get plan")
	}
	return &plan, nil
}

// ListByUser returns every plan of a user, oldest first
func (r *PlanRepository) ListByUser(ctx context.Context, userID int64) ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.SelectContext(ctx, &plans, r.db.Rebind(
		"SELECT "+planColumns+" FROM plans WHERE user_id = ? ORDER BY created_at ASC, id ASC"), userID)
	if err != nil {
		return nil, storeError(err, "failed to list plans")
	}
	return plans, nil
}

// ListReminderPlans returns every active plan with its reminder enabled, across all users
func (r *PlanRepository) ListReminderPlans(ctx context.Context) ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.SelectContext(ctx, &plans, r.db.Rebind(
		"SELECT "+planColumns+" FROM plans WHERE is_active = ? AND reminder_enabled = ? ORDER BY user_id ASC, id ASC"),
		true, true)
	if err != nil {
		return nil, storeError(err, "failed to list reminder plans")
	}
	return plans, nil
}

// Activate makes planID the only active plan of userID in a single transaction
func (r *PlanRepository) Activate(ctx context.Context, userID int64, planID string) error {
	return RunInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var count int
		if err := tx.GetContext(ctx, &count, tx.Rebind(
			"SELECT COUNT(*) FROM plans WHERE user_id = ? AND id = ?"), userID, planID); err != nil {
			return storeError(err, "failed to look up plan")
		}
		if count == 0 {
			return errors.Wrapf(models.ErrNotFound, "plan %s of user %d", planID, userID)
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(
			"UPDATE plans SET is_active = (id = ?) WHERE user_id = ?"), planID, userID); err != nil {
			return storeError(err, "failed to activate plan")
		}
		return nil
	})
}

// SetReminder changes the reminder settings of a plan
func (r *PlanRepository) SetReminder(ctx context.Context, userID int64, planID string, enabled bool, clock string) error {
	if clock == "" {
		clock = models.DefaultReminderTime
	}
	if _, _, err := models.ParseClock(clock); err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(
		"UPDATE plans SET reminder_enabled = ?, reminder_time = ? WHERE user_id = ? AND id = ?"),
		enabled, clock, userID, planID)
	if err != nil {
		return storeError(err, "failed to update plan reminder")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return storeError(err, "failed to get rows affected")
	}
	if rows == 0 {
		return errors.Wrapf(models.ErrNotFound, "plan %s of user %d", planID, userID)
	}
	return nil
}

// Delete removes a plan
func (r *PlanRepository) Delete(ctx context.Context, userID int64, planID string) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(
		"DELETE FROM plans WHERE user_id = ? AND id = ?"), userID, planID)
	if err != nil {
		return storeError(err, "failed to delete plan")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return storeError(err, "failed to get rows affected")
	}
	if rows == 0 {
		return errors.Wrapf(models.ErrNotFound, "plan %s of user %d", planID, userID)
	}
	return nil
}
