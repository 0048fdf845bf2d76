package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/vocabsrs/pkg/models"
)

const userColumns = `id, email, name, telegram_chat_id, daily_reminder_enabled, reminder_time,
	weekly_report_enabled, created_at, updated_at`

// UserRepository handles database operations for users
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new repository instance
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID returns a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, r.db.Rebind("SELECT "+userColumns+" FROM users WHERE id = ?"), id)
	if err != nil {
		return nil, storeError(err, "failed to get user by ID")
	}
	return &user, nil
}

// GetByEmail returns the user registered with email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, r.db.Rebind("SELECT "+userColumns+" FROM users WHERE email = ?"), email)
	if err != nil {
		return nil, storeError(err, "failed to get user by email")
	}
	return &user, nil
}

// GetByTelegramChatID returns the user linked to a Telegram chat
func (r *UserRepository) GetByTelegramChatID(ctx context.Context, chatID int64) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, r.db.Rebind("SELECT "+userColumns+" FROM users WHERE telegram_chat_id = ?"), chatID)
	if err != nil {
		return nil, storeError(err, "failed to get user by telegram chat")
	}
	return &user, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ReminderTime == "" {
		user.ReminderTime = models.DefaultReminderTime
	}
	if _, _, err := models.ParseClock(user.ReminderTime); err != nil {
		return err
	}

	now := time.Now().UTC()
	id, err := insertReturningID(ctx, r.db, `
		INSERT INTO users (
			email, name, telegram_chat_id, daily_reminder_enabled, reminder_time,
			weekly_report_enabled, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Email,
		user.Name,
		user.TelegramChatID,
		user.DailyReminderEnabled,
		user.ReminderTime,
		user.WeeklyReportEnabled,
		now,
		now,
	)
	if err != nil {
		return storeError(err, "failed to create user")
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// UpdatePreferences saves the reminder settings of a user
func (r *UserRepository) UpdatePreferences(ctx context.Context, user *models.User) error {
	if user.ReminderTime == "" {
		user.ReminderTime = models.DefaultReminderTime
	}
	if _, _, err := models.ParseClock(user.ReminderTime); err != nil {
		return err
	}

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE users SET
			telegram_chat_id = ?,
			daily_reminder_enabled = ?,
			reminder_time = ?,
			weekly_report_enabled = ?,
			updated_at = ?
		WHERE id = ?`),
		user.TelegramChatID,
		user.DailyReminderEnabled,
		user.ReminderTime,
		user.WeeklyReportEnabled,
		now,
		user.ID,
	)
	if err != nil {
		return storeError(err, "failed to update user")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return storeError(err, "failed to get rows affected")
	}
	if rows == 0 {
		return errors.Wrapf(models.ErrNotFound, "user %d", user.ID)
	}

	user.UpdatedAt = now
	return nil
}

// ListWithDailyReminder returns users who have the daily reminder enabled
func (r *UserRepository) ListWithDailyReminder(ctx context.Context) ([]models.User, error) {
	return r.getUsersWithCondition(ctx, "daily_reminder_enabled = ?", true)
}

// ListWithWeeklyReport returns users who subscribed to the weekly report
func (r *UserRepository) ListWithWeeklyReport(ctx context.Context) ([]models.User, error) {
	return r.getUsersWithCondition(ctx, "weekly_report_enabled = ?", true)
}

// getUsersWithCondition is a helper function to get users with a specific condition
func (r *UserRepository) getUsersWithCondition(ctx context.Context, condition string, args ...interface{}) ([]models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE " + condition + " ORDER BY id ASC"

	var users []models.User
	if err := r.db.SelectContext(ctx, &users, r.db.Rebind(query), args...); err != nil {
		return nil, storeError(err, "failed to get users with condition")
	}
	return users, nil
}
