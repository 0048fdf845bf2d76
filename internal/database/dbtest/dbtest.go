// Package dbtest opens throwaway sqlite databases with the full schema for tests.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabsrs/internal/config"
	"github.com/example/vocabsrs/internal/database"
	"github.com/example/vocabsrs/pkg/models"
)

// New returns a migrated sqlite database under t.TempDir, closed when the test ends
func New(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.Connect(context.Background(), config.DatabaseConfig{
		Driver: database.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "vocabsrs.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// CreateUser stores a user with the given reminder settings and returns it
func CreateUser(t *testing.T, db *sqlx.DB, name string, daily bool, reminderTime string, weekly bool) *models.User {
	t.Helper()

	user := &models.User{
		Email:                fmt.Sprintf("%s@example.com", name),
		Name:                 name,
		DailyReminderEnabled: daily,
		ReminderTime:         reminderTime,
		WeeklyReportEnabled:  weekly,
	}
	require.NoError(t, database.NewUserRepository(db).Create(context.Background(), user))
	return user
}

// SetTelegramChat links a Telegram chat to an existing user
func SetTelegramChat(t *testing.T, db *sqlx.DB, user *models.User, chatID int64) {
	t.Helper()

	user.TelegramChatID = sql.NullInt64{Int64: chatID, Valid: true}
	require.NoError(t, database.NewUserRepository(db).UpdatePreferences(context.Background(), user))
}

// CreateWords stores one word per text in wordbook 1 and returns their IDs in order
func CreateWords(t *testing.T, db *sqlx.DB, texts ...string) []int64 {
	t.Helper()

	repo := database.NewWordRepository(db)
	ids := make([]int64, 0, len(texts))
	for _, text := range texts {
		word := &models.Word{WordbookID: 1, Text: text, CreatedAt: time.Now().UTC()}
		require.NoError(t, repo.Create(context.Background(), word))
		ids = append(ids, word.ID)
	}
	return ids
}

// CreatePlan stores a plan for user and returns it
func CreatePlan(t *testing.T, db *sqlx.DB, userID int64, name string, active, reminder bool, reminderTime string) *models.Plan {
	t.Helper()

	plan := &models.Plan{
		UserID:                 userID,
		Name:                   name,
		TargetWordbookID:       1,
		DailyNewWordsTarget:    10,
		DailyReviewWordsTarget: 20,
		ReminderEnabled:        reminder,
		ReminderTime:           reminderTime,
		IsActive:               active,
	}
	require.NoError(t, database.NewPlanRepository(db).Create(context.Background(), plan))
	return plan
}
