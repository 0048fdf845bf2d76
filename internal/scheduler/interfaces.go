package scheduler

import (
	"context"
	"time"

	"github.com/example/vocabsrs/internal/learning"
	"github.com/example/vocabsrs/pkg/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/scheduler/mock_interfaces.go -package=mock_scheduler

// UserConfigStore reads the reminder settings of users and their plans
type UserConfigStore interface {
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	ListUsersWithDailyReminder(ctx context.Context) ([]models.User, error)
	ListUsersWithWeeklyReport(ctx context.Context) ([]models.User, error)
	// ListReminderPlans returns active plans with their reminder enabled, across all users
	ListReminderPlans(ctx context.Context) ([]models.Plan, error)
	ListPlans(ctx context.Context, userID int64) ([]models.Plan, error)
	GetPlan(ctx context.Context, userID int64, planID string) (*models.Plan, error)
}

// StatsSource provides the numbers quoted in reminders and reports
type StatsSource interface {
	DueCount(ctx context.Context, userID int64) (int, error)
	StreakDays(ctx context.Context, userID int64) (int, error)
	WeeklySummary(ctx context.Context, userID int64, from, to time.Time) (models.WeeklySummary, error)
	FindWeakWords(ctx context.Context, userID int64, opts ...learning.WeakWordOption) ([]models.WeakWord, error)
}
