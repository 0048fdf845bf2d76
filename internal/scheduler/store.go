package scheduler

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabsrs/internal/database"
	"github.com/example/vocabsrs/pkg/models"
)

// RepositoryStore reads reminder settings from the database
type RepositoryStore struct {
	users *database.UserRepository
	plans *database.PlanRepository
}

func NewRepositoryStore(db *sqlx.DB) *RepositoryStore {
	return &RepositoryStore{
		users: database.NewUserRepository(db),
		plans: database.NewPlanRepository(db),
	}
}

func (s *RepositoryStore) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *RepositoryStore) ListUsersWithDailyReminder(ctx context.Context) ([]models.User, error) {
	return s.users.ListWithDailyReminder(ctx)
}

func (s *RepositoryStore) ListUsersWithWeeklyReport(ctx context.Context) ([]models.User, error) {
	return s.users.ListWithWeeklyReport(ctx)
}

func (s *RepositoryStore) ListReminderPlans(ctx context.Context) ([]models.Plan, error) {
	return s.plans.ListReminderPlans(ctx)
}

func (s *RepositoryStore) ListPlans(ctx context.Context, userID int64) ([]models.Plan, error) {
	return s.plans.ListByUser(ctx, userID)
}

func (s *RepositoryStore) GetPlan(ctx context.Context, userID int64, planID string) (*models.Plan, error) {
	return s.plans.GetByID(ctx, userID, planID)
}
