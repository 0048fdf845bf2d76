package database_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabsrs/internal/database"
	"github.com/example/vocabsrs/internal/database/dbtest"
	"github.com/example/vocabsrs/pkg/models"
)

func activePlanIDs(t *testing.T, plans []models.Plan) []string {
	t.Helper()
	var ids []string
	for _, p := range plans {
		if p.IsActive {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func TestPlanRepository_Create(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	user := dbtest.CreateUser(t, db, "alice", false, "", false)
	repo := database.NewPlanRepository(db)

	plan := &models.Plan{UserID: user.ID, Name: "Core 2000", TargetWordbookID: 7, DailyNewWordsTarget: 15}
	require.NoError(t, repo.Create(ctx, plan))
	assert.NotEmpty(t, plan.ID)

	got, err := repo.GetByID(ctx, user.ID, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "Core 2000", got.Name)
	assert.Equal(t, int64(7), got.TargetWordbookID)
	assert.Equal(t, models.DefaultReminderTime, got.ReminderTime)
	assert.Equal(t, models.DefaultMemoryCurve(), got.MemoryCurve)
	assert.False(t, got.PlanEndDate.Valid)

	_, err = repo.GetByID(ctx, user.ID+1, plan.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPlanRepository_CreateValidation(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	user := dbtest.CreateUser(t, db, "alice", false, "", false)
	repo := database.NewPlanRepository(db)
	now := time.Now().UTC()

	tests := []struct {
		name string
		plan models.Plan
	}{
		{
			name: "missing name",
			plan: models.Plan{UserID: user.ID, TargetWordbookID: 1},
		},
		{
			name: "missing wordbook",
			plan: models.Plan{UserID: user.ID, Name: "p"},
		},
		{
			name: "negative target",
			plan: models.Plan{UserID: user.ID, Name: "p", TargetWordbookID: 1, DailyNewWordsTarget: -1},
		},
		{
			name: "malformed reminder time",
			plan: models.Plan{UserID: user.ID, Name: "p", TargetWordbookID: 1, ReminderTime: "25:00"},
		},
		{
			name: "end date before creation",
			plan: models.Plan{
				UserID:           user.ID,
				Name:             "p",
				TargetWordbookID: 1,
				CreatedAt:        now,
				PlanEndDate:      sql.NullTime{Time: now.Add(-24 * time.Hour), Valid: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := tt.plan
			err := repo.Create(ctx, &plan)
			assert.ErrorIs(t, err, models.ErrInvalidArgument)
		})
	}

	plans, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestPlanRepository_CreateActiveDeactivatesSiblings(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	user := dbtest.CreateUser(t, db, "alice", false, "", false)
	repo := database.NewPlanRepository(db)

	first := dbtest.CreatePlan(t, db, user.ID, "first", true, false, "")
	second := dbtest.CreatePlan(t, db, user.ID, "second", true, false, "")

	plans, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, []string{second.ID}, activePlanIDs(t, plans))
	assert.NotEqual(t, first.ID, second.ID)
}

func TestPlanRepository_Activate(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	user := dbtest.CreateUser(t, db, "alice", false, "", false)
	other := dbtest.CreateUser(t, db, "bob", false, "", false)
	repo := database.NewPlanRepository(db)

	a := dbtest.CreatePlan(t, db, user.ID, "a", true, true, "08:00")
	b := dbtest.CreatePlan(t, db, user.ID, "b", false, true, "08:00")
	c := dbtest.CreatePlan(t, db, user.ID, "c", false, false, "")
	foreign := dbtest.CreatePlan(t, db, other.ID, "foreign", true, false, "")

	for _, target := range []*models.Plan{b, c, a, a} {
		require.NoError(t, repo.Activate(ctx, user.ID, target.ID))

		plans, err := repo.ListByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{target.ID}, activePlanIDs(t, plans))
	}

	// the other user's plans are untouched
	plans, err := repo.ListByUser(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{foreign.ID}, activePlanIDs(t, plans))

	err = repo.Activate(ctx, user.ID, foreign.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	err = repo.Activate(ctx, user.ID, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	plans, err = repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, activePlanIDs(t, plans))
}

func TestPlanRepository_ReminderPlans(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	user := dbtest.CreateUser(t, db, "alice", false, "", false)
	repo := database.NewPlanRepository(db)

	active := dbtest.CreatePlan(t, db, user.ID, "active", true, true, "07:30")
	dbtest.CreatePlan(t, db, user.ID, "inactive", false, true, "07:30")

	plans, err := repo.ListReminderPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, active.ID, plans[0].ID)
	assert.Equal(t, "07:30", plans[0].ReminderTime)

	require.NoError(t, repo.SetReminder(ctx, user.ID, active.ID, false, "07:30"))
	plans, err = repo.ListReminderPlans(ctx)
	require.NoError(t, err)
	assert.Empty(t, plans)

	assert.ErrorIs(t, repo.SetReminder(ctx, user.ID, active.ID, true, "7:3"), models.ErrInvalidArgument)
	assert.ErrorIs(t, repo.SetReminder(ctx, user.ID, "missing", true, "07:00"), models.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, user.ID, active.ID))
	assert.ErrorIs(t, repo.Delete(ctx, user.ID, active.ID), models.ErrNotFound)
}
