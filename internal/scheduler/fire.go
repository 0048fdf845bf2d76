package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/example/vocabsrs/internal/learning"
	"github.com/example/vocabsrs/pkg/models"
)

const reportWeakWords = 5

// runIsolated runs one firing with its own timeout. Errors and panics are logged and
// never reach the timer or other jobs.
func (s *ReminderScheduler) runIsolated(name string, fn func(ctx context.Context) error, attrs ...any) {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.JobTimeout)
	defer cancel()

	s.guard(name, func() error { return fn(ctx) }, attrs...)
}

// guard calls fn, logging its error or panic. It reports whether fn succeeded.
func (s *ReminderScheduler) guard(name string, fn func() error, attrs ...any) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Job panicked",
				append([]any{slog.String("job", name), slog.Any("panic", r), slog.String("stack", string(debug.Stack()))}, attrs...)...)
			ok = false
		}
	}()

	if err := fn(); err != nil {
		s.logger.Error("Job failed", append([]any{slog.String("job", name), slog.Any("error", err)}, attrs...)...)
		return false
	}
	return true
}

// fireGlobal sends the daily reminder of a user with fresh settings
func (s *ReminderScheduler) fireGlobal(ctx context.Context, userID int64) error {
	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		s.logger.Warn("Daily reminder fired for a vanished user", slog.Int64("user_id", userID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !user.DailyReminderEnabled {
		s.logger.Warn("Daily reminder fired after it was disabled", slog.Int64("user_id", userID))
		return nil
	}
	return s.sendDailyReminder(ctx, user)
}

func (s *ReminderScheduler) sendDailyReminder(ctx context.Context, user *models.User) error {
	due, err := s.stats.DueCount(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to count due words: %w", err)
	}
	streak, err := s.stats.StreakDays(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to compute streak: %w", err)
	}
	plans, err := s.store.ListPlans(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to load plans: %w", err)
	}

	var active *models.Plan
	for i := range plans {
		if plans[i].IsActive {
			active = &plans[i]
			break
		}
	}

	msg, err := composeDailyReminder(dailyReminderData{
		Name:       user.Name,
		Due:        due,
		Streak:     streak,
		Plan:       active,
		AppBaseURL: s.cfg.AppBaseURL,
	})
	if err != nil {
		return err
	}
	if err := s.sender.Send(ctx, user.Recipient(), msg); err != nil {
		return fmt.Errorf("failed to send daily reminder: %w", err)
	}

	s.logger.Info("Daily reminder sent",
		slog.Int64("user_id", user.ID), slog.Int("due", due), slog.Int("streak", streak))
	return nil
}

// firePlan sends a plan reminder. A plan that vanished or was switched off is skipped.
func (s *ReminderScheduler) firePlan(ctx context.Context, userID int64, planID string) error {
	attrs := []any{slog.Int64("user_id", userID), slog.String("plan_id", planID)}

	plan, err := s.store.GetPlan(ctx, userID, planID)
	if errors.Is(err, models.ErrNotFound) {
		s.logger.Warn("Plan reminder fired for a vanished plan", attrs...)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load plan: %w", err)
	}
	if !plan.IsActive || !plan.ReminderEnabled {
		s.logger.Debug("Plan reminder fired for an inactive plan", attrs...)
		return nil
	}

	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		s.logger.Warn("Plan reminder fired for a vanished user", attrs...)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	due, err := s.stats.DueCount(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to count due words: %w", err)
	}

	msg, err := composePlanReminder(planReminderData{
		Name:       user.Name,
		Plan:       plan,
		Due:        due,
		AppBaseURL: s.cfg.AppBaseURL,
	})
	if err != nil {
		return err
	}
	if err := s.sender.Send(ctx, user.Recipient(), msg); err != nil {
		return fmt.Errorf("failed to send plan reminder: %w", err)
	}

	s.logger.Info("Plan reminder sent", attrs...)
	return nil
}

// fireWeeklyReports sends the trailing seven-day report to every subscribed user
// with activity. Users are processed in parallel and fail independently, each within
// its own JobTimeout.
func (s *ReminderScheduler) fireWeeklyReports(ctx context.Context) error {
	listCtx, cancel := context.WithTimeout(ctx, s.cfg.JobTimeout)
	users, err := s.store.ListUsersWithWeeklyReport(listCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to list users with weekly reports: %w", err)
	}

	to := s.now()
	from := to.Add(-reportWindow)

	var sent, skipped, failed atomic.Int32
	var g errgroup.Group
	g.SetLimit(s.cfg.ReportConcurrency)
	for i := range users {
		user := &users[i]
		g.Go(func() error {
			userCtx, cancel := context.WithTimeout(ctx, s.cfg.JobTimeout)
			defer cancel()

			var delivered bool
			ok := s.guard("weekly report", func() error {
				var err error
				delivered, err = s.sendWeeklyReport(userCtx, user, from, to)
				return err
			}, slog.Int64("user_id", user.ID))

			switch {
			case !ok:
				failed.Add(1)
			case delivered:
				sent.Add(1)
			default:
				skipped.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("Weekly reports processed",
		slog.Int("users", len(users)),
		slog.Int("sent", int(sent.Load())),
		slog.Int("skipped", int(skipped.Load())),
		slog.Int("failed", int(failed.Load())))
	return nil
}

// sendWeeklyReport reports whether a message was sent. Users without activity get none.
func (s *ReminderScheduler) sendWeeklyReport(ctx context.Context, user *models.User, from, to time.Time) (bool, error) {
	summary, err := s.stats.WeeklySummary(ctx, user.ID, from, to)
	if err != nil {
		return false, fmt.Errorf("failed to summarize week: %w", err)
	}
	if !summary.HasActivity() {
		s.logger.Debug("No activity this week, report skipped", slog.Int64("user_id", user.ID))
		return false, nil
	}

	weak, err := s.stats.FindWeakWords(ctx, user.ID, learning.WithLimit(reportWeakWords))
	if err != nil {
		// send the report without the weak-word section
		s.logger.Warn("Failed to load weak words for report", slog.Int64("user_id", user.ID), slog.Any("error", err))
		weak = nil
	}

	msg, err := composeWeeklyReport(weeklyReportData{
		Name:       user.Name,
		Summary:    summary,
		WeakWords:  weak,
		Location:   s.cfg.Location,
		AppBaseURL: s.cfg.AppBaseURL,
	})
	if err != nil {
		return false, err
	}
	if err := s.sender.Send(ctx, user.Recipient(), msg); err != nil {
		return false, fmt.Errorf("failed to send weekly report: %w", err)
	}
	return true, nil
}

// RunUserReminderNow sends a user's daily reminder immediately, even if the schedule is off
func (s *ReminderScheduler) RunUserReminderNow(ctx context.Context, userID int64) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.sendDailyReminder(ctx, user)
}

// RunWeeklyReportsNow runs the weekly sweep immediately
func (s *ReminderScheduler) RunWeeklyReportsNow(ctx context.Context) error {
	return s.fireWeeklyReports(ctx)
}
