package learning

import (
	"context"
	"fmt"
	"time"

	"github.com/example/vocabsrs/pkg/models"
)

// streakLookback bounds how far back StreakDays scans the review log
const streakLookback = 366 * 24 * time.Hour

// WeeklySummary aggregates the user's interactions in [from, to)
func (a *Analyzer) WeeklySummary(ctx context.Context, userID int64, from, to time.Time) (models.WeeklySummary, error) {
	if !from.Before(to) {
		return models.WeeklySummary{}, fmt.Errorf("%w: empty report window", models.ErrInvalidArgument)
	}

	entries, err := a.logs.ListBetween(ctx, userID, from, to)
	if err != nil {
		return models.WeeklySummary{}, err
	}

	summary := models.WeeklySummary{From: from, To: to, TotalReviews: len(entries)}
	days := make(map[string]struct{})
	words := make(map[int64]struct{})
	for _, e := range entries {
		days[e.ReviewedAt.In(a.loc).Format(time.DateOnly)] = struct{}{}
		words[e.WordID] = struct{}{}
		if e.IsNew {
			summary.NewWordsLearned++
		}
	}
	summary.DaysLearned = len(days)
	summary.WordsReviewed = len(words)
	return summary, nil
}

// StreakDays counts consecutive calendar days with at least one answer, ending today.
// A streak whose last active day is yesterday still counts, since today is not over.
func (a *Analyzer) StreakDays(ctx context.Context, userID int64) (int, error) {
	now := a.now().In(a.loc)

	times, err := a.logs.ActivitySince(ctx, userID, now.Add(-streakLookback))
	if err != nil {
		return 0, err
	}

	active := make(map[string]struct{}, len(times))
	for _, t := range times {
		active[t.In(a.loc).Format(time.DateOnly)] = struct{}{}
	}

	day := now
	if _, ok := active[day.Format(time.DateOnly)]; !ok {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for {
		if _, ok := active[day.Format(time.DateOnly)]; !ok {
			return streak, nil
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}
