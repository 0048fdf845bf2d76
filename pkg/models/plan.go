package models

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultReminderTime is used when a user or plan enables reminders without a time
const DefaultReminderTime = "09:00"

// MemoryCurve holds spacing parameters attached to a plan. They are stored and
// returned to clients, but next-review times are computed by the doubling
// interval in spaced_repetition and do not read these values.
type MemoryCurve struct {
	EaseFactor       float64 `json:"ease_factor" db:"ease_factor"`
	IntervalModifier float64 `json:"interval_modifier" db:"interval_modifier"`
}

// DefaultMemoryCurve returns the parameters new plans start with
func DefaultMemoryCurve() MemoryCurve {
	return MemoryCurve{EaseFactor: 2.5, IntervalModifier: 1.0}
}

// PlanProgress is maintained by the learning-session flow outside this core
type PlanProgress struct {
	LearnedWords  int `json:"learned_words" db:"progress_learned_words"`
	ReviewedWords int `json:"reviewed_words" db:"progress_reviewed_words"`
	DaysCompleted int `json:"days_completed" db:"progress_days_completed"`
}

// Plan is a user's daily study configuration for one wordbook
type Plan struct {
	ID                     string       `json:"id" db:"id"`
	UserID                 int64        `json:"user_id" db:"user_id"`
	Name                   string       `json:"name" db:"name" validate:"required,max=100"`
	TargetWordbookID       int64        `json:"target_wordbook_id" db:"target_wordbook_id" validate:"gt=0"`
	DailyNewWordsTarget    int          `json:"daily_new_words_target" db:"daily_new_words_target" validate:"gte=0"`
	DailyReviewWordsTarget int          `json:"daily_review_words_target" db:"daily_review_words_target" validate:"gte=0"`
	PlanEndDate            sql.NullTime `json:"plan_end_date" db:"plan_end_date"`
	ReminderEnabled        bool         `json:"reminder_enabled" db:"reminder_enabled"`
	ReminderTime           string       `json:"reminder_time" db:"reminder_time" validate:"omitempty,clock"`
	IsActive               bool         `json:"is_active" db:"is_active"`
	PlanProgress           `json:"progress"`
	MemoryCurve            `json:"memory_curve"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`
}

// ParseClock parses a 24h "HH:MM" string
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("%w: time %q is not HH:MM", ErrInvalidArgument, s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: hour in %q must be 0-23", ErrInvalidArgument, s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: minute in %q must be 00-59", ErrInvalidArgument, s)
	}
	return hour, minute, nil
}

// FormatClock renders hour and minute as "HH:MM"
func FormatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
