package models

import "time"

// WeakWord is an error-prone word surfaced to statistics and reports
type WeakWord struct {
	WordID         int64     `json:"word_id" db:"word_id"`
	Text           string    `json:"text" db:"text"`
	ErrorRate      float64   `json:"error_rate"`
	TotalAttempts  int       `json:"total_attempts"`
	Status         Status    `json:"status" db:"status"`
	LastReviewedAt time.Time `json:"last_reviewed_at" db:"last_reviewed_at"`
}

// WeeklySummary aggregates a user's activity over a report window
type WeeklySummary struct {
	From            time.Time `json:"from"`
	To              time.Time `json:"to"`
	DaysLearned     int       `json:"days_learned"`      // distinct calendar dates with activity
	NewWordsLearned int       `json:"new_words_learned"` // first interactions in the window
	WordsReviewed   int       `json:"words_reviewed"`    // distinct words touched
	TotalReviews    int       `json:"total_reviews"`
}

// HasActivity reports whether the window contains anything worth reporting
func (s WeeklySummary) HasActivity() bool {
	return s.TotalReviews > 0 || s.NewWordsLearned > 0
}

// MasterySummary counts a user's words per learning status
type MasterySummary struct {
	Total     int `json:"total"`
	Learning  int `json:"learning"`
	Reviewing int `json:"reviewing"`
	Mastered  int `json:"mastered"`
	Due       int `json:"due"`
}
