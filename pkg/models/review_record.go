package models

import (
	"fmt"
	"strings"
	"time"
)

// Status is the learning state of a word for one user
type Status string

const (
	StatusNew       Status = "new"
	StatusLearning  Status = "learning"
	StatusReviewing Status = "reviewing"
	StatusMastered  Status = "mastered"
)

// Action is the answer a user gives to a flashcard
type Action string

const (
	ActionKnow     Action = "know"
	ActionDontKnow Action = "dont_know"
)

// ParseAction converts user input into an Action
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionKnow:
		return ActionKnow, nil
	case ActionDontKnow:
		return ActionDontKnow, nil
	}
	return "", fmt.Errorf("%w: unknown action %q", ErrInvalidArgument, s)
}

// Valid reports whether a is one of the recognized actions
func (a Action) Valid() bool {
	return a == ActionKnow || a == ActionDontKnow
}

// IsCorrect reports whether the action counts as a correct answer
func (a Action) IsCorrect() bool {
	return a == ActionKnow
}

// ReviewRecord tracks a user's learning state for a specific word
type ReviewRecord struct {
	ID                 int64     `json:"id" db:"id"`
	UserID             int64     `json:"user_id" db:"user_id"`
	WordID             int64     `json:"word_id" db:"word_id"`
	Status             Status    `json:"status" db:"status"`
	LastReviewedAt     time.Time `json:"last_reviewed_at" db:"last_reviewed_at"`
	NextReviewAt       time.Time `json:"next_review_at" db:"next_review_at"`
	ConsecutiveCorrect int       `json:"consecutive_correct" db:"consecutive_correct"`
	TotalCorrect       int       `json:"total_correct" db:"total_correct"`
	TotalIncorrect     int       `json:"total_incorrect" db:"total_incorrect"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// TotalAttempts is the number of interactions recorded for the pair
func (r *ReviewRecord) TotalAttempts() int {
	return r.TotalCorrect + r.TotalIncorrect
}

// ErrorRate is the share of incorrect answers, 0 when nothing was recorded
func (r *ReviewRecord) ErrorRate() float64 {
	attempts := r.TotalAttempts()
	if attempts == 0 {
		return 0
	}
	return float64(r.TotalIncorrect) / float64(attempts)
}

// ReviewLog is a single recorded interaction
type ReviewLog struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	WordID     int64     `json:"word_id" db:"word_id"`
	Correct    bool      `json:"correct" db:"correct"`
	IsNew      bool      `json:"is_new" db:"is_new"` // first interaction for the (user, word) pair
	ReviewedAt time.Time `json:"reviewed_at" db:"reviewed_at"`
}
