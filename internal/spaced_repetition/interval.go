package spaced_repetition

import (
	"time"

	"github.com/example/vocabsrs/pkg/models"
)

const (
	// MasteredThreshold is the streak of correct answers after which a word is mastered
	MasteredThreshold = 3
	// Day is the base review interval
	Day = 24 * time.Hour
	// maxExponent keeps review dates below year 9999, the DATETIME limit on mysql
	maxExponent = 21
)

// Transition is the outcome of one answer applied to a word's state
type Transition struct {
	ConsecutiveCorrect int
	Status             models.Status
	NextReviewAt       time.Time
}

// ComputeTransition applies one answer to the current consecutive-correct streak.
// A correct answer extends the streak, an incorrect one resets it to zero. The
// next review is due 2^streak days after now.
func ComputeTransition(now time.Time, currentConsecutive int, isCorrect bool) Transition {
	if currentConsecutive < 0 {
		currentConsecutive = 0
	}

	consecutive := 0
	if isCorrect {
		consecutive = currentConsecutive + 1
	}

	return Transition{
		ConsecutiveCorrect: consecutive,
		Status:             StatusFor(consecutive),
		NextReviewAt:       NextReviewAt(now, consecutive),
	}
}

// StatusFor maps a consecutive-correct streak to a learning status
func StatusFor(consecutive int) models.Status {
	switch {
	case consecutive >= MasteredThreshold:
		return models.StatusMastered
	case consecutive > 0:
		return models.StatusReviewing
	default:
		return models.StatusLearning
	}
}

// IntervalDays returns the wait before the next review for a streak: 1, 2, 4, 8... days
func IntervalDays(consecutive int) int {
	if consecutive < 0 {
		consecutive = 0
	}
	if consecutive > maxExponent {
		consecutive = maxExponent
	}
	return 1 << uint(consecutive)
}

// NextReviewAt returns now plus IntervalDays(consecutive) days of 24 hours. Days are
// added on the UTC calendar since the longer intervals overflow time.Duration.
func NextReviewAt(now time.Time, consecutive int) time.Time {
	return now.UTC().AddDate(0, 0, IntervalDays(consecutive)).In(now.Location())
}

// IsDue reports whether the record should be presented again at asOf
func IsDue(record *models.ReviewRecord, asOf time.Time) bool {
	return !record.NextReviewAt.After(asOf)
}
