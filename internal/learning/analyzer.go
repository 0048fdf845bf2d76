package learning

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabsrs/internal/database"
	"github.com/example/vocabsrs/pkg/models"
)

const (
	DefaultMinAttempts  = 3
	DefaultMinErrorRate = 0.4
	DefaultWeakLimit    = 20
)

// WeakWordOptions holds the thresholds of a weak-word query
type WeakWordOptions struct {
	MinAttempts  int
	MinErrorRate float64
	Limit        int
}

// WeakWordOption overrides one threshold
type WeakWordOption func(*WeakWordOptions)

// WithMinAttempts sets how many answers a word needs before it is ranked
func WithMinAttempts(n int) WeakWordOption {
	return func(o *WeakWordOptions) {
		o.MinAttempts = n
	}
}

// WithMinErrorRate sets the error rate a word has to exceed
func WithMinErrorRate(rate float64) WeakWordOption {
	return func(o *WeakWordOptions) {
		o.MinErrorRate = rate
	}
}

// WithLimit caps the number of returned words
func WithLimit(n int) WeakWordOption {
	return func(o *WeakWordOptions) {
		o.Limit = n
	}
}

func (o WeakWordOptions) validate() error {
	if o.MinAttempts < 1 {
		return fmt.Errorf("%w: min attempts must be at least 1", models.ErrInvalidArgument)
	}
	if o.MinErrorRate < 0 || o.MinErrorRate >= 1 {
		return fmt.Errorf("%w: min error rate must be in [0, 1)", models.ErrInvalidArgument)
	}
	if o.Limit < 1 {
		return fmt.Errorf("%w: limit must be at least 1", models.ErrInvalidArgument)
	}
	return nil
}

// Analyzer answers read-only questions about a user's review state
type Analyzer struct {
	records *database.ReviewRecordRepository
	logs    *database.ReviewLogRepository
	now     func() time.Time
	loc     *time.Location
}

// AnalyzerOption configures an Analyzer
type AnalyzerOption func(*Analyzer)

// WithAnalyzerClock replaces time.Now, mainly for tests
func WithAnalyzerClock(now func() time.Time) AnalyzerOption {
	return func(a *Analyzer) {
		a.now = now
	}
}

// WithLocation sets the time zone calendar days are counted in
func WithLocation(loc *time.Location) AnalyzerOption {
	return func(a *Analyzer) {
		a.loc = loc
	}
}

// NewAnalyzer creates an Analyzer
func NewAnalyzer(db *sqlx.DB, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		records: database.NewReviewRecordRepository(db),
		logs:    database.NewReviewLogRepository(db),
		now:     time.Now,
		loc:     time.UTC,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FindWeakWords ranks the user's error-prone words by error rate, highest first.
// Ties are ordered by word ID. No match yields an empty list.
func (a *Analyzer) FindWeakWords(ctx context.Context, userID int64, opts ...WeakWordOption) ([]models.WeakWord, error) {
	o := WeakWordOptions{
		MinAttempts:  DefaultMinAttempts,
		MinErrorRate: DefaultMinErrorRate,
		Limit:        DefaultWeakLimit,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user ID must be positive", models.ErrInvalidArgument)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	return a.records.FindWeak(ctx, userID, o.MinAttempts, o.MinErrorRate, o.Limit)
}

// DueCount returns how many of the user's words are due now
func (a *Analyzer) DueCount(ctx context.Context, userID int64) (int, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("%w: user ID must be positive", models.ErrInvalidArgument)
	}
	return a.records.CountDue(ctx, userID, a.now())
}

// DueWords returns up to limit due records, most overdue first
func (a *Analyzer) DueWords(ctx context.Context, userID int64, limit int) ([]models.ReviewRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user ID must be positive", models.ErrInvalidArgument)
	}
	return a.records.FindDue(ctx, userID, a.now(), limit)
}

// MasterySummary counts the user's words per status along with the due count
func (a *Analyzer) MasterySummary(ctx context.Context, userID int64) (models.MasterySummary, error) {
	if userID <= 0 {
		return models.MasterySummary{}, fmt.Errorf("%w: user ID must be positive", models.ErrInvalidArgument)
	}

	counts, err := a.records.CountByStatus(ctx, userID)
	if err != nil {
		return models.MasterySummary{}, err
	}
	due, err := a.records.CountDue(ctx, userID, a.now())
	if err != nil {
		return models.MasterySummary{}, err
	}

	summary := models.MasterySummary{
		Learning:  counts[models.StatusLearning],
		Reviewing: counts[models.StatusReviewing],
		Mastered:  counts[models.StatusMastered],
		Due:       due,
	}
	for _, n := range counts {
		summary.Total += n
	}
	return summary, nil
}
