package bot

import (
	"context"

	"github.com/example/vocabsrs/pkg/models"
)

// UserStore reads and saves reminder preferences
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByTelegramChatID(ctx context.Context, chatID int64) (*models.User, error)
	UpdatePreferences(ctx context.Context, user *models.User) error
}

// InteractionRecorder applies a know / don't know answer
type InteractionRecorder interface {
	RecordInteraction(ctx context.Context, userID, wordID int64, action models.Action) (*models.ReviewRecord, error)
}

// Stats provides the numbers shown by /stats and the words offered by /review
type Stats interface {
	MasterySummary(ctx context.Context, userID int64) (models.MasterySummary, error)
	StreakDays(ctx context.Context, userID int64) (int, error)
	DueWords(ctx context.Context, userID int64, limit int) ([]models.ReviewRecord, error)
}

// PlanStore lists plans and saves their reminder settings
type PlanStore interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Plan, error)
	SetReminder(ctx context.Context, userID int64, planID string, enabled bool, clock string) error
}

// WordLookup resolves word texts
type WordLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Word, error)
}

// Services are the collaborators the bot delegates to. Reminders may be nil when
// no scheduler runs in the process.
type Services struct {
	Users     UserStore
	Recorder  InteractionRecorder
	Stats     Stats
	Plans     PlanStore
	Words     WordLookup
	Reminders ReminderUpdater
}
