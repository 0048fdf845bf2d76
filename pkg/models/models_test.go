package models

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in           string
		hour, minute int
		wantErr      bool
	}{
		{in: "09:00", hour: 9, minute: 0},
		{in: "7:05", hour: 7, minute: 5},
		{in: " 23:59 ", hour: 23, minute: 59},
		{in: "00:00", hour: 0, minute: 0},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "12:5", wantErr: true},
		{in: "1230", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			hour, minute, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hour, hour)
			assert.Equal(t, tt.minute, minute)
		})
	}

	assert.Equal(t, "07:05", FormatClock(7, 5))
}

func TestParseAction(t *testing.T) {
	action, err := ParseAction(" Know ")
	require.NoError(t, err)
	assert.Equal(t, ActionKnow, action)
	assert.True(t, action.IsCorrect())

	action, err = ParseAction("dont_know")
	require.NoError(t, err)
	assert.False(t, action.IsCorrect())
	assert.True(t, action.Valid())

	_, err = ParseAction("maybe")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.False(t, Action("maybe").Valid())
}

func TestReviewRecordRates(t *testing.T) {
	rec := &ReviewRecord{}
	assert.Equal(t, 0, rec.TotalAttempts())
	assert.Zero(t, rec.ErrorRate())

	rec.TotalCorrect, rec.TotalIncorrect = 1, 3
	assert.Equal(t, 4, rec.TotalAttempts())
	assert.InDelta(t, 0.75, rec.ErrorRate(), 1e-9)
}

func TestWeeklySummaryHasActivity(t *testing.T) {
	now := time.Now()
	assert.False(t, WeeklySummary{From: now.AddDate(0, 0, -7), To: now}.HasActivity())
	assert.True(t, WeeklySummary{TotalReviews: 1}.HasActivity())
	assert.True(t, WeeklySummary{NewWordsLearned: 1}.HasActivity())
}

func TestUserRecipient(t *testing.T) {
	u := &User{ID: 3, Name: "alice", Email: "alice@example.com"}
	assert.Equal(t, Recipient{UserID: 3, Name: "alice", Email: "alice@example.com"}, u.Recipient())

	u.TelegramChatID = sql.NullInt64{Int64: 99, Valid: true}
	assert.Equal(t, int64(99), u.Recipient().TelegramChatID)
}
