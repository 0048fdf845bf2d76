package models

import (
	"database/sql"
	"time"
)

// User holds the reminder preferences of a learner
type User struct {
	ID                   int64         `json:"id" db:"id"`
	Email                string        `json:"email" db:"email"`
	Name                 string        `json:"name" db:"name"`
	TelegramChatID       sql.NullInt64 `json:"telegram_chat_id" db:"telegram_chat_id"`
	DailyReminderEnabled bool          `json:"daily_reminder_enabled" db:"daily_reminder_enabled"`
	ReminderTime         string        `json:"reminder_time" db:"reminder_time"` // HH:MM, 24h
	WeeklyReportEnabled  bool          `json:"weekly_report_enabled" db:"weekly_report_enabled"`
	CreatedAt            time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at" db:"updated_at"`
}

// Recipient returns the addresses a notification for u is delivered to
func (u *User) Recipient() Recipient {
	r := Recipient{UserID: u.ID, Name: u.Name, Email: u.Email}
	if u.TelegramChatID.Valid {
		r.TelegramChatID = u.TelegramChatID.Int64
	}
	return r
}

// Recipient addresses a notification
type Recipient struct {
	UserID         int64
	Name           string
	Email          string
	TelegramChatID int64
}
