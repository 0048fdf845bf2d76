package models

import "time"

// Word is an entry of a wordbook. Words are managed elsewhere; this core only
// references them by ID.
type Word struct {
	ID         int64     `json:"id" db:"id"`
	WordbookID int64     `json:"wordbook_id" db:"wordbook_id"`
	Text       string    `json:"text" db:"text"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
