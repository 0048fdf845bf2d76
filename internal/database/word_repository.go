package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabsrs/pkg/models"
)

// WordRepository handles database operations for words
type WordRepository struct {
	db *sqlx.DB
}

// NewWordRepository creates a new repository instance
func NewWordRepository(db *sqlx.DB) *WordRepository {
	return &WordRepository{db: db}
}

// Exists reports whether a word with the given ID is stored
func (r *WordRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, r.db.Rebind("SELECT COUNT(*) FROM words WHERE id = ?"), id)
	if err != nil {
		return false, storeError(err, "failed to check word")
	}
	return count > 0, nil
}

// GetByID returns a word by ID
func (r *WordRepository) GetByID(ctx context.Context, id int64) (*models.Word, error) {
	var word models.Word
	err := r.db.GetContext(ctx, &word, r.db.Rebind(
		"SELECT id, wordbook_id, text, created_at FROM words WHERE id = ?"), id)
	if err != nil {
		return nil, storeError(err, "failed to get word by ID")
	}
	return &word, nil
}

// Create inserts a new word
func (r *WordRepository) Create(ctx context.Context, word *models.Word) error {
	if word.CreatedAt.IsZero() {
		word.CreatedAt = time.Now().UTC()
	}
	id, err := insertReturningID(ctx, r.db,
		"INSERT INTO words (wordbook_id, text, created_at) VALUES (?, ?, ?)",
		word.WordbookID, word.Text, word.CreatedAt.UTC())
	if err != nil {
		return storeError(err, "failed to create word")
	}
	word.ID = id
	return nil
}
