// Package database stores review state, reminder preferences and plans.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/example/vocabsrs/internal/config"
	"github.com/example/vocabsrs/pkg/models"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Connect opens the configured database and makes sure the schema exists
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := cfg.DSN

	switch cfg.Driver {
	case DriverSQLite:
		// Create data directory if it doesn't exist
		if dir := filepath.Dir(dsn); dir != "." && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, errors.Wrap(err, "failed to create data directory")
			}
		}
		// Every pooled connection needs foreign keys and a busy timeout
		if !strings.Contains(dsn, "?") {
			dsn += "?_foreign_keys=on&_busy_timeout=5000"
		}
	case DriverMySQL:
		mysqlCfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, errors.Wrap(err, "invalid mysql dsn")
		}
		mysqlCfg.ParseTime = true
		mysqlCfg.Loc = time.UTC
		dsn = mysqlCfg.FormatDSN()
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := sqlx.ConnectContext(ctx, cfg.Driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if cfg.Driver == DriverSQLite {
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	if err := InitializeSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// dialect holds the column types that differ between drivers
type dialect struct {
	autoID    string
	timestamp string
	// mysql has no CREATE INDEX IF NOT EXISTS, so its indexes are declared inline
	inlineIndexes bool
}

func dialectFor(driver string) dialect {
	switch driver {
	case DriverPostgres:
		return dialect{autoID: "BIGSERIAL PRIMARY KEY", timestamp: "TIMESTAMPTZ"}
	case DriverMySQL:
		return dialect{autoID: "BIGINT AUTO_INCREMENT PRIMARY KEY", timestamp: "DATETIME(6)", inlineIndexes: true}
	default:
		return dialect{autoID: "INTEGER PRIMARY KEY AUTOINCREMENT", timestamp: "TIMESTAMP"}
	}
}

type index struct {
	name    string
	table   string
	columns string
}

var indexes = []index{
	{name: "idx_review_records_due", table: "review_records", columns: "user_id, next_review_at"},
	{name: "idx_review_logs_user_time", table: "review_logs", columns: "user_id, reviewed_at"},
	{name: "idx_plans_user", table: "plans", columns: "user_id"},
}

func inlineIndexes(d dialect, table string) string {
	if !d.inlineIndexes {
		return ""
	}
	var b strings.Builder
	for _, idx := range indexes {
		if idx.table == table {
			fmt.Fprintf(&b, ",\n\t\t\tINDEX %s (%s)", idx.name, idx.columns)
		}
	}
	return b.String()
}

// InitializeSchema creates necessary tables if they don't exist
func InitializeSchema(ctx context.Context, db *sqlx.DB) error {
	d := dialectFor(db.DriverName())

	statements := []struct {
		table string
		ddl   string
	}{
		{"users", fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS users (
			id %s,
			email VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL DEFAULT '',
			telegram_chat_id BIGINT,
			daily_reminder_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			reminder_time VARCHAR(5) NOT NULL DEFAULT '09:00',
			weekly_report_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			created_at %s NOT NULL,
			updated_at %s NOT NULL,
			UNIQUE (email)
		)`, d.autoID, d.timestamp, d.timestamp)},
		{"words", fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS words (
			id %s,
			wordbook_id BIGINT NOT NULL,
			text VARCHAR(255) NOT NULL,
			created_at %s NOT NULL
		)`, d.autoID, d.timestamp)},
		{"review_records", fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS review_records (
			id %s,
			user_id BIGINT NOT NULL,
			word_id BIGINT NOT NULL,
			status VARCHAR(16) NOT NULL,
			last_reviewed_at %s NOT NULL,
			next_review_at %s NOT NULL,
			consecutive_correct INTEGER NOT NULL DEFAULT 0,
			total_correct INTEGER NOT NULL DEFAULT 0,
			total_incorrect INTEGER NOT NULL DEFAULT 0,
			version INTEGER NOT NULL DEFAULT 1,
			created_at %s NOT NULL,
			updated_at %s NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (word_id) REFERENCES words(id),
			UNIQUE (user_id, word_id)%s
		)`, d.autoID, d.timestamp, d.timestamp, d.timestamp, d.timestamp, inlineIndexes(d, "review_records"))},
		{"review_logs", fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS review_logs (
			id %s,
			user_id BIGINT NOT NULL,
			word_id BIGINT NOT NULL,
			correct BOOLEAN NOT NULL,
			is_new BOOLEAN NOT NULL,
			reviewed_at %s NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id)%s
		)`, d.autoID, d.timestamp, inlineIndexes(d, "review_logs"))},
		{"plans", fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS plans (
			id VARCHAR(64) PRIMARY KEY,
			user_id BIGINT NOT NULL,
			name VARCHAR(100) NOT NULL,
			target_wordbook_id BIGINT NOT NULL,
			daily_new_words_target INTEGER NOT NULL DEFAULT 0,
			daily_review_words_target INTEGER NOT NULL DEFAULT 0,
			plan_end_date %s NULL,
			reminder_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			reminder_time VARCHAR(5) NOT NULL DEFAULT '09:00',
			is_active BOOLEAN NOT NULL DEFAULT FALSE,
			progress_learned_words INTEGER NOT NULL DEFAULT 0,
			progress_reviewed_words INTEGER NOT NULL DEFAULT 0,
			progress_days_completed INTEGER NOT NULL DEFAULT 0,
			ease_factor DOUBLE PRECISION NOT NULL DEFAULT 2.5,
			interval_modifier DOUBLE PRECISION NOT NULL DEFAULT 1.0,
			created_at %s NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id)%s
		)`, d.timestamp, d.timestamp, inlineIndexes(d, "plans"))},
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt.ddl); err != nil {
			return errors.Wrapf(err, "failed to create %s table", stmt.table)
		}
	}

	if !d.inlineIndexes {
		for _, idx := range indexes {
			q := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", idx.name, idx.table, idx.columns)
			if _, err := db.ExecContext(ctx, q); err != nil {
				return errors.Wrapf(err, "failed to create index %s", idx.name)
			}
		}
	}

	return nil
}

// RunInTx runs fn inside a transaction, committing on success and rolling back on error
func RunInTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return storeError(err, "failed to begin transaction")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return storeError(err, "failed to commit transaction")
	}
	return nil
}

// storeError marks err as a store failure, keeping ErrNotFound and conflicts visible to callers
func storeError(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrap(models.ErrNotFound, msg)
	}
	return errors.Wrap(fmt.Errorf("%w: %w", models.ErrStoreFailure, err), msg)
}
