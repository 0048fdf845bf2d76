package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabsrs/internal/config"
	"github.com/example/vocabsrs/internal/database"
	"github.com/example/vocabsrs/internal/database/dbtest"
	"github.com/example/vocabsrs/pkg/models"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.LogConfig
		wantDebug bool
	}{
		{name: "debug text", cfg: config.LogConfig{Level: "debug", Format: "text"}, wantDebug: true},
		{name: "info json", cfg: config.LogConfig{Level: "info", Format: "json"}},
		{name: "unknown level falls back to info", cfg: config.LogConfig{Level: "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := setupLogger(tt.cfg)
			assert.Equal(t, tt.wantDebug, logger.Enabled(context.Background(), slog.LevelDebug))
			assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
			assert.Same(t, logger, slog.Default())
		})
	}
}

func TestNewRootCommand(t *testing.T) {
	cmd := newRootCommand()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate", "review", "weak-words", "remind", "activate-plan", "delete-plan"}, names)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("env-file"))
}

type cli struct {
	configPath string
	dsn        string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	dsn := filepath.Join(dir, "vocabsrs.db")
	configPath := filepath.Join(dir, "config.yml")
	content := fmt.Sprintf("database:\n  driver: sqlite3\n  dsn: %s\nlog:\n  level: error\n", dsn)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	return &cli{configPath: configPath, dsn: dsn}
}

func (c *cli) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", c.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema is up to date (sqlite3)")

	db, err := database.Connect(context.Background(), config.DatabaseConfig{Driver: database.DriverSQLite, DSN: c.dsn})
	require.NoError(t, err)
	defer db.Close()

	alice := dbtest.CreateUser(t, db, "alice", true, "08:00", true)
	ids := dbtest.CreateWords(t, db, "apple", "fig")
	first := dbtest.CreatePlan(t, db, alice.ID, "first", true, false, "")
	second := dbtest.CreatePlan(t, db, alice.ID, "second", false, true, "06:30")

	userArg := fmt.Sprint(alice.ID)
	figArg := fmt.Sprint(ids[1])

	out, err = c.run(t, "review", userArg, fmt.Sprint(ids[0]), "know")
	require.NoError(t, err)
	assert.Contains(t, out, "status:              reviewing")
	assert.Contains(t, out, "answers:             1 correct, 0 incorrect")

	for _, action := range []string{"dont_know", "dont_know", "know"} {
		_, err = c.run(t, "review", userArg, figArg, action)
		require.NoError(t, err)
	}

	_, err = c.run(t, "review", userArg, figArg, "maybe")
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = c.run(t, "review", userArg, "999", "know")
	assert.ErrorIs(t, err, models.ErrNotFound)

	out, err = c.run(t, "weak-words", userArg)
	require.NoError(t, err)
	assert.Contains(t, out, "fig")
	assert.Contains(t, out, "67%")
	assert.NotContains(t, out, "apple")

	exportPath := filepath.Join(t.TempDir(), "weak.csv")
	out, err = c.run(t, "weak-words", userArg, "--export", exportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 weak words")
	exported, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(exported), "Word,Error rate"))

	out, err = c.run(t, "activate-plan", userArg, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Plan \"second\" is now active, reminder at 06:30\n", out)

	plans := database.NewPlanRepository(db)
	got, err := plans.GetByID(context.Background(), alice.ID, first.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	_, err = c.run(t, "activate-plan", userArg, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	out, err = c.run(t, "delete-plan", userArg, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Plan "+first.ID+" deleted\n", out)
	_, err = plans.GetByID(context.Background(), alice.ID, first.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = c.run(t, "delete-plan", userArg, first.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = c.run(t, "remind")
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = c.run(t, "remind", "--user", userArg)
	require.NoError(t, err, "the default log channel delivers to the log")

	_, err = c.run(t, "remind", "--weekly")
	require.NoError(t, err)
}
