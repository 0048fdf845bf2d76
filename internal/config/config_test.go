package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestConfigLoader_Load(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		env        map[string]string
		wantErr    string
		assertions func(t *testing.T, cfg *Config)
	}{
		{
			name:    "defaults are applied",
			content: "{}\n",
			assertions: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "sqlite3", cfg.Database.Driver)
				assert.Equal(t, "data/vocabsrs.db", cfg.Database.DSN)
				assert.True(t, cfg.Scheduler.Enabled)
				assert.Equal(t, "UTC", cfg.Scheduler.Timezone)
				assert.Equal(t, 2*time.Minute, cfg.Scheduler.JobTimeout)
				assert.Equal(t, 4, cfg.Scheduler.ReportConcurrency)
				assert.Equal(t, 5*time.Minute, cfg.Scheduler.ReloadInterval)
				assert.Equal(t, []string{"log"}, cfg.Notify.Channels)
				assert.Equal(t, "info", cfg.Log.Level)
				assert.False(t, cfg.Notify.Telegram.Commands)
			},
		},
		{
			name: "file values override defaults",
			content: `database:
  driver: postgres
  dsn: postgres://localhost/vocab?sslmode=disable
scheduler:
  timezone: Europe/Berlin
  job_timeout: 30s
notify:
  channels: [email, telegram]
  email:
    from_address: noreply@example.com
  telegram:
    commands: true
log:
  format: json
`,
			assertions: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "postgres", cfg.Database.Driver)
				assert.Equal(t, "Europe/Berlin", cfg.Scheduler.Timezone)
				assert.Equal(t, 30*time.Second, cfg.Scheduler.JobTimeout)
				assert.Equal(t, []string{"email", "telegram"}, cfg.Notify.Channels)
				assert.Equal(t, "noreply@example.com", cfg.Notify.Email.FromAddress)
				assert.True(t, cfg.Notify.Telegram.Commands)
				assert.Equal(t, "json", cfg.Log.Format)

				loc, err := cfg.Scheduler.Location()
				require.NoError(t, err)
				assert.Equal(t, "Europe/Berlin", loc.String())
			},
		},
		{
			name:    "secrets are read from conventional environment variables",
			content: "{}\n",
			env: map[string]string{
				"TELEGRAM_BOT_TOKEN": "123:abc",
				"DATABASE_URL":       "file:test.db",
			},
			assertions: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "123:abc", cfg.Notify.Telegram.Token)
				assert.Equal(t, "file:test.db", cfg.Database.DSN)
			},
		},
		{
			name:    "unknown driver is rejected",
			content: "database:\n  driver: oracle\n",
			wantErr: "driver",
		},
		{
			name:    "unknown channel is rejected",
			content: "notify:\n  channels: [pigeon]\n",
			wantErr: "invalid configuration",
		},
		{
			name:    "invalid time zone is rejected",
			content: "scheduler:\n  timezone: Mars/Olympus\n",
			wantErr: "timezone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			loader, err := NewConfigLoader(writeConfig(t, tt.content))
			require.NoError(t, err)

			cfg, err := loader.Load()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.assertions(t, cfg)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("VOCABSRS_TEST_DOTENV=loaded\n"), 0644))
	t.Setenv("VOCABSRS_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("VOCABSRS_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), envFile))
	assert.Equal(t, "loaded", os.Getenv("VOCABSRS_TEST_DOTENV"))
}
