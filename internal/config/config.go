// Package config loads application settings from a YAML file, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Log       LogConfig       `mapstructure:"log"`
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver" validate:"oneof=sqlite3 postgres mysql"`
	DSN             string `mapstructure:"dsn" validate:"required"`
	MaxOpenConns    int    `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime_seconds" validate:"gte=0"`
}

type SchedulerConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	Timezone          string        `mapstructure:"timezone" validate:"required,timezone"`
	JobTimeout        time.Duration `mapstructure:"job_timeout" validate:"gt=0"`
	ReportConcurrency int           `mapstructure:"report_concurrency" validate:"gte=1"`
	ReloadInterval    time.Duration `mapstructure:"reload_interval" validate:"gte=0"` // 0 disables periodic reloads
}

// Location resolves the configured time zone. Reminder times are interpreted in it.
func (c SchedulerConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

type NotifyConfig struct {
	Channels []string       `mapstructure:"channels" validate:"min=1,dive,oneof=email telegram log"`
	Email    EmailConfig    `mapstructure:"email"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

type EmailConfig struct {
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address" validate:"omitempty,email"`
	FromName    string `mapstructure:"from_name"`
	AppBaseURL  string `mapstructure:"app_base_url" validate:"omitempty,url"`
	Debug       bool   `mapstructure:"debug"`
}

type TelegramConfig struct {
	Token    string `mapstructure:"token"`
	Commands bool   `mapstructure:"commands"` // answer chat commands while serving
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/vocabsrs")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

// LoadDotEnv populates the process environment from .env files. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("godotenv.Load(%s) > %w", f, err)
		}
	}
	return nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", "data/vocabsrs.db")
	v.SetDefault("database.max_open_conns", 0)
	v.SetDefault("database.max_idle_conns", 0)
	v.SetDefault("database.conn_max_lifetime_seconds", 0)
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.timezone", "UTC")
	v.SetDefault("scheduler.job_timeout", "2m")
	v.SetDefault("scheduler.report_concurrency", 4)
	v.SetDefault("scheduler.reload_interval", "5m")
	v.SetDefault("notify.channels", []string{"log"})
	v.SetDefault("notify.email.region", "us-east-1")
	v.SetDefault("notify.email.from_address", "")
	v.SetDefault("notify.email.from_name", "Vocab SRS")
	v.SetDefault("notify.email.app_base_url", "")
	v.SetDefault("notify.email.debug", false)
	v.SetDefault("notify.telegram.token", "")
	v.SetDefault("notify.telegram.commands", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix("VOCABSRS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Secrets are bound to the conventional variable names as well
	bindings := map[string]string{
		"database.dsn":              "DATABASE_URL",
		"notify.telegram.token":     "TELEGRAM_BOT_TOKEN",
		"notify.email.from_address": "SES_FROM_EMAIL",
		"notify.email.region":       "AWS_REGION",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, "VOCABSRS_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind %s environment variable: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
