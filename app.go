package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"

	"github.com/example/vocabsrs/internal/bot"
	"github.com/example/vocabsrs/internal/config"
	"github.com/example/vocabsrs/internal/database"
	"github.com/example/vocabsrs/internal/learning"
	"github.com/example/vocabsrs/internal/notify"
	"github.com/example/vocabsrs/internal/scheduler"
)

// app holds what every command needs: configuration, logger and database
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sqlx.DB
	loc    *time.Location
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := setupLogger(cfg.Log)

	loc, err := cfg.Scheduler.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %q: %w", cfg.Scheduler.Timezone, err)
	}

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	logger.Debug("Database connected", slog.String("driver", cfg.Database.Driver))

	return &app{cfg: cfg, logger: logger, db: db, loc: loc}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func (a *app) analyzer() *learning.Analyzer {
	return learning.NewAnalyzer(a.db, learning.WithLocation(a.loc))
}

func (a *app) recorder() *learning.Recorder {
	return learning.NewRecorder(a.db, database.NewWordRepository(a.db), learning.WithRecorderLogger(a.logger))
}

func (a *app) scheduler(ctx context.Context) (*scheduler.ReminderScheduler, error) {
	sender, err := notify.New(ctx, a.cfg.Notify, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification sender: %w", err)
	}

	sched := scheduler.New(scheduler.NewRepositoryStore(a.db), a.analyzer(), sender, scheduler.Config{
		Location:          a.loc,
		JobTimeout:        a.cfg.Scheduler.JobTimeout,
		ReportConcurrency: a.cfg.Scheduler.ReportConcurrency,
		AppBaseURL:        a.cfg.Notify.Email.AppBaseURL,
	})
	sched.SetLogger(a.logger)
	return sched, nil
}

// reloadLoop rebuilds all jobs periodically so changes written by other processes are picked up
func (a *app) reloadLoop(ctx context.Context, sched *scheduler.ReminderScheduler, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := sched.InitializeAll(ctx); err != nil {
				a.logger.Error("Failed to reload reminder jobs", slog.Any("error", err))
			}
		case <-ctx.Done():
			a.logger.Debug("Stopping reminder reload loop")
			return
		}
	}
}

// startBot answers Telegram commands in the background when enabled. done is closed when it stops.
func (a *app) startBot(ctx context.Context, sched *scheduler.ReminderScheduler, done chan struct{}) error {
	tg := a.cfg.Notify.Telegram
	if !tg.Commands {
		close(done)
		return nil
	}
	if tg.Token == "" {
		return fmt.Errorf("telegram commands enabled but no bot token configured")
	}

	api, err := tgbotapi.NewBotAPI(tg.Token)
	if err != nil {
		return fmt.Errorf("unable to create bot: %w", err)
	}
	a.logger.Info("Telegram bot authorized", slog.String("account", api.Self.UserName))

	svc := bot.Services{
		Users:    database.NewUserRepository(a.db),
		Recorder: a.recorder(),
		Stats:    a.analyzer(),
		Plans:    database.NewPlanRepository(a.db),
		Words:    database.NewWordRepository(a.db),
	}
	if a.cfg.Scheduler.Enabled {
		svc.Reminders = sched
	}

	b := bot.New(api, svc, bot.Config{Location: a.loc})
	b.SetLogger(a.logger)

	go func() {
		defer close(done)
		if err := b.Run(ctx); err != nil {
			a.logger.Error("Telegram bot stopped with error", slog.Any("error", err))
		}
	}()
	return nil
}
