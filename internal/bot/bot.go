// Package bot answers Telegram chat commands: linking a chat to an account,
// changing reminder preferences and reviewing due words with inline buttons.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

//go:generate mockgen -source=bot.go -destination=../mocks/bot/mock_bot.go -package=mock_bot

// API is the part of the Telegram client the bot uses
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// ReminderUpdater rebuilds a user's reminder jobs after preferences change
type ReminderUpdater interface {
	UpdateForUser(ctx context.Context, userID int64) error
}

// Bot represents the Telegram command handler
type Bot struct {
	api    API
	svc    Services
	config Config
	logger *slog.Logger
}

// New creates a new bot instance
func New(api API, svc Services, cfg Config) *Bot {
	def := DefaultConfig()
	if cfg.ReviewBatchSize <= 0 {
		cfg.ReviewBatchSize = def.ReviewBatchSize
	}
	if cfg.UpdateTimeout <= 0 {
		cfg.UpdateTimeout = def.UpdateTimeout
	}
	if cfg.Location == nil {
		cfg.Location = def.Location
	}
	return &Bot{
		api:    api,
		svc:    svc,
		config: cfg,
		logger: slog.Default(),
	}
}

// SetLogger sets a custom logger
func (b *Bot) SetLogger(logger *slog.Logger) {
	b.logger = logger
}

// Run polls Telegram for updates until ctx is cancelled. Updates are handled concurrently.
func (b *Bot) Run(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := b.api.GetUpdatesChan(updateConfig)
	b.logger.Info("Telegram bot listening for commands")

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("Telegram bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.handleUpdate(ctx, update)
			}()
		}
	}
}

// handleUpdate handles one update with its own timeout, logging errors and panics
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(ctx, b.config.UpdateTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Update handler panicked",
				slog.Int("update_id", update.UpdateID),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
		}
	}()

	if err := b.HandleUpdate(ctx, update); err != nil {
		b.logger.Error("Failed to handle update", slog.Int("update_id", update.UpdateID), slog.Any("error", err))
	}
}

// HandleUpdate dispatches a message or a button press
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	switch {
	case update.CallbackQuery != nil:
		return b.HandleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		return b.HandleCommand(ctx, update.Message)
	case update.Message != nil && update.Message.Chat != nil:
		return b.reply(update.Message.Chat.ID, "I only understand commands. Use /help to see them.")
	}
	return nil
}

// refreshReminders reschedules a user's jobs. The preferences are already saved,
// so a failure only delays the change until the next full reload.
func (b *Bot) refreshReminders(ctx context.Context, userID int64) {
	if b.svc.Reminders == nil {
		return
	}
	if err := b.svc.Reminders.UpdateForUser(ctx, userID); err != nil {
		b.logger.Warn("Failed to reschedule reminders", slog.Int64("user_id", userID), slog.Any("error", err))
	}
}

func (b *Bot) reply(chatID int64, text string) error {
	return b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendMessage(msg tgbotapi.Chattable) error {
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
