package notify

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabsrs/pkg/models"
)

//go:generate mockgen -source=telegram.go -destination=../mocks/notify/mock_telegram.go -package=mock_notify

// BotAPI is the part of the Telegram bot client the sender uses
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSender sends the text body of a message to the recipient's Telegram chat
type TelegramSender struct {
	api    BotAPI
	logger *slog.Logger
}

// NewTelegramSender connects to the Telegram bot API with token
func NewTelegramSender(token string, logger *slog.Logger) (*TelegramSender, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram channel enabled but no bot token configured")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	logger.Info("Telegram sender authorized", slog.String("account", api.Self.UserName))
	return NewTelegramSenderWithAPI(api, logger), nil
}

// NewTelegramSenderWithAPI wraps an existing bot client
func NewTelegramSenderWithAPI(api BotAPI, logger *slog.Logger) *TelegramSender {
	return &TelegramSender{api: api, logger: logger}
}

func (s *TelegramSender) Send(ctx context.Context, to models.Recipient, msg Message) error {
	if to.TelegramChatID == 0 {
		s.logger.Debug("Skipping Telegram send: recipient has no chat", slog.Int64("user_id", to.UserID))
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	text := msg.Text
	if text == "" {
		text = msg.Subject
	}
	tgMsg := tgbotapi.NewMessage(to.TelegramChatID, text)
	if _, err := s.api.Send(tgMsg); err != nil {
		return fmt.Errorf("failed to send Telegram message to user %d: %w", to.UserID, err)
	}

	s.logger.Info("Telegram message sent", slog.Int64("user_id", to.UserID), slog.String("subject", msg.Subject))
	return nil
}
