// Package notify delivers reminder and report messages over email, Telegram or the log.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/vocabsrs/internal/config"
	"github.com/example/vocabsrs/pkg/models"
)

//go:generate mockgen -source=notify.go -destination=../mocks/notify/mock_notify.go -package=mock_notify

// Message is one notification rendered for every channel
type Message struct {
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a message to a recipient. Senders skip recipients that have no
// address on their channel.
type Sender interface {
	Send(ctx context.Context, to models.Recipient, msg Message) error
}

// New builds the sender for the configured channels
func New(ctx context.Context, cfg config.NotifyConfig, logger *slog.Logger) (Sender, error) {
	if logger == nil {
		logger = slog.Default()
	}

	senders := make([]Sender, 0, len(cfg.Channels))
	for _, channel := range cfg.Channels {
		switch channel {
		case "email":
			s, err := NewEmailSender(ctx, cfg.Email, logger)
			if err != nil {
				return nil, err
			}
			senders = append(senders, s)
		case "telegram":
			s, err := NewTelegramSender(cfg.Telegram.Token, logger)
			if err != nil {
				return nil, err
			}
			senders = append(senders, s)
		case "log":
			senders = append(senders, NewLogSender(logger))
		default:
			return nil, fmt.Errorf("unknown notification channel %q", channel)
		}
	}

	if len(senders) == 1 {
		return senders[0], nil
	}
	return NewFanoutSender(senders...), nil
}

// LogSender writes messages to the log instead of delivering them
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, to models.Recipient, msg Message) error {
	s.logger.Info("Notification",
		slog.Int64("user_id", to.UserID),
		slog.String("subject", msg.Subject),
		slog.String("text", msg.Text))
	return nil
}

// FanoutSender delivers every message through all of its senders
type FanoutSender struct {
	senders []Sender
}

func NewFanoutSender(senders ...Sender) *FanoutSender {
	return &FanoutSender{senders: senders}
}

// Send tries every sender and joins their errors. One failing channel does not stop the others.
func (s *FanoutSender) Send(ctx context.Context, to models.Recipient, msg Message) error {
	var errs []error
	for _, sender := range s.senders {
		if err := sender.Send(ctx, to, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
