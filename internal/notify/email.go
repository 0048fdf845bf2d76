package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/example/vocabsrs/internal/config"
	"github.com/example/vocabsrs/pkg/models"
)

//go:generate mockgen -source=email.go -destination=../mocks/notify/mock_email.go -package=mock_notify

// SESClient is the part of the SES v2 API the email sender uses
type SESClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailSender sends notifications via Amazon SES
type EmailSender struct {
	client    SESClient
	fromEmail string
	fromName  string
	enabled   bool
	debug     bool
	logger    *slog.Logger
}

// NewEmailSender creates an email sender. Without a from address it is disabled and drops every message.
func NewEmailSender(ctx context.Context, cfg config.EmailConfig, logger *slog.Logger) (*EmailSender, error) {
	if cfg.FromAddress == "" {
		logger.Warn("Email sender disabled: no from address configured")
		return &EmailSender{enabled: false, debug: cfg.Debug, logger: logger}, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logger.Info("Email sender enabled",
		slog.String("from", cfg.FromAddress),
		slog.String("region", awsCfg.Region))

	return NewEmailSenderWithClient(sesv2.NewFromConfig(awsCfg), cfg, logger), nil
}

// NewEmailSenderWithClient creates an enabled sender around an existing SES client
func NewEmailSenderWithClient(client SESClient, cfg config.EmailConfig, logger *slog.Logger) *EmailSender {
	return &EmailSender{
		client:    client,
		fromEmail: cfg.FromAddress,
		fromName:  cfg.FromName,
		enabled:   true,
		debug:     cfg.Debug,
		logger:    logger,
	}
}

// IsEnabled returns whether the email sender delivers messages
func (s *EmailSender) IsEnabled() bool {
	return s.enabled
}

func (s *EmailSender) Send(ctx context.Context, to models.Recipient, msg Message) error {
	if !s.enabled {
		if s.debug {
			s.logger.Debug("Skipping email send (sender disabled)", slog.Int64("user_id", to.UserID))
		}
		return nil
	}
	if to.Email == "" {
		s.logger.Debug("Skipping email send: recipient has no address", slog.Int64("user_id", to.UserID))
		return nil
	}

	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	body := &types.Body{
		Html: &types.Content{
			Data:    aws.String(msg.HTML),
			Charset: aws.String("UTF-8"),
		},
	}
	if msg.Text != "" {
		body.Text = &types.Content{
			Data:    aws.String(msg.Text),
			Charset: aws.String("UTF-8"),
		}
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{to.Email},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(msg.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: body,
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to user %d: %w", to.UserID, err)
	}

	attrs := []any{slog.Int64("user_id", to.UserID), slog.String("subject", msg.Subject)}
	if s.debug && result.MessageId != nil {
		attrs = append(attrs, slog.String("message_id", *result.MessageId))
	}
	s.logger.Info("Email sent", attrs...)
	return nil
}
