package bot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabsrs/pkg/models"
)

// Callback data of the review buttons is "answer:<word id>:<action>"
const callbackAnswer = "answer"

const helpText = `Commands:
/start <email> - link this chat with your account
/remind on|off|HH:MM - daily reminder
/weekly on|off - weekly report every Sunday
/plans - your study plans
/planremind <n> on|off|HH:MM - reminder of plan n from /plans
/stats - your progress
/review - review due words`

// HandleCommand handles bot commands
func (b *Bot) HandleCommand(ctx context.Context, message *tgbotapi.Message) error {
	if message.Chat == nil {
		return fmt.Errorf("invalid message: chat is missing")
	}

	var err error
	switch message.Command() {
	case "start":
		err = b.handleStart(ctx, message)
	case "help":
		err = b.reply(message.Chat.ID, helpText)
	case "remind":
		err = b.handleRemind(ctx, message)
	case "weekly":
		err = b.handleWeekly(ctx, message)
	case "plans":
		err = b.handlePlans(ctx, message)
	case "planremind":
		err = b.handlePlanRemind(ctx, message)
	case "stats":
		err = b.handleStats(ctx, message)
	case "review":
		err = b.handleReview(ctx, message)
	default:
		err = b.reply(message.Chat.ID, "Unknown command. Use /help to see the available commands.")
	}
	return err
}

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	email := strings.TrimSpace(message.CommandArguments())

	if email == "" {
		user, err := b.svc.Users.GetByTelegramChatID(ctx, chatID)
		if err == nil {
			return b.reply(chatID, fmt.Sprintf("Welcome back, %s!\n\n%s", user.Name, helpText))
		}
		if !errors.Is(err, models.ErrNotFound) {
			return err
		}
		return b.reply(chatID, "Send /start <email> to link this chat with your account.")
	}

	user, err := b.svc.Users.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return b.reply(chatID, fmt.Sprintf("No account is registered with %s.", email))
	}
	if err != nil {
		return err
	}

	user.TelegramChatID = sql.NullInt64{Int64: chatID, Valid: true}
	if err := b.svc.Users.UpdatePreferences(ctx, user); err != nil {
		return fmt.Errorf("failed to link chat: %w", err)
	}
	b.refreshReminders(ctx, user.ID)

	return b.reply(chatID, fmt.Sprintf("Linked! Reminders for %s will arrive here.\n\n%s", user.Name, helpText))
}

func (b *Bot) handleRemind(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	user, err := b.linkedUser(ctx, chatID)
	if user == nil {
		return err
	}

	arg := strings.ToLower(strings.TrimSpace(message.CommandArguments()))
	switch arg {
	case "on":
		user.DailyReminderEnabled = true
	case "off":
		user.DailyReminderEnabled = false
	default:
		hour, minute, err := models.ParseClock(arg)
		if err != nil {
			return b.reply(chatID, "Usage: /remind on|off|HH:MM, for example /remind 07:30")
		}
		user.ReminderTime = models.FormatClock(hour, minute)
		user.DailyReminderEnabled = true
	}

	if err := b.svc.Users.UpdatePreferences(ctx, user); err != nil {
		return fmt.Errorf("failed to save reminder settings: %w", err)
	}
	b.refreshReminders(ctx, user.ID)

	if !user.DailyReminderEnabled {
		return b.reply(chatID, "Daily reminder disabled")
	}
	return b.reply(chatID, fmt.Sprintf("Daily reminder enabled at %s", user.ReminderTime))
}

func (b *Bot) handleWeekly(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	user, err := b.linkedUser(ctx, chatID)
	if user == nil {
		return err
	}

	switch strings.ToLower(strings.TrimSpace(message.CommandArguments())) {
	case "on":
		user.WeeklyReportEnabled = true
	case "off":
		user.WeeklyReportEnabled = false
	default:
		return b.reply(chatID, "Usage: /weekly on|off")
	}

	if err := b.svc.Users.UpdatePreferences(ctx, user); err != nil {
		return fmt.Errorf("failed to save weekly report setting: %w", err)
	}
	return b.reply(chatID, fmt.Sprintf("Weekly report %s", enabledString(user.WeeklyReportEnabled)))
}

func (b *Bot) handlePlans(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	user, err := b.linkedUser(ctx, chatID)
	if user == nil {
		return err
	}

	plans, err := b.svc.Plans.ListByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		return b.reply(chatID, "You have no study plans yet.")
	}

	var text strings.Builder
	text.WriteString("📚 Your plans\n")
	for i, plan := range plans {
		fmt.Fprintf(&text, "\n%d. %s", i+1, plan.Name)
		if plan.IsActive {
			text.WriteString(" (active)")
		}
		if plan.ReminderEnabled {
			fmt.Fprintf(&text, ", reminder at %s", plan.ReminderTime)
		} else {
			text.WriteString(", reminder off")
		}
	}
	return b.reply(chatID, text.String())
}

// handlePlanRemind changes the reminder of the n-th plan listed by /plans
func (b *Bot) handlePlanRemind(ctx context.Context, message *tgbotapi.Message) error {
	const usage = "Usage: /planremind <n> on|off|HH:MM, where n is the number shown by /plans"

	chatID := message.Chat.ID
	user, err := b.linkedUser(ctx, chatID)
	if user == nil {
		return err
	}

	args := strings.Fields(strings.ToLower(message.CommandArguments()))
	if len(args) != 2 {
		return b.reply(chatID, usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return b.reply(chatID, usage)
	}

	plans, err := b.svc.Plans.ListByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	if n < 1 || n > len(plans) {
		return b.reply(chatID, fmt.Sprintf("There is no plan %d. Use /plans to see your plans.", n))
	}
	plan := plans[n-1]

	enabled, clock := true, plan.ReminderTime
	switch args[1] {
	case "on":
	case "off":
		enabled = false
	default:
		hour, minute, err := models.ParseClock(args[1])
		if err != nil {
			return b.reply(chatID, usage)
		}
		clock = models.FormatClock(hour, minute)
	}

	if err := b.svc.Plans.SetReminder(ctx, user.ID, plan.ID, enabled, clock); err != nil {
		return fmt.Errorf("failed to save plan reminder: %w", err)
	}
	b.refreshReminders(ctx, user.ID)

	if !enabled {
		return b.reply(chatID, fmt.Sprintf("Reminder for %q disabled", plan.Name))
	}
	if clock == "" {
		clock = models.DefaultReminderTime
	}
	reply := fmt.Sprintf("Reminder for %q set to %s", plan.Name, clock)
	if !plan.IsActive {
		reply += ". It fires once the plan is active."
	}
	return b.reply(chatID, reply)
}

func (b *Bot) handleStats(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	user, err := b.linkedUser(ctx, chatID)
	if user == nil {
		return err
	}

	summary, err := b.svc.Stats.MasterySummary(ctx, user.ID)
	if err != nil {
		return err
	}
	streak, err := b.svc.Stats.StreakDays(ctx, user.ID)
	if err != nil {
		return err
	}

	var text strings.Builder
	text.WriteString("📊 Your progress\n\n")
	fmt.Fprintf(&text, "Words studied: %d\n", summary.Total)
	fmt.Fprintf(&text, "Learning: %d\n", summary.Learning)
	fmt.Fprintf(&text, "Reviewing: %d\n", summary.Reviewing)
	fmt.Fprintf(&text, "Mastered: %d\n", summary.Mastered)
	fmt.Fprintf(&text, "Due now: %d\n", summary.Due)
	fmt.Fprintf(&text, "Streak: %d days", streak)
	return b.reply(chatID, text.String())
}

// handleReview sends one message with answer buttons per due word
func (b *Bot) handleReview(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	user, err := b.linkedUser(ctx, chatID)
	if user == nil {
		return err
	}

	due, err := b.svc.Stats.DueWords(ctx, user.ID, b.config.ReviewBatchSize)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return b.reply(chatID, "Nothing to review right now 🎉")
	}

	for _, rec := range due {
		msg := tgbotapi.NewMessage(chatID, b.wordText(ctx, rec.WordID))
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Know", answerData(rec.WordID, models.ActionKnow)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Don't know", answerData(rec.WordID, models.ActionDontKnow)),
		))
		if err := b.sendMessage(msg); err != nil {
			return err
		}
	}
	return nil
}

// HandleCallback records the answer behind a pressed review button
func (b *Bot) HandleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	if callback.Message == nil || callback.Message.Chat == nil {
		return fmt.Errorf("invalid callback data: required fields are missing")
	}

	// Always answer the callback query to remove the loading state
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Warn("Failed to answer callback", "error", err)
	}

	wordID, action, err := parseAnswerData(callback.Data)
	if err != nil {
		b.logger.Debug("Ignoring unknown callback", "data", callback.Data)
		return nil
	}

	chatID := callback.Message.Chat.ID
	user, err := b.linkedUser(ctx, chatID)
	if user == nil {
		return err
	}

	rec, err := b.svc.Recorder.RecordInteraction(ctx, user.ID, wordID, action)
	if errors.Is(err, models.ErrNotFound) {
		return b.sendMessage(tgbotapi.NewEditMessageText(chatID, callback.Message.MessageID, "This word no longer exists."))
	}
	if err != nil {
		return err
	}

	text := fmt.Sprintf("%s: %s, next review %s",
		b.wordText(ctx, wordID),
		rec.Status,
		rec.NextReviewAt.In(b.config.Location).Format("Jan 2 15:04"))
	return b.sendMessage(tgbotapi.NewEditMessageText(chatID, callback.Message.MessageID, text))
}

// linkedUser returns the user of a chat. An unlinked chat is told how to link
// and gets a nil user with a nil error.
func (b *Bot) linkedUser(ctx context.Context, chatID int64) (*models.User, error) {
	user, err := b.svc.Users.GetByTelegramChatID(ctx, chatID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, b.reply(chatID, "This chat is not linked yet. Send /start <email> first.")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (b *Bot) wordText(ctx context.Context, wordID int64) string {
	word, err := b.svc.Words.GetByID(ctx, wordID)
	if err != nil {
		b.logger.Warn("Failed to load word", "word_id", wordID, "error", err)
		return fmt.Sprintf("word #%d", wordID)
	}
	return word.Text
}

func answerData(wordID int64, action models.Action) string {
	return fmt.Sprintf("%s:%d:%s", callbackAnswer, wordID, action)
}

func parseAnswerData(data string) (int64, models.Action, error) {
	parts := strings.Split(data, ":")
	if len(parts) != 3 || parts[0] != callbackAnswer {
		return 0, "", fmt.Errorf("not an answer callback: %q", data)
	}
	wordID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid word id in %q: %w", data, err)
	}
	action, err := models.ParseAction(parts[2])
	if err != nil {
		return 0, "", err
	}
	return wordID, action, nil
}

// enabledString converts a boolean to a human-readable enabled/disabled string
func enabledString(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
