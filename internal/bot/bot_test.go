package bot_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/example/vocabsrs/internal/bot"
	"github.com/example/vocabsrs/internal/database"
	"github.com/example/vocabsrs/internal/database/dbtest"
	"github.com/example/vocabsrs/internal/learning"
	mock_bot "github.com/example/vocabsrs/internal/mocks/bot"
	"github.com/example/vocabsrs/pkg/models"
)

// outbox records everything the bot sends
type outbox struct {
	mu   sync.Mutex
	msgs []tgbotapi.Chattable
}

func (o *outbox) send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.msgs = append(o.msgs, c)
	return tgbotapi.Message{MessageID: len(o.msgs)}, nil
}

func (o *outbox) texts() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	var texts []string
	for _, c := range o.msgs {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			texts = append(texts, m.Text)
		case tgbotapi.EditMessageTextConfig:
			texts = append(texts, m.Text)
		}
	}
	return texts
}

func (o *outbox) last() string {
	texts := o.texts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

type env struct {
	db        *sqlx.DB
	api       *mock_bot.MockAPI
	reminders *mock_bot.MockReminderUpdater
	out       *outbox
	bot       *bot.Bot
	users     *database.UserRepository
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctrl := gomock.NewController(t)
	db := dbtest.New(t)

	e := &env{
		db:        db,
		api:       mock_bot.NewMockAPI(ctrl),
		reminders: mock_bot.NewMockReminderUpdater(ctrl),
		out:       &outbox{},
		users:     database.NewUserRepository(db),
	}
	e.api.EXPECT().Send(gomock.Any()).DoAndReturn(e.out.send).AnyTimes()
	e.api.EXPECT().Request(gomock.Any()).Return(&tgbotapi.APIResponse{Ok: true}, nil).AnyTimes()

	words := database.NewWordRepository(db)
	e.bot = bot.New(e.api, bot.Services{
		Users:     e.users,
		Recorder:  learning.NewRecorder(db, words),
		Stats:     learning.NewAnalyzer(db),
		Plans:     database.NewPlanRepository(db),
		Words:     words,
		Reminders: e.reminders,
	}, bot.DefaultConfig())
	e.bot.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return e
}

func (e *env) handle(t *testing.T, update tgbotapi.Update) {
	t.Helper()
	require.NoError(t, e.bot.HandleUpdate(context.Background(), update))
}

func command(chatID int64, text string) tgbotapi.Update {
	name := strings.SplitN(text, " ", 2)[0]
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		Text:      text,
		Chat:      &tgbotapi.Chat{ID: chatID},
		From:      &tgbotapi.User{ID: chatID},
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}}
}

func callback(chatID int64, messageID int, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		From:    &tgbotapi.User{ID: chatID},
		Message: &tgbotapi.Message{MessageID: messageID, Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    data,
	}}
}

func TestStartLinksChat(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := dbtest.CreateUser(t, e.db, "alice", true, "08:00", false)

	e.reminders.EXPECT().UpdateForUser(gomock.Any(), alice.ID).Return(nil)
	e.handle(t, command(100, "/start alice@example.com"))
	assert.Contains(t, e.out.last(), "Linked!")

	got, err := e.users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.Recipient().TelegramChatID)
	assert.Equal(t, "08:00", got.ReminderTime, "linking keeps the reminder settings")

	e.handle(t, command(100, "/start"))
	assert.Contains(t, e.out.last(), "Welcome back, alice!")

	e.handle(t, command(200, "/start"))
	assert.Equal(t, "Send /start <email> to link this chat with your account.", e.out.last())

	e.handle(t, command(200, "/start nobody@example.com"))
	assert.Equal(t, "No account is registered with nobody@example.com.", e.out.last())
}

func TestRemindAndWeeklyCommands(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := dbtest.CreateUser(t, e.db, "alice", false, "", false)
	dbtest.SetTelegramChat(t, e.db, alice, 100)

	e.reminders.EXPECT().UpdateForUser(gomock.Any(), alice.ID).Return(nil)
	e.handle(t, command(100, "/remind 7:30"))
	assert.Equal(t, "Daily reminder enabled at 07:30", e.out.last())

	got, err := e.users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, got.DailyReminderEnabled)
	assert.Equal(t, "07:30", got.ReminderTime)

	// a scheduler failure does not undo the saved preference
	e.reminders.EXPECT().UpdateForUser(gomock.Any(), alice.ID).Return(errors.New("scheduler busy"))
	e.handle(t, command(100, "/remind off"))
	assert.Equal(t, "Daily reminder disabled", e.out.last())

	got, err = e.users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, got.DailyReminderEnabled)

	e.handle(t, command(100, "/remind 25:00"))
	assert.Contains(t, e.out.last(), "Usage: /remind")

	e.handle(t, command(100, "/weekly on"))
	assert.Equal(t, "Weekly report enabled", e.out.last())
	got, err = e.users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, got.WeeklyReportEnabled)

	e.handle(t, command(100, "/weekly maybe"))
	assert.Equal(t, "Usage: /weekly on|off", e.out.last())
}

func TestPlanCommands(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := dbtest.CreateUser(t, e.db, "alice", false, "", false)
	dbtest.SetTelegramChat(t, e.db, alice, 100)

	e.handle(t, command(100, "/plans"))
	assert.Equal(t, "You have no study plans yet.", e.out.last())

	active := dbtest.CreatePlan(t, e.db, alice.ID, "core", true, false, "08:00")
	dbtest.CreatePlan(t, e.db, alice.ID, "idioms", false, true, "21:15")

	e.handle(t, command(100, "/plans"))
	assert.Equal(t, "📚 Your plans\n\n1. core (active), reminder off\n2. idioms, reminder at 21:15", e.out.last())

	plans := database.NewPlanRepository(e.db)

	e.reminders.EXPECT().UpdateForUser(gomock.Any(), alice.ID).Return(nil)
	e.handle(t, command(100, "/planremind 1 6:45"))
	assert.Equal(t, `Reminder for "core" set to 06:45`, e.out.last())
	got, err := plans.GetByID(ctx, alice.ID, active.ID)
	require.NoError(t, err)
	assert.True(t, got.ReminderEnabled)
	assert.Equal(t, "06:45", got.ReminderTime)

	e.reminders.EXPECT().UpdateForUser(gomock.Any(), alice.ID).Return(nil)
	e.handle(t, command(100, "/planremind 1 off"))
	assert.Equal(t, `Reminder for "core" disabled`, e.out.last())
	got, err = plans.GetByID(ctx, alice.ID, active.ID)
	require.NoError(t, err)
	assert.False(t, got.ReminderEnabled)
	assert.Equal(t, "06:45", got.ReminderTime, "disabling keeps the time")

	e.reminders.EXPECT().UpdateForUser(gomock.Any(), alice.ID).Return(nil)
	e.handle(t, command(100, "/planremind 2 on"))
	assert.Equal(t, `Reminder for "idioms" set to 21:15. It fires once the plan is active.`, e.out.last())

	for _, text := range []string{"/planremind", "/planremind x on", "/planremind 1 25:00"} {
		e.handle(t, command(100, text))
		assert.Contains(t, e.out.last(), "Usage: /planremind", text)
	}
	e.handle(t, command(100, "/planremind 3 on"))
	assert.Equal(t, "There is no plan 3. Use /plans to see your plans.", e.out.last())
}

func TestUnlinkedChat(t *testing.T) {
	e := newEnv(t)

	for _, text := range []string{"/stats", "/review", "/remind on", "/weekly on", "/plans", "/planremind 1 on"} {
		e.handle(t, command(300, text))
		assert.Equal(t, "This chat is not linked yet. Send /start <email> first.", e.out.last(), text)
	}

	e.handle(t, command(300, "/dance"))
	assert.Contains(t, e.out.last(), "Unknown command")

	e.handle(t, tgbotapi.Update{Message: &tgbotapi.Message{Text: "hello", Chat: &tgbotapi.Chat{ID: 300}}})
	assert.Contains(t, e.out.last(), "I only understand commands")
}

func TestStatsCommand(t *testing.T) {
	e := newEnv(t)
	alice := dbtest.CreateUser(t, e.db, "alice", false, "", false)
	dbtest.SetTelegramChat(t, e.db, alice, 100)
	ids := dbtest.CreateWords(t, e.db, "apple", "pear")

	recorder := learning.NewRecorder(e.db, database.NewWordRepository(e.db))
	_, err := recorder.RecordInteraction(context.Background(), alice.ID, ids[0], models.ActionKnow)
	require.NoError(t, err)
	_, err = recorder.RecordInteraction(context.Background(), alice.ID, ids[1], models.ActionDontKnow)
	require.NoError(t, err)

	e.handle(t, command(100, "/stats"))
	text := e.out.last()
	assert.Contains(t, text, "Words studied: 2")
	assert.Contains(t, text, "Learning: 1")
	assert.Contains(t, text, "Reviewing: 1")
	assert.Contains(t, text, "Mastered: 0")
	assert.Contains(t, text, "Streak: 1 days")
}

func TestReviewFlow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := dbtest.CreateUser(t, e.db, "alice", false, "", false)
	dbtest.SetTelegramChat(t, e.db, alice, 100)
	ids := dbtest.CreateWords(t, e.db, "apple", "pear")
	apple, pear := ids[0], ids[1]

	e.handle(t, command(100, "/review"))
	assert.Equal(t, "Nothing to review right now 🎉", e.out.last())

	threeDaysAgo := time.Now().Add(-72 * time.Hour)
	past := learning.NewRecorder(e.db, database.NewWordRepository(e.db),
		learning.WithRecorderClock(func() time.Time { return threeDaysAgo }))
	_, err := past.RecordInteraction(ctx, alice.ID, apple, models.ActionDontKnow)
	require.NoError(t, err)
	_, err = past.RecordInteraction(ctx, alice.ID, pear, models.ActionKnow)
	require.NoError(t, err)

	e.handle(t, command(100, "/review"))
	texts := e.out.texts()
	require.GreaterOrEqual(t, len(texts), 2)
	assert.Equal(t, []string{"apple", "pear"}, texts[len(texts)-2:], "most overdue first")

	e.out.mu.Lock()
	first := e.out.msgs[len(e.out.msgs)-2].(tgbotapi.MessageConfig)
	e.out.mu.Unlock()
	keyboard, ok := first.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, keyboard.InlineKeyboard, 1)
	require.Len(t, keyboard.InlineKeyboard[0], 2)
	knowData := *keyboard.InlineKeyboard[0][0].CallbackData
	assert.Equal(t, "answer:"+itoa(apple)+":know", knowData)
	assert.Equal(t, "answer:"+itoa(apple)+":dont_know", *keyboard.InlineKeyboard[0][1].CallbackData)

	e.handle(t, callback(100, 5, knowData))
	assert.True(t, strings.HasPrefix(e.out.last(), "apple: reviewing, next review"), e.out.last())

	rec, err := database.NewReviewRecordRepository(e.db).Get(ctx, alice.ID, apple)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.ConsecutiveCorrect)
	assert.Equal(t, 1, rec.TotalCorrect)
	assert.Equal(t, 1, rec.TotalIncorrect)

	e.handle(t, callback(100, 6, "answer:999:know"))
	assert.Equal(t, "This word no longer exists.", e.out.last())

	before := len(e.out.texts())
	e.handle(t, callback(100, 7, "main_menu"))
	assert.Len(t, e.out.texts(), before, "unknown buttons are only acknowledged")
}

func TestRun(t *testing.T) {
	e := newEnv(t)
	updates := make(chan tgbotapi.Update, 1)
	e.api.EXPECT().GetUpdatesChan(gomock.Any()).Return(tgbotapi.UpdatesChannel(updates))
	e.api.EXPECT().StopReceivingUpdates()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.bot.Run(ctx) }()

	updates <- command(100, "/help")
	assert.Eventually(t, func() bool {
		return strings.Contains(e.out.last(), "/remind on|off|HH:MM")
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
