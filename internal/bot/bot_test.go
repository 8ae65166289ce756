package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/levelup/internal/pool"
	"github.com/example/levelup/internal/session"
	"github.com/example/levelup/pkg/models"
)

type fakeAPI struct {
	sent      []tgbotapi.MessageConfig
	callbacks []tgbotapi.CallbackConfig
	sendErr   error
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.sendErr != nil {
		return tgbotapi.Message{}, f.sendErr
	}
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if cb, ok := c.(tgbotapi.CallbackConfig); ok {
		f.callbacks = append(f.callbacks, cb)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) last() tgbotapi.MessageConfig {
	return f.sent[len(f.sent)-1]
}

type fixedTasks struct{}

func (fixedTasks) Generate(*pool.Pool) models.Task {
	return models.Task{
		Question:  "3 × 4",
		Result:    12,
		Operation: models.Multiply,
		Fact:      &models.FactKey{A: 3, B: 4},
	}
}

type fakeStats struct{}

func (fakeStats) Summary(context.Context) (*models.Statistics, error) {
	return &models.Statistics{RoundsPlayed: 2, TotalCorrect: 30, TotalQuestions: 40, AverageRatio: 0.75, BestRatio: 0.9}, nil
}

func newTestBot(t *testing.T) (*Bot, *fakeAPI, *pool.Pool) {
	t.Helper()
	api := &fakeAPI{}
	p := pool.New()
	b := New(api, p, fixedTasks{}, Options{
		Session: session.Config{TotalQuestions: 2},
		Stats:   fakeStats{},
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return b, api, p
}

func command(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}}
}

func text(chatID int64, s string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}, Text: s}}
}

func callback(chatID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    data,
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
	}}
}

func buttonData(t *testing.T, msg tgbotapi.MessageConfig) string {
	t.Helper()
	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok, "message has no inline keyboard")
	require.NotEmpty(t, markup.InlineKeyboard)
	require.NotNil(t, markup.InlineKeyboard[0][0].CallbackData)
	return *markup.InlineKeyboard[0][0].CallbackData
}

func TestFullRound(t *testing.T) {
	ctx := context.Background()
	b, api, p := newTestBot(t)
	key := models.FactKey{A: 3, B: 4}

	b.HandleUpdate(ctx, command(7, "/quiz"))
	assert.Equal(t, "Frage 1 / 2\n\n3 × 4 = ?", api.last().Text)
	assert.Equal(t, int64(7), api.last().ChatID)

	b.HandleUpdate(ctx, text(7, " 12 "))
	assert.Contains(t, api.last().Text, "Richtig!")
	assert.Equal(t, callbackNext, buttonData(t, api.last()))
	f, _ := p.Get(key)
	assert.Equal(t, 4, f.Weight)

	b.HandleUpdate(ctx, callback(7, callbackNext))
	assert.Equal(t, "Frage 2 / 2\n\n3 × 4 = ?", api.last().Text)
	assert.Len(t, api.callbacks, 1)

	b.HandleUpdate(ctx, text(7, "7"))
	assert.Equal(t, "Falsch — Lösung: 12", api.last().Text)
	f, _ = p.Get(key)
	assert.Equal(t, 6, f.Weight)

	b.HandleUpdate(ctx, callback(7, callbackNext))
	assert.Equal(t, "Spiel beendet!\nPunkte: 1 / 2", api.last().Text)
	assert.Equal(t, callbackRestart, buttonData(t, api.last()))

	b.HandleUpdate(ctx, callback(7, callbackRestart))
	assert.Equal(t, "Frage 1 / 2\n\n3 × 4 = ?", api.last().Text)
}

func TestRejectsNonDigitInput(t *testing.T) {
	ctx := context.Background()
	b, api, p := newTestBot(t)

	b.HandleUpdate(ctx, command(1, "/quiz"))
	b.HandleUpdate(ctx, text(1, "zwölf"))
	assert.Equal(t, digitsOnlyText, api.last().Text)
	b.HandleUpdate(ctx, text(1, "12345"))
	assert.Equal(t, digitsOnlyText, api.last().Text)

	f, _ := p.Get(models.FactKey{A: 3, B: 4})
	assert.Equal(t, pool.DefaultWeight, f.Weight)
	assert.Equal(t, session.AwaitingAnswer, b.sessions[1].State())
}

func TestIgnoresStaleButtons(t *testing.T) {
	ctx := context.Background()
	b, api, _ := newTestBot(t)

	b.HandleUpdate(ctx, callback(1, callbackNext))
	assert.Equal(t, noRoundText, api.last().Text)

	b.HandleUpdate(ctx, command(1, "/quiz"))
	sent := len(api.sent)
	b.HandleUpdate(ctx, callback(1, callbackNext))
	b.HandleUpdate(ctx, callback(1, callbackRestart))
	assert.Len(t, api.sent, sent)
	assert.Equal(t, 1, b.sessions[1].Index())
}

func TestAnswerWhileFeedbackShowing(t *testing.T) {
	ctx := context.Background()
	b, api, p := newTestBot(t)

	b.HandleUpdate(ctx, command(1, "/quiz"))
	b.HandleUpdate(ctx, text(1, "12"))
	b.HandleUpdate(ctx, text(1, "12"))

	assert.Equal(t, pressNextText, api.last().Text)
	assert.Equal(t, 1, b.sessions[1].Score())
	f, _ := p.Get(models.FactKey{A: 3, B: 4})
	assert.Equal(t, 4, f.Weight)
}

func TestCommands(t *testing.T) {
	ctx := context.Background()
	b, api, _ := newTestBot(t)

	b.HandleUpdate(ctx, command(1, "/start"))
	assert.Equal(t, welcomeText, api.last().Text)

	b.HandleUpdate(ctx, command(1, "/stats"))
	assert.Contains(t, api.last().Text, "Runden:      2")
	assert.Contains(t, api.last().Text, "Üben:")

	b.HandleUpdate(ctx, command(1, "/dance"))
	assert.Equal(t, unknownCommandText, api.last().Text)

	b.HandleUpdate(ctx, text(2, "5"))
	assert.Equal(t, noRoundText, api.last().Text)
}

func TestChatsToRemind(t *testing.T) {
	b, api, _ := newTestBot(t)
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	b.now = func() time.Time { return start }
	b.HandleUpdate(context.Background(), command(1, "/start"))
	b.now = func() time.Time { return start.Add(5 * time.Hour) }
	b.HandleUpdate(context.Background(), command(2, "/start"))

	assert.Equal(t, []int64{1}, b.ChatsToRemind(start.Add(6*time.Hour), 6*time.Hour))
	assert.Equal(t, []int64{1, 2}, b.ChatsToRemind(start.Add(12*time.Hour), 6*time.Hour))

	b.now = func() time.Time { return start.Add(6 * time.Hour) }
	require.NoError(t, b.SendReminder(1))
	assert.Equal(t, "Zeit zum Üben! Tippe /quiz für eine neue Runde.", api.last().Text)
	assert.Empty(t, b.ChatsToRemind(start.Add(7*time.Hour), 6*time.Hour))
}

func TestSendReminderError(t *testing.T) {
	b, api, _ := newTestBot(t)
	api.sendErr = errors.New("forbidden: bot was blocked by the user")
	assert.Error(t, b.SendReminder(1))
	assert.Empty(t, b.ChatsToRemind(time.Now().Add(time.Hour), time.Minute))
}

func TestRunStopsOnClosedChannel(t *testing.T) {
	b, api, _ := newTestBot(t)
	updates := make(chan tgbotapi.Update, 1)
	updates <- command(1, "/help")
	close(updates)

	require.NoError(t, b.Run(context.Background(), updates))
	assert.Len(t, api.sent, 1)
}
