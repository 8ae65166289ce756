package bot

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/example/levelup/internal/pool"
	"github.com/example/levelup/internal/render"
	"github.com/example/levelup/internal/session"
	"github.com/example/levelup/pkg/models"
)

// Constants for callback data
const (
	callbackNext    = "next"
	callbackRestart = "restart"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// API is the part of the Telegram client the bot talks to
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// StatsSource provides the aggregate over all finished rounds
type StatsSource interface {
	Summary(ctx context.Context) (*models.Statistics, error)
}

// Options holds the optional collaborators of a bot
type Options struct {
	Session session.Config
	Stats   StatsSource
	Config  *BotConfig
	Logger  *slog.Logger
}

// Bot represents the Telegram bot application. Every chat plays its own
// round, all rounds share one fact pool. Updates must be handled from a
// single goroutine; the reminder registry may be read concurrently.
type Bot struct {
	api        API
	pool       *pool.Pool
	gen        session.TaskSource
	sessionCfg session.Config
	stats      StatsSource
	config     *BotConfig
	logger     *slog.Logger
	now        func() time.Time

	sessions map[int64]*session.Session

	mu       sync.Mutex
	lastSeen map[int64]time.Time
}

// NewAPI connects to Telegram with the given token
func NewAPI(token string) (*tgbotapi.BotAPI, error) {
	if token == "" {
		return nil, errors.New("TELEGRAM_BOT_TOKEN is not set")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create bot API")
	}
	return api, nil
}

// New creates a new bot instance
func New(api API, p *pool.Pool, gen session.TaskSource, opts Options) *Bot {
	if opts.Config == nil {
		opts.Config = DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Session.Logger == nil {
		opts.Session.Logger = opts.Logger
	}
	return &Bot{
		api:        api,
		pool:       p,
		gen:        gen,
		sessionCfg: opts.Session,
		stats:      opts.Stats,
		config:     opts.Config,
		logger:     opts.Logger,
		now:        time.Now,
		sessions:   make(map[int64]*session.Session),
		lastSeen:   make(map[int64]time.Time),
	}
}

// Run handles updates one at a time until ctx is done or the channel closes
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	b.logger.Info("bot started")
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate dispatches a single update. Errors are logged.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	var err error
	switch {
	case update.Message != nil && update.Message.Chat != nil:
		b.touch(update.Message.Chat.ID)
		if update.Message.IsCommand() {
			err = b.HandleCommand(ctx, update.Message)
		} else {
			err = b.handleAnswer(ctx, update.Message)
		}
	case update.CallbackQuery != nil:
		err = b.handleCallback(ctx, update.CallbackQuery)
	}
	if err != nil {
		b.logger.Error("error handling update", "update_id", update.UpdateID, "error", err)
	}
}

// SendReminder asks a chat to play another round
func (b *Bot) SendReminder(chatID int64) error {
	if err := b.send(tgbotapi.NewMessage(chatID, render.ReminderText)); err != nil {
		return err
	}
	b.touch(chatID)
	return nil
}

// ChatsToRemind returns the chats that have been quiet for at least idle
func (b *Bot) ChatsToRemind(now time.Time, idle time.Duration) []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	var chats []int64
	for chatID, seen := range b.lastSeen {
		if now.Sub(seen) >= idle {
			chats = append(chats, chatID)
		}
	}
	slices.Sort(chats)
	return chats
}

func (b *Bot) touch(chatID int64) {
	b.mu.Lock()
	b.lastSeen[chatID] = b.now()
	b.mu.Unlock()
}

func (b *Bot) send(msg tgbotapi.MessageConfig) error {
	if _, err := b.api.Send(msg); err != nil {
		return errors.Wrapf(err, "failed to send message to chat %d", msg.ChatID)
	}
	return nil
}
