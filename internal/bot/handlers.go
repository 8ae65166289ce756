package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/levelup/internal/render"
	"github.com/example/levelup/internal/session"
)

const (
	welcomeText = "👋 Willkommen bei LevelUp!\n\n" +
		"Übe das Einmaleins, Plus und Minus. Aufgaben, die dir schwerfallen, " +
		"kommen öfter dran.\n\n" +
		"/quiz - neue Runde starten\n" +
		"/stats - Statistik anzeigen\n" +
		"/help - diese Hilfe"
	unknownCommandText = "Unbekannter Befehl. Tippe /help für eine Übersicht."
	noRoundText        = "Gerade läuft keine Runde. Tippe /quiz zum Starten."
	digitsOnlyText     = "Bitte nur Ziffern eingeben (höchstens 4)."
	pressNextText      = "Tippe auf „Weiter“ für die nächste Frage."
	noStatsText        = "Noch keine Statistik verfügbar."
)

// HandleCommand handles bot commands
func (b *Bot) HandleCommand(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	switch message.Command() {
	case "start", "help":
		return b.send(tgbotapi.NewMessage(chatID, welcomeText))
	case "quiz":
		return b.startRound(chatID)
	case "stats":
		return b.handleStats(ctx, chatID)
	default:
		return b.send(tgbotapi.NewMessage(chatID, unknownCommandText))
	}
}

func (b *Bot) startRound(chatID int64) error {
	s := session.New(b.pool, b.gen, b.sessionCfg)
	b.sessions[chatID] = s
	b.logger.Debug("round started", "chat_id", chatID, "total", s.Total())
	return b.sendQuestion(chatID, s)
}

func (b *Bot) handleAnswer(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	s, ok := b.sessions[chatID]
	if !ok {
		return b.send(tgbotapi.NewMessage(chatID, noRoundText))
	}

	switch s.State() {
	case session.ShowingFeedback:
		msg := tgbotapi.NewMessage(chatID, pressNextText)
		msg.ReplyMarkup = createKeyboard([][]MenuButton{{{Text: render.NextLabel, CallbackData: callbackNext}}})
		return b.send(msg)
	case session.Finished:
		return b.sendFinal(chatID, s)
	}

	text := strings.TrimSpace(message.Text)
	if text == "" || !render.AcceptsInput(text) {
		return b.send(tgbotapi.NewMessage(chatID, digitsOnlyText))
	}

	res := s.Submit(ctx, text)
	if !res.Accepted {
		return nil
	}

	var reply string
	if res.Feedback == session.Correct {
		reply = render.SuccessEffect + "\n" + render.CorrectText
	} else {
		reply = render.Incorrect(*res.CorrectAnswer)
	}
	msg := tgbotapi.NewMessage(chatID, reply)
	msg.ReplyMarkup = createKeyboard([][]MenuButton{{{Text: render.NextLabel, CallbackData: callbackNext}}})
	return b.send(msg)
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.logger.Warn("error answering callback", "error", err)
	}
	if query.Message == nil || query.Message.Chat == nil {
		return nil
	}

	chatID := query.Message.Chat.ID
	b.touch(chatID)

	s, ok := b.sessions[chatID]
	if !ok {
		return b.send(tgbotapi.NewMessage(chatID, noRoundText))
	}

	switch query.Data {
	case callbackNext:
		res := s.Advance(ctx)
		if !res.Accepted {
			return nil
		}
		if res.State == session.Finished {
			return b.sendFinal(chatID, s)
		}
		return b.sendQuestion(chatID, s)
	case callbackRestart:
		if res := s.Restart(); !res.Accepted {
			return nil
		}
		return b.sendQuestion(chatID, s)
	default:
		b.logger.Warn("unknown callback data", "data", query.Data)
		return nil
	}
}

func (b *Bot) handleStats(ctx context.Context, chatID int64) error {
	if b.stats == nil {
		return b.send(tgbotapi.NewMessage(chatID, noStatsText))
	}
	stats, err := b.stats.Summary(ctx)
	if err != nil {
		b.logger.Warn("failed to load statistics", "error", err)
		return b.send(tgbotapi.NewMessage(chatID, noStatsText))
	}
	text := render.Statistics(stats, b.pool.Hardest(b.config.HardestFacts))
	return b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendQuestion(chatID int64, s *session.Session) error {
	text := render.Header(s.Index(), s.Total()) + "\n\n" + s.Task().Question + " = ?"
	return b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendFinal(chatID int64, s *session.Session) error {
	msg := tgbotapi.NewMessage(chatID, render.Final(s.Score(), s.Total()))
	msg.ReplyMarkup = createKeyboard([][]MenuButton{{{Text: render.RestartLabel, CallbackData: callbackRestart}}})
	return b.send(msg)
}
