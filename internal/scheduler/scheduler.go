package scheduler

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
)

// Scheduler sends practice reminders on a fixed interval
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	chats     ChatSource
	interval  time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// Notifier interface for sending notifications
type Notifier interface {
	SendReminder(chatID int64) error
}

// ChatSource lists chats that have been idle for at least the given duration
type ChatSource interface {
	ChatsToRemind(now time.Time, idle time.Duration) []int64
}

// New creates a new scheduler instance. A chat is reminded once it has been
// idle for a full interval.
func New(notifier Notifier, chats ChatSource, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		notifier:  notifier,
		chats:     chats,
		interval:  interval,
		logger:    logger,
		now:       time.Now,
	}
}

// Start begins running the reminder job in the background
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).WaitForSchedule().SingletonMode().Do(s.RunOnce)
	if err != nil {
		return errors.Wrap(err, "failed to schedule reminders")
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// RunOnce sends a reminder to every idle chat and returns how many were sent
func (s *Scheduler) RunOnce() int {
	sent := 0
	for _, chatID := range s.chats.ChatsToRemind(s.now(), s.interval) {
		if err := s.notifier.SendReminder(chatID); err != nil {
			s.logger.Warn("error sending reminder", "chat_id", chatID, "error", err)
			continue
		}
		sent++
	}
	if sent > 0 {
		s.logger.Info("sent practice reminders", "count", sent)
	}
	return sent
}
