package cmd

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/example/levelup/internal/bot"
	"github.com/example/levelup/internal/database"
	"github.com/example/levelup/internal/generator"
	"github.com/example/levelup/internal/scheduler"
	"github.com/example/levelup/internal/session"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Serve quiz rounds through a Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := bot.NewAPI(cfg.TelegramToken)
		if err != nil {
			return err
		}
		logger.Info("authorized on telegram", "account", api.Self.UserName)

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		store, closeStore := newWeightStore(db)
		defer closeStore()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		g, ctx := errgroup.WithContext(ctx)
		p := session.LoadPool(ctx, store, logger)
		b := bot.New(api, p, generator.New(newRand(cfg.Seed)), bot.Options{
			Session: session.Config{
				TotalQuestions: cfg.TotalQuestions,
				Store:          store,
				Recorder:       database.NewResultRepository(db),
				Logger:         logger,
			},
			Stats:  database.NewStatisticsRepository(db),
			Logger: logger,
		})

		reminders := scheduler.New(b, b, cfg.ReminderInterval, logger)
		if err := reminders.Start(); err != nil {
			return err
		}
		defer reminders.Stop()

		u := tgbotapi.NewUpdate(0)
		u.Timeout = bot.DefaultConfig().UpdateTimeout
		updates := api.GetUpdatesChan(u)

		g.Go(func() error {
			defer cancel()
			return b.Run(ctx, updates)
		})
		g.Go(func() error {
			<-ctx.Done()
			api.StopReceivingUpdates()
			return nil
		})
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(botCmd)
	botCmd.Flags().String("token", "", "Telegram bot token")
	botCmd.Flags().Duration("reminder-interval", 0, "idle time before a chat is reminded")
	botCmd.Flags().IntP("total", "n", 0, "questions per round")
	botCmd.Flags().Bool("async", true, "save weights on a background writer")
	botCmd.Flags().Uint64("seed", 0, "random seed (0 = clock)")
}
