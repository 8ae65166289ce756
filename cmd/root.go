package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/example/levelup/internal/config"
	"github.com/example/levelup/internal/database"
	"github.com/example/levelup/internal/pool"
	"github.com/example/levelup/internal/session"
	"github.com/example/levelup/internal/worker"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

// flagKeys maps command line flags to configuration keys
var flagKeys = map[string]string{
	"driver":            config.KeyDatabaseDriver,
	"dsn":               config.KeyDatabaseDSN,
	"log-level":         config.KeyLogLevel,
	"total":             config.KeyTotalQuestions,
	"async":             config.KeyAsyncSave,
	"seed":              config.KeySeed,
	"token":             config.KeyTelegramToken,
	"reminder-interval": config.KeyReminderInterval,
}

var rootCmd = &cobra.Command{
	Use:   "levelup",
	Short: "Practice times tables, addition and subtraction",
	Long: `LevelUp is an arithmetic quiz. Multiplication facts you get wrong
come back more often, facts you know well fade into the background.
Play in the terminal or through a Telegram bot.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v := config.New()
		if err := bindFlags(v, cmd); err != nil {
			return err
		}
		loaded, err := config.Load(v)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = cfg.NewLogger(cmd.ErrOrStderr())
		slog.SetDefault(logger)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().String("driver", "", "database driver (sqlite3 or postgres)")
	rootCmd.PersistentFlags().String("dsn", "", "database data source name")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
}

// Execute runs the root command until it returns or the process is signalled
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		stop()
		os.Exit(1)
	}
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

func openDB() (*sqlx.DB, error) {
	return database.Connect(cfg.DatabaseDriver, cfg.DatabaseDSN)
}

// loadPool reads the stored weights. Unlike session.LoadPool a failed load
// is returned, for commands that must not act on default weights.
func loadPool(ctx context.Context, repo *database.WeightRepository) (*pool.Pool, error) {
	p := pool.New()
	if err := repo.Load(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// newWeightStore returns the configured store and a function that flushes
// and releases it.
func newWeightStore(db *sqlx.DB) (session.WeightStore, func()) {
	repo := database.NewWeightRepository(db)
	if !cfg.AsyncSave {
		return repo, func() {}
	}

	async := worker.NewAsyncWeightStore(repo, logger)
	return async, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := async.Close(ctx); err != nil {
			logger.Error("failed to flush weights", "error", err)
		}
	}
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}
