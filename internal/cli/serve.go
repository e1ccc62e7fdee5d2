package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/osokin/tradegram/internal/broker"
	"github.com/osokin/tradegram/internal/chatmodel"
	"github.com/osokin/tradegram/internal/config"
	"github.com/osokin/tradegram/internal/debug"
	"github.com/osokin/tradegram/internal/history"
	"github.com/osokin/tradegram/internal/logging"
	"github.com/osokin/tradegram/internal/session"
	"github.com/osokin/tradegram/internal/telegram"
	"github.com/osokin/tradegram/internal/tools"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ValidateServe(); err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := debug.Init(ctx, cfg, logger); err != nil {
		return err
	}

	model, err := chatmodel.New(ctx, cfg)
	if err != nil {
		return err
	}

	store, err := history.Open(filepath.Join(cfg.DataDir, "history.db"))
	if err != nil {
		return err
	}
	defer store.Close()

	// The bot and the session manager reference each other: sessions push
	// out-of-band messages through the bot, the bot routes inbound
	// messages to sessions. The notify closure resolves the cycle.
	var bot *telegram.Bot
	notify := func(ctx context.Context, chatID int64, text string) error {
		if bot == nil {
			return fmt.Errorf("transport not ready")
		}
		return bot.Push(ctx, chatID, text)
	}

	sessions := session.NewManager(session.Config{
		Model: model,
		Tools: tools.Deps{
			Broker: broker.NewAlpacaClient(cfg),
			Quotes: tools.FetchQuote,
			News:   tools.NewNewsClient(""),
		},
		Notify:       notify,
		History:      store,
		HistoryDepth: cfg.HistoryDepth,
		MaxSteps:     cfg.MaxSteps,
		Logger:       logger,
	})

	bot, err = telegram.NewBot(cfg, sessions, logger)
	if err != nil {
		return err
	}

	logger.Info("serving", "allowed_chats", len(cfg.AllowedChatIDs), "model", cfg.ModelName)
	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("shutting down")
	return nil
}
