package cli

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/osokin/tradegram/internal/broker"
	"github.com/osokin/tradegram/internal/chatmodel"
	"github.com/osokin/tradegram/internal/config"
	"github.com/osokin/tradegram/internal/history"
	"github.com/osokin/tradegram/internal/logging"
	"github.com/osokin/tradegram/internal/session"
	"github.com/osokin/tradegram/internal/tools"
)

// The chat command drives the same agent from the terminal, without
// Telegram. Handy for trying prompts before wiring a bot token.

const consoleChatID = 0

var (
	replyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	pushStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Italic(true)

	chatErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the trading agent in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat()
		},
	}
}

func runChat() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	model, err := chatmodel.New(ctx, cfg)
	if err != nil {
		return err
	}
	store, err := history.Open(filepath.Join(cfg.DataDir, "history.db"))
	if err != nil {
		return err
	}
	defer store.Close()

	sessions := session.NewManager(session.Config{
		Model: model,
		Tools: tools.Deps{
			Broker: broker.NewAlpacaClient(cfg),
			Quotes: tools.FetchQuote,
			News:   tools.NewNewsClient(""),
		},
		Notify: func(_ context.Context, _ int64, text string) error {
			fmt.Println(pushStyle.Render("[agent] " + text))
			return nil
		},
		History:      store,
		HistoryDepth: cfg.HistoryDepth,
		MaxSteps:     cfg.MaxSteps,
		Logger:       logger,
	})

	fmt.Println(replyStyle.Render("Connected. Type a message, 'reset' to clear history, 'exit' to quit."))

	for {
		var line string
		if err := survey.AskOne(&survey.Input{Message: ">"}, &line); err != nil {
			return nil
		}
		line = strings.TrimSpace(line)
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "reset":
			if err := sessions.Reset(consoleChatID); err != nil {
				fmt.Println(chatErrStyle.Render("error: " + err.Error()))
				continue
			}
			fmt.Println(replyStyle.Render("History cleared."))
			continue
		}

		reply, err := sessions.Send(ctx, consoleChatID, line)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Println(chatErrStyle.Render("error: " + err.Error()))
			continue
		}
		fmt.Println(replyStyle.Render(reply))
	}
}
