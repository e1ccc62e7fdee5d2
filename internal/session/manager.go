package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/osokin/tradegram/internal/tools"
)

// NotifyFunc delivers an out-of-band message to a chat. The transport
// adapter provides it; each session binds its own chat id.
type NotifyFunc func(ctx context.Context, chatID int64, text string) error

// Config carries everything a Manager needs to build sessions.
type Config struct {
	Model        model.ToolCallingChatModel
	Tools        tools.Deps
	Notify       NotifyFunc
	History      TranscriptStore
	HistoryDepth int
	MaxSteps     int
	Logger       *slog.Logger
}

// Manager owns all live sessions, one per chat id. Sessions are created
// on first use and never evicted; the population is bounded by the chat
// allow-list.
type Manager struct {
	cfg Config

	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewManager(cfg Config) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.HistoryDepth <= 0 {
		cfg.HistoryDepth = 4
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = 40
	}
	return &Manager{
		cfg:      cfg,
		sessions: make(map[int64]*Session),
	}
}

// Get returns the session for the chat, creating it on first use. The
// whole lookup-or-create runs under the manager lock, so two concurrent
// first messages from the same chat resolve to the same session.
func (m *Manager) Get(ctx context.Context, chatID int64) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[chatID]; ok {
		return s, nil
	}

	push := func(ctx context.Context, text string) error {
		if m.cfg.Notify == nil {
			return fmt.Errorf("no notifier configured")
		}
		return m.cfg.Notify(ctx, chatID, text)
	}
	agent, err := newAgent(ctx, &m.cfg, push)
	if err != nil {
		return nil, fmt.Errorf("create session for chat %d: %w", chatID, err)
	}

	s := &Session{
		chatID:   chatID,
		agent:    agent,
		depth:    m.cfg.HistoryDepth,
		recorder: m.cfg.History,
		logger:   m.cfg.Logger,
		window:   m.restoreWindow(chatID),
	}
	m.sessions[chatID] = s
	m.cfg.Logger.Info("session created", "chat_id", chatID)
	return s, nil
}

// Send routes one message to the chat's session.
func (m *Manager) Send(ctx context.Context, chatID int64, text string) (string, error) {
	s, err := m.Get(ctx, chatID)
	if err != nil {
		return "", err
	}
	return s.Send(ctx, text)
}

// Reset clears the chat's context window and transcript, if a session
// exists.
func (m *Manager) Reset(chatID int64) error {
	m.mu.Lock()
	s, ok := m.sessions[chatID]
	m.mu.Unlock()
	if !ok {
		if m.cfg.History != nil {
			return m.cfg.History.Clear(chatID)
		}
		return nil
	}
	return s.Reset()
}

func (m *Manager) restoreWindow(chatID int64) []*schema.Message {
	if m.cfg.History == nil {
		return nil
	}
	stored, err := m.cfg.History.Recent(chatID, m.cfg.HistoryDepth*2)
	if err != nil {
		m.cfg.Logger.Warn("failed to restore transcript window", "chat_id", chatID, "error", err)
		return nil
	}
	window := make([]*schema.Message, 0, len(stored))
	for _, msg := range stored {
		switch msg.Role {
		case "user":
			window = append(window, schema.UserMessage(msg.Content))
		case "assistant":
			window = append(window, schema.AssistantMessage(msg.Content, nil))
		}
	}
	return window
}
