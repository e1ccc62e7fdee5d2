// Package session runs one long-lived trading agent per chat. Sessions
// are created lazily on first contact and live for the process lifetime.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"

	"github.com/osokin/tradegram/internal/history"
	"github.com/osokin/tradegram/internal/tools"
)

const systemInstruction = `You are a personal trading assistant operating a live brokerage account on behalf of your user.
You can look up option contracts, trade stocks and options, check the account, list open positions, check whether the market is open, fetch stock quotes and read company news.
Before buying or selling an option, find the exact contract with get_option_contract and confirm the contract ticker with the user.
Always state order ids after placing orders. Never invent fills or balances; report exactly what the tools return.
If a tool reports an error, tell the user what failed instead of retrying silently.
Use send_message_to_user when something important happens partway through handling a request.`

// Session is the conversational state of one chat: a react agent plus a
// bounded window of the recent transcript.
type Session struct {
	chatID int64
	agent  *react.Agent
	depth  int

	mu     sync.Mutex
	window []*schema.Message

	recorder TranscriptStore
	logger   *slog.Logger
}

// TranscriptStore persists transcript messages and rebuilds windows
// after a restart. *history.Store satisfies it.
type TranscriptStore interface {
	Append(chatID int64, role, content string) error
	Clear(chatID int64) error
	Recent(chatID int64, n int) ([]history.Message, error)
}

// Send runs one conversational turn. Turns within a session are
// serialized; concurrent messages from the same chat queue up.
func (s *Session) Send(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := make([]*schema.Message, 0, len(s.window)+2)
	msgs = append(msgs, schema.SystemMessage(systemInstruction))
	msgs = append(msgs, s.window...)
	msgs = append(msgs, schema.UserMessage(text))

	reply, err := s.agent.Generate(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("agent turn: %w", err)
	}

	s.window = append(s.window, schema.UserMessage(text), schema.AssistantMessage(reply.Content, nil))
	if max := s.depth * 2; len(s.window) > max {
		s.window = s.window[len(s.window)-max:]
	}
	s.record("user", text)
	s.record("assistant", reply.Content)

	return reply.Content, nil
}

// Reset drops the session's context window and persisted transcript.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window = nil
	if s.recorder != nil {
		return s.recorder.Clear(s.chatID)
	}
	return nil
}

func (s *Session) record(role, content string) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Append(s.chatID, role, content); err != nil {
		s.logger.Warn("failed to persist transcript message", "chat_id", s.chatID, "error", err)
	}
}

func newAgent(ctx context.Context, cfg *Config, push tools.PushFunc) (*react.Agent, error) {
	baseTools := tools.All(cfg.Tools)
	all := make([]tool.BaseTool, 0, len(baseTools)+1)
	all = append(all, baseTools...)
	all = append(all, tools.NewSendMessageTool(push))

	return react.NewAgent(ctx, &react.AgentConfig{
		MaxStep:          cfg.MaxSteps,
		ToolCallingModel: cfg.Model,
		ToolsConfig: compose.ToolsNodeConfig{
			Tools: all,
		},
	})
}
