package telegram

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

type fakeConversations struct {
	mu     sync.Mutex
	sent   []string
	resets []int64
	reply  string
	err    error
}

func (f *fakeConversations) Send(_ context.Context, _ int64, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return f.reply, f.err
}

func (f *fakeConversations) Reset(chatID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, chatID)
	return nil
}

func newTestHandler(convs *fakeConversations, allowed ...int64) (*handler, *[]string) {
	replies := &[]string{}
	allowedSet := make(map[int64]bool)
	for _, id := range allowed {
		allowedSet[id] = true
	}
	h := &handler{
		allowed:  allowedSet,
		sessions: convs,
		reply: func(_ int64, text string) error {
			*replies = append(*replies, text)
			return nil
		},
		typing: func(int64) {},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return h, replies
}

func TestUnlistedChatIsSilentlyDropped(t *testing.T) {
	convs := &fakeConversations{reply: "should not happen"}
	h, replies := newTestHandler(convs, 100)

	h.handle(context.Background(), 999, false, "", "buy everything")

	if len(*replies) != 0 {
		t.Fatalf("unlisted chat must get no reply, got %v", *replies)
	}
	if len(convs.sent) != 0 {
		t.Fatal("unlisted chat must not reach the session manager")
	}
}

func TestFreeTextGoesToSession(t *testing.T) {
	convs := &fakeConversations{reply: "AAPL closed at 187.50"}
	h, replies := newTestHandler(convs, 100)

	h.handle(context.Background(), 100, false, "", "how did AAPL do")

	if len(convs.sent) != 1 || convs.sent[0] != "how did AAPL do" {
		t.Fatalf("unexpected session input: %v", convs.sent)
	}
	if len(*replies) != 1 || (*replies)[0] != "AAPL closed at 187.50" {
		t.Fatalf("unexpected reply: %v", *replies)
	}
}

func TestAgentErrorIsReported(t *testing.T) {
	convs := &fakeConversations{err: errors.New("model unavailable")}
	h, replies := newTestHandler(convs, 100)

	h.handle(context.Background(), 100, false, "", "hello")

	if len(*replies) != 1 || !strings.HasPrefix((*replies)[0], "error: ") {
		t.Fatalf("expected an error reply, got %v", *replies)
	}
}

func TestGetChatIDCommand(t *testing.T) {
	convs := &fakeConversations{}
	h, replies := newTestHandler(convs, 100)

	h.handle(context.Background(), 100, true, "get_chat_id", "/get_chat_id")

	if len(*replies) != 1 || !strings.Contains((*replies)[0], "100") {
		t.Fatalf("expected the chat id in the reply, got %v", *replies)
	}
}

func TestResetCommand(t *testing.T) {
	convs := &fakeConversations{}
	h, replies := newTestHandler(convs, 100)

	h.handle(context.Background(), 100, true, "reset", "/reset")

	if len(convs.resets) != 1 || convs.resets[0] != 100 {
		t.Fatalf("expected a reset for chat 100, got %v", convs.resets)
	}
	if len(*replies) != 1 {
		t.Fatalf("expected a confirmation reply, got %v", *replies)
	}
}

func TestEmptyTextIsIgnored(t *testing.T) {
	convs := &fakeConversations{}
	h, replies := newTestHandler(convs, 100)

	h.handle(context.Background(), 100, false, "", "   ")

	if len(convs.sent) != 0 || len(*replies) != 0 {
		t.Fatal("blank messages must be ignored")
	}
}
