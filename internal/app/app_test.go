package app

import (
	"context"
	"strings"
	"testing"

	"smschat/pkg/ai"
	"smschat/pkg/domain"
	"smschat/pkg/store"
)

type stubGenerator struct {
	reply string
	err   error
	calls [][]ai.Turn
}

func (g *stubGenerator) Complete(_ context.Context, turns []ai.Turn) (string, error) {
	copied := make([]ai.Turn, len(turns))
	copy(copied, turns)
	g.calls = append(g.calls, copied)
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func newTestApp(t *testing.T, gen ai.TextGenerator) (*App, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	a, err := New(Config{Store: mem, Generator: gen})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a, mem
}

func TestEnsureSessionCreatesOnceAndReuses(t *testing.T) {
	a, _ := newTestApp(t, &stubGenerator{})

	first, err := a.EnsureSession("+15550001")
	if err != nil {
		t.Fatalf("ensure session: %v", err)
	}
	second, err := a.EnsureSession("+15550001")
	if err != nil {
		t.Fatalf("ensure session again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("second session ID = %d, want %d", second.ID, first.ID)
	}
}

func TestSendMessagePersistsBothTurns(t *testing.T) {
	gen := &stubGenerator{reply: "hello!"}
	a, mem := newTestApp(t, gen)

	if err := a.SendMessage(context.Background(), "+15550001", "hi"); err != nil {
		t.Fatalf("send message: %v", err)
	}

	session, _, err := a.Transcript("+15550001")
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	msgs, err := mem.ListMessages(session.ID)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("len(msgs) = %d, want 2", len(msgs))
	}
	if msgs[0].Role != domain.RoleUser || msgs[0].Content != "hi" {
		t.Fatalf("msgs[0] = %+v, want user:hi", msgs[0])
	}
	if msgs[1].Role != domain.RoleAssistant || msgs[1].Content != "hello!" {
		t.Fatalf("msgs[1] = %+v, want assistant:hello!", msgs[1])
	}

	if len(gen.calls) != 1 {
		t.Fatalf("generator calls = %d, want 1", len(gen.calls))
	}
	if len(gen.calls[0]) != 1 || gen.calls[0][0].Role != "user" || gen.calls[0][0].Content != "hi" {
		t.Fatalf("generator got %+v, want the pending user turn", gen.calls[0])
	}
}

func TestSendMessageForwardsFullHistoryOldestFirst(t *testing.T) {
	gen := &stubGenerator{reply: "ok"}
	a, _ := newTestApp(t, gen)

	for _, content := range []string{"one", "two"} {
		if err := a.SendMessage(context.Background(), "+15550001", content); err != nil {
			t.Fatalf("send %q: %v", content, err)
		}
	}

	if len(gen.calls) != 2 {
		t.Fatalf("generator calls = %d, want 2", len(gen.calls))
	}
	second := gen.calls[1]
	want := []ai.Turn{
		{Role: "user", Content: "one"},
		{Role: "assistant", Content: "ok"},
		{Role: "user", Content: "two"},
	}
	if len(second) != len(want) {
		t.Fatalf("second call turns = %d, want %d", len(second), len(want))
	}
	for i := range want {
		if second[i] != want[i] {
			t.Fatalf("turn[%d] = %+v, want %+v", i, second[i], want[i])
		}
	}
}

func TestSendMessageStoresErrorMarkerOnFailure(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"network", &ai.Error{Kind: ai.KindNetwork, Message: "request failed"}},
		{"auth", &ai.Error{Kind: ai.KindAuth, Message: "bad key"}},
		{"rate_limit", &ai.Error{Kind: ai.KindRateLimit, Message: "slow down"}},
		{"malformed", &ai.Error{Kind: ai.KindMalformedResponse, Message: "no choices"}},
		{"plain", context.DeadlineExceeded},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, mem := newTestApp(t, &stubGenerator{err: tc.err})

			if err := a.SendMessage(context.Background(), "+15550001", "hi"); err != nil {
				t.Fatalf("send message: %v", err)
			}

			_, msgs, err := a.Transcript("+15550001")
			if err != nil {
				t.Fatalf("transcript: %v", err)
			}
			if len(msgs) != 2 {
				t.Fatalf("len(msgs) = %d, want user turn plus error turn", len(msgs))
			}
			if msgs[0].Role != domain.RoleUser {
				t.Fatalf("msgs[0].Role = %q, want user", msgs[0].Role)
			}
			if msgs[1].Role != domain.RoleAssistant {
				t.Fatalf("msgs[1].Role = %q, want assistant", msgs[1].Role)
			}
			if !strings.HasPrefix(msgs[1].Content, "Error: ") {
				t.Fatalf("msgs[1].Content = %q, want Error: prefix", msgs[1].Content)
			}
			stored, err := mem.ListMessages(msgs[1].SessionID)
			if err != nil {
				t.Fatalf("list messages: %v", err)
			}
			if stored[1].Content != msgs[1].Content {
				t.Fatalf("stored error differs from transcript copy")
			}
		})
	}
}

func TestClearTranscriptIdempotent(t *testing.T) {
	a, _ := newTestApp(t, &stubGenerator{reply: "hello!"})

	if err := a.SendMessage(context.Background(), "+15550001", "hi"); err != nil {
		t.Fatalf("send message: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := a.ClearTranscript("+15550001"); err != nil {
			t.Fatalf("clear #%d: %v", i+1, err)
		}
		session, msgs, err := a.Transcript("+15550001")
		if err != nil {
			t.Fatalf("transcript after clear #%d: %v", i+1, err)
		}
		if len(msgs) != 0 {
			t.Fatalf("len(msgs) after clear #%d = %d, want 0", i+1, len(msgs))
		}
		if session.ID == 0 {
			t.Fatalf("session lost after clear #%d", i+1)
		}
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := New(Config{Generator: &stubGenerator{}}); err == nil {
		t.Fatalf("expected error for missing store")
	}
	if _, err := New(Config{Store: store.NewMemoryStore()}); err == nil {
		t.Fatalf("expected error for missing generator")
	}
}
