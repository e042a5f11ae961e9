package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smschat/internal/util"
	"smschat/pkg/ai"
	"smschat/pkg/domain"
	"smschat/pkg/store"
)

// errorPrefix marks assistant messages that record a completion failure.
const errorPrefix = "Error: "

// Config holds dependencies for the core application.
type Config struct {
	Store     store.Store
	Generator ai.TextGenerator
}

// App wires storage and the completion client into the conversation flow.
type App struct {
	store     store.Store
	generator ai.TextGenerator
}

// New constructs the application service.
func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store required")
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("generator required")
	}
	return &App{store: cfg.Store, generator: cfg.Generator}, nil
}

// EnsureSession returns the session for a phone number, creating it on first
// contact. The storage layer resolves concurrent first contacts to one row.
func (a *App) EnsureSession(phoneNumber string) (domain.Session, error) {
	session, ok, err := a.store.SessionByPhone(phoneNumber)
	if err != nil {
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}
	if ok {
		return session, nil
	}
	session, err = a.store.CreateSession(phoneNumber)
	if err != nil {
		return domain.Session{}, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// Transcript returns the session and its messages in conversation order.
func (a *App) Transcript(phoneNumber string) (domain.Session, []domain.Message, error) {
	session, err := a.EnsureSession(phoneNumber)
	if err != nil {
		return domain.Session{}, nil, err
	}
	messages, err := a.store.ListMessages(session.ID)
	if err != nil {
		return domain.Session{}, nil, fmt.Errorf("list messages: %w", err)
	}
	return session, messages, nil
}

// SendMessage persists a user turn, asks the model for a reply over the full
// transcript, and persists the outcome. A completion failure is recorded as
// an assistant message carrying an "Error: " marker and is not returned to
// the caller; only storage failures make SendMessage fail.
func (a *App) SendMessage(ctx context.Context, phoneNumber, content string) error {
	session, err := a.EnsureSession(phoneNumber)
	if err != nil {
		return err
	}
	if _, err := a.store.AppendMessage(session.ID, domain.RoleUser, content); err != nil {
		return fmt.Errorf("save user message: %w", err)
	}

	messages, err := a.store.ListMessages(session.ID)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	turns := make([]ai.Turn, 0, len(messages))
	for _, msg := range messages {
		turns = append(turns, ai.Turn{Role: string(msg.Role), Content: msg.Content})
	}

	reply, genErr := a.generator.Complete(ctx, turns)
	if genErr != nil {
		util.LoggerFromContext(ctx).Warn("completion failed",
			"session_id", session.ID,
			"kind", completionKind(genErr),
			"err", genErr,
		)
		reply = failureMessage(genErr)
	}
	if _, err := a.store.AppendMessage(session.ID, domain.RoleAssistant, reply); err != nil {
		return fmt.Errorf("save assistant message: %w", err)
	}
	return nil
}

// ClearTranscript deletes all messages of the phone number's session. The
// session row is kept, and clearing an empty transcript is a no-op.
func (a *App) ClearTranscript(phoneNumber string) error {
	session, err := a.EnsureSession(phoneNumber)
	if err != nil {
		return err
	}
	if err := a.store.ClearMessages(session.ID); err != nil {
		return fmt.Errorf("clear messages: %w", err)
	}
	return nil
}

// failureMessage renders a completion error as stored assistant content. The
// "Error: " prefix is part of the stored contract; the rest varies by kind.
func failureMessage(err error) string {
	var aiErr *ai.Error
	if errors.As(err, &aiErr) {
		switch aiErr.Kind {
		case ai.KindNetwork:
			return errorPrefix + "the completion service could not be reached"
		case ai.KindAuth:
			return errorPrefix + "the completion service rejected the credentials"
		case ai.KindRateLimit:
			return errorPrefix + "the completion service is rate limiting requests, try again shortly"
		case ai.KindMalformedResponse:
			return errorPrefix + "the completion service returned an unusable response"
		}
		if msg := strings.TrimSpace(aiErr.Message); msg != "" {
			return errorPrefix + msg
		}
	}
	return errorPrefix + err.Error()
}

func completionKind(err error) string {
	var aiErr *ai.Error
	if errors.As(err, &aiErr) {
		return aiErr.Kind.String()
	}
	return ai.KindUnknown.String()
}
