package store

import "smschat/pkg/domain"

// Store defines persistence operations for sessions and messages.
type Store interface {
	// sessions
	SessionByPhone(phoneNumber string) (domain.Session, bool, error)
	CreateSession(phoneNumber string) (domain.Session, error)

	// messages
	AppendMessage(sessionID int64, role domain.MessageRole, content string) (domain.Message, error)
	ListMessages(sessionID int64) ([]domain.Message, error)
	ClearMessages(sessionID int64) error
}
