package domain

import "time"

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Session is the conversation thread bound to one phone number.
// It is created lazily on first contact and never updated afterwards.
type Session struct {
	ID          int64     `json:"id"`
	PhoneNumber string    `json:"phoneNumber"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Message is one conversation turn. Assistant content is stored as raw
// markdown; conversion to HTML happens at view time only.
type Message struct {
	ID        int64       `json:"id"`
	SessionID int64       `json:"sessionId"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
}
