package store

import "time"

// GORM models used for persistence.
type SessionModel struct {
	ID          int64     `gorm:"primaryKey"`
	PhoneNumber string    `gorm:"uniqueIndex;not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

type MessageModel struct {
	ID        int64        `gorm:"primaryKey"`
	SessionID int64        `gorm:"not null;index"`
	Session   SessionModel `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	Role      string       `gorm:"not null"`
	Content   string       `gorm:"type:text;not null"`
	CreatedAt time.Time    `gorm:"not null;index"`
}
