package store

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"smschat/pkg/domain"
)

// GormStore implements Store using GORM + SQLite.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens (creating if absent) the database file at path and runs
// auto-migrations. Migration is idempotent, so repeated startups are safe.
func NewGormStore(path string) (*GormStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("database path required")
	}
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on"
	}

	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&SessionModel{}, &MessageModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// SessionByPhone looks up the session owned by a phone number.
func (s *GormStore) SessionByPhone(phoneNumber string) (domain.Session, bool, error) {
	var model SessionModel
	if err := s.db.Where("phone_number = ?", phoneNumber).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Session{}, false, nil
		}
		return domain.Session{}, false, err
	}
	return sessionFromModel(model), true, nil
}

// CreateSession inserts a session for a phone number. The phone number carries
// a unique index; when a concurrent insert wins the race, the existing row is
// re-queried and returned instead of failing.
func (s *GormStore) CreateSession(phoneNumber string) (domain.Session, error) {
	model := SessionModel{
		PhoneNumber: phoneNumber,
		CreatedAt:   time.Now().UTC(),
	}
	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone_number"}},
		DoNothing: true,
	}).Create(&model)
	if res.Error != nil {
		return domain.Session{}, fmt.Errorf("create session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		existing, ok, err := s.SessionByPhone(phoneNumber)
		if err != nil {
			return domain.Session{}, err
		}
		if !ok {
			return domain.Session{}, fmt.Errorf("create session: conflict but no row for %q", phoneNumber)
		}
		return existing, nil
	}
	return sessionFromModel(model), nil
}

// AppendMessage records one conversation turn, committed immediately.
func (s *GormStore) AppendMessage(sessionID int64, role domain.MessageRole, content string) (domain.Message, error) {
	model := MessageModel{
		SessionID: sessionID,
		Role:      string(role),
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.Create(&model).Error; err != nil {
		return domain.Message{}, fmt.Errorf("append message: %w", err)
	}
	return messageFromModel(model), nil
}

// ListMessages returns the full transcript of a session in conversation
// order. Equal timestamps fall back to insertion (id) order.
func (s *GormStore) ListMessages(sessionID int64) ([]domain.Message, error) {
	var models []MessageModel
	if err := s.db.Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	msgs := make([]domain.Message, 0, len(models))
	for _, model := range models {
		msgs = append(msgs, messageFromModel(model))
	}
	return msgs, nil
}

// ClearMessages bulk-deletes a session's messages. Deleting zero rows is not
// an error; the session row itself is kept.
func (s *GormStore) ClearMessages(sessionID int64) error {
	return s.db.Delete(&MessageModel{}, "session_id = ?", sessionID).Error
}

func sessionFromModel(m SessionModel) domain.Session {
	return domain.Session{
		ID:          m.ID,
		PhoneNumber: m.PhoneNumber,
		CreatedAt:   m.CreatedAt,
	}
}

func messageFromModel(m MessageModel) domain.Message {
	return domain.Message{
		ID:        m.ID,
		SessionID: m.SessionID,
		Role:      domain.MessageRole(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}
