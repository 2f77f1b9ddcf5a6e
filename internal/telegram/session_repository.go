package telegram

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/generation"
)

// SessionTypeAuth is the session holding the user a chat is logged in as.
const SessionTypeAuth = "auth"

const sqliteTime = "2006-01-02 15:04:05"

// Session is a chat bound to a body-wise user until it expires.
type Session struct {
	ID          int64
	ChatID      int64
	SessionType string
	UserID      string
	ContextData string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// SessionContextData holds structured data stored in the context_data JSON field
type SessionContextData struct {
	Email       string                 `json:"email,omitempty"`
	Preferences generation.Preferences `json:"preferences"`
}

// GetContextData unmarshals the context_data JSON field
func (s *Session) GetContextData() (SessionContextData, error) {
	var data SessionContextData
	if s.ContextData == "" {
		return data, nil
	}
	err := json.Unmarshal([]byte(s.ContextData), &data)
	return data, err
}

// SessionRepository provides access to session persistence operations
type SessionRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSessionRepository creates a new SessionRepository instance
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

// Create stores a new session of sessionType for chatID, replacing the
// previous ones, and returns its ID.
func (sr *SessionRepository) Create(ctx context.Context, chatID int64, sessionType, userID string, data SessionContextData, expiresAt time.Time) (int64, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return 0, err
	}

	tx, err := sr.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin session transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM telegram_sessions WHERE chat_id = ? AND session_type = ?`,
		chatID, sessionType,
	); err != nil {
		return 0, fmt.Errorf("failed to replace session: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO telegram_sessions (chat_id, session_type, user_id, context_data, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		chatID, sessionType, userID, string(jsonData),
		expiresAt.UTC().Format(sqliteTime), sr.now().UTC().Format(sqliteTime),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// GetActive retrieves the most recent non-expired session of a chat, or nil.
func (sr *SessionRepository) GetActive(ctx context.Context, chatID int64, sessionType string) (*Session, error) {
	row := sr.db.QueryRowContext(ctx,
		`SELECT id, chat_id, session_type, user_id, context_data, expires_at, created_at
		 FROM telegram_sessions
		 WHERE chat_id = ? AND session_type = ? AND expires_at > ?
		 ORDER BY id DESC LIMIT 1`,
		chatID, sessionType, sr.now().UTC().Format(sqliteTime),
	)

	var (
		s                  Session
		expires, createdAt string
	)
	err := row.Scan(&s.ID, &s.ChatID, &s.SessionType, &s.UserID, &s.ContextData, &expires, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	s.ExpiresAt = parseSQLiteTime(expires)
	s.CreatedAt = parseSQLiteTime(createdAt)
	return &s, nil
}

// Update replaces the context_data of a session.
func (sr *SessionRepository) Update(ctx context.Context, sessionID int64, data SessionContextData) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := sr.db.ExecContext(ctx,
		`UPDATE telegram_sessions SET context_data = ? WHERE id = ?`,
		string(jsonData), sessionID,
	); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

// Delete removes every session of sessionType for chatID.
func (sr *SessionRepository) Delete(ctx context.Context, chatID int64, sessionType string) error {
	if _, err := sr.db.ExecContext(ctx,
		`DELETE FROM telegram_sessions WHERE chat_id = ? AND session_type = ?`,
		chatID, sessionType,
	); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// CleanupExpired removes all expired sessions.
func (sr *SessionRepository) CleanupExpired(ctx context.Context) (int64, error) {
	res, err := sr.db.ExecContext(ctx,
		`DELETE FROM telegram_sessions WHERE expires_at <= ?`,
		sr.now().UTC().Format(sqliteTime),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up sessions: %w", err)
	}
	return res.RowsAffected()
}

// parseSQLiteTime reads both the format written here and the RFC 3339 form
// the driver may hand back for DATETIME columns.
func parseSQLiteTime(s string) time.Time {
	for _, layout := range []string{sqliteTime, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}
