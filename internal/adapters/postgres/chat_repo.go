package postgres

import (
	"context"

	"github.com/samirrijal/digitalshield/internal/core/domain"
)

// ChatRepo implements ports.ChatRepository with pgx.
type ChatRepo struct {
	db *DB
}

func NewChatRepo(db *DB) *ChatRepo {
	return &ChatRepo{db: db}
}

func (r *ChatRepo) Insert(ctx context.Context, m *domain.ChatMessage) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO chat_messages (id, session_id, user_id, is_user, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, m.ID, m.SessionID, nilIfEmpty(m.UserID), m.IsUser, m.Message, m.CreatedAt)
	return err
}

// ListBySession returns the last limit turns of a session, oldest first.
func (r *ChatRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id::text, session_id::text, COALESCE(user_id, ''), is_user, message, created_at
		FROM (
			SELECT * FROM chat_messages
			WHERE session_id = $1
			ORDER BY created_at DESC, is_user ASC
			LIMIT $2
		) recent
		ORDER BY created_at, is_user DESC
	`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []domain.ChatMessage{}
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.UserID, &m.IsUser, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
