package repositories

import (
	"context"
	"database/sql"
	"errors"

	intconfig "resort/internal/config"
	"resort/internal/domain/models"
)

const messageColumns = `id, sender_id, recipient_id, content, is_read, created_at`

type MessageRepository struct {
	DB *sql.DB
}

func (r MessageRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func scanMessage(row interface{ Scan(...any) error }) (models.Message, error) {
	var (
		m         models.Message
		createdAt sql.NullTime
	)
	if err := row.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Content, &m.Read, &createdAt); err != nil {
		return models.Message{}, err
	}
	m.CreatedAt = createdAt.Time
	return m, nil
}

func (r MessageRepository) Create(ctx context.Context, m models.Message) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO messages (sender_id, recipient_id, content, is_read, created_at)
		VALUES (?, ?, ?, 0, NOW(3))
	`, m.SenderID, m.RecipientID, m.Content)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Thread returns every message exchanged between a and b, oldest first.
func (r MessageRepository) Thread(ctx context.Context, a, b int64) ([]models.Message, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE (sender_id=? AND recipient_id=?) OR (sender_id=? AND recipient_id=?)
		ORDER BY created_at ASC, id ASC
	`, a, b, b, a)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return out, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MarkRead flags unread messages from sender to recipient. Running it twice
// marks nothing the second time.
func (r MessageRepository) MarkRead(ctx context.Context, senderID, recipientID int64) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		UPDATE messages SET is_read=1
		WHERE sender_id=? AND recipient_id=? AND is_read=0
	`, senderID, recipientID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r MessageRepository) UnreadCount(ctx context.Context, recipientID int64) (int, error) {
	var n int
	err := r.db().QueryRowContext(ctx, `SELECT COUNT(*) FROM messages WHERE recipient_id=? AND is_read=0`, recipientID).Scan(&n)
	return n, err
}

func (r MessageRepository) UnreadFrom(ctx context.Context, senderID, recipientID int64) (int, error) {
	var n int
	err := r.db().QueryRowContext(ctx, `
		SELECT COUNT(*) FROM messages WHERE sender_id=? AND recipient_id=? AND is_read=0
	`, senderID, recipientID).Scan(&n)
	return n, err
}

// LastBetween returns the newest message of the pair; ok is false when they
// never exchanged one.
func (r MessageRepository) LastBetween(ctx context.Context, a, b int64) (models.Message, bool, error) {
	m, err := scanMessage(r.db().QueryRowContext(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE (sender_id=? AND recipient_id=?) OR (sender_id=? AND recipient_id=?)
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, a, b, b, a))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, false, nil
	}
	if err != nil {
		return models.Message{}, false, err
	}
	return m, true, nil
}
