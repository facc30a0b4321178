package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/whisperbox/whisperbox/internal/domain"
)

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

func (r *MessageRepository) Append(ctx context.Context, userID, content string) (*domain.Message, error) {
	query := `
		INSERT INTO messages (user_id, content)
		VALUES ($1, $2)
		RETURNING id, user_id, content, created_at`

	row := r.pool.QueryRow(ctx, query, userID, content)
	return scanMessage(row)
}

func (r *MessageRepository) ListByOwner(ctx context.Context, userID string) ([]*domain.Message, error) {
	// (created_at, id) DESC matches the composite index and keeps ties stable.
	query := `
		SELECT id, user_id, content, created_at
		FROM   messages
		WHERE  user_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []*domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// Delete is a single atomic statement; the user_id predicate doubles as the
// ownership check, so a foreign message id falls out as ErrMessageNotFound.
func (r *MessageRepository) Delete(ctx context.Context, userID, messageID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM messages WHERE id = $1 AND user_id = $2`, messageID, userID)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*domain.Message, error) {
	var m domain.Message
	err := row.Scan(&m.ID, &m.UserID, &m.Content, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, fmt.Errorf("scan message: %w", err)
	}
	return &m, nil
}
