package postgres

import (
	"context"

	"github.com/agribid/auction-engine/internal/auction/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationRepository implements domain.NotificationRepository on
// Postgres. Rows are insert-only except for the read flag.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Insert(ctx context.Context, n *domain.Notification) error {
	query := `
        INSERT INTO notifications (id, recipient_id, recipient_role, lot_id, notification_type, message, is_read, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := r.pool.Exec(ctx, query,
		n.ID,
		n.RecipientID,
		n.Role,
		n.LotID,
		n.Kind,
		n.Message,
		n.Read,
		n.CreatedAt,
	)
	return err
}

func (r *NotificationRepository) ListForRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]*domain.Notification, error) {
	query := `
        SELECT id, recipient_id, recipient_role, lot_id, notification_type, message, is_read, created_at
        FROM notifications
        WHERE recipient_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `
	rows, err := r.pool.Query(ctx, query, recipientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ns []*domain.Notification
	for rows.Next() {
		n := &domain.Notification{}
		err := rows.Scan(
			&n.ID,
			&n.RecipientID,
			&n.Role,
			&n.LotID,
			&n.Kind,
			&n.Message,
			&n.Read,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		ns = append(ns, n)
	}
	return ns, rows.Err()
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`, recipientID,
	).Scan(&count)
	return count, err
}

// MarkRead flips the read flag false->true. The WHERE clause on is_read
// makes the flip happen at most once.
func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND is_read = FALSE`, id,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM notifications WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, domain.ErrNotificationNotFound
	}
	return false, nil
}
