package postgres

import (
	"context"

	"github.com/agribid/auction-engine/internal/auction/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ForumRepository implements domain.ForumRepository on Postgres.
type ForumRepository struct {
	pool *pgxpool.Pool
}

func NewForumRepository(pool *pgxpool.Pool) *ForumRepository {
	return &ForumRepository{pool: pool}
}

func (r *ForumRepository) Insert(ctx context.Context, post *domain.ForumPost) error {
	query := `
        INSERT INTO forum_posts (id, lot_id, author_id, parent_id, message, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := r.pool.Exec(ctx, query,
		post.ID,
		post.LotID,
		post.AuthorID,
		post.ParentID,
		post.Message,
		post.CreatedAt,
	)
	return err
}

func (r *ForumRepository) ListForLot(ctx context.Context, lotID uuid.UUID) ([]*domain.ForumPost, error) {
	query := `
        SELECT id, lot_id, author_id, parent_id, message, created_at
        FROM forum_posts
        WHERE lot_id = $1
        ORDER BY created_at ASC
    `
	rows, err := r.pool.Query(ctx, query, lotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*domain.ForumPost
	for rows.Next() {
		post := &domain.ForumPost{}
		err := rows.Scan(
			&post.ID,
			&post.LotID,
			&post.AuthorID,
			&post.ParentID,
			&post.Message,
			&post.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}
