package postgres

import (
	"context"
	"errors"

	"github.com/agribid/auction-engine/internal/auction/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BidRepository implements domain.BidRepository on Postgres. The bids table
// is append-only; there is no update or delete path.
type BidRepository struct {
	pool *pgxpool.Pool
}

func NewBidRepository(pool *pgxpool.Pool) *BidRepository {
	return &BidRepository{pool: pool}
}

func (r *BidRepository) Insert(ctx context.Context, bid *domain.Bid) error {
	query := `
        INSERT INTO bids (id, lot_id, bidder_id, amount, status, placed_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := r.pool.Exec(ctx, query,
		bid.ID,
		bid.LotID,
		bid.BidderID,
		bid.Amount,
		bid.Status,
		bid.PlacedAt,
	)
	return err
}

func (r *BidRepository) HighestForLot(ctx context.Context, lotID uuid.UUID) (*domain.Bid, error) {
	query := `
        SELECT id, lot_id, bidder_id, amount, status, placed_at
        FROM bids
        WHERE lot_id = $1
        ORDER BY amount DESC
        LIMIT 1
    `
	bid := &domain.Bid{}
	err := r.pool.QueryRow(ctx, query, lotID).Scan(
		&bid.ID,
		&bid.LotID,
		&bid.BidderID,
		&bid.Amount,
		&bid.Status,
		&bid.PlacedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return bid, nil
}

func (r *BidRepository) CountDistinctBidders(ctx context.Context, lotID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT bidder_id) FROM bids WHERE lot_id = $1`, lotID,
	).Scan(&count)
	return count, err
}

func (r *BidRepository) BidderIDs(ctx context.Context, lotID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT bidder_id FROM bids WHERE lot_id = $1`, lotID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *BidRepository) ExistsForLot(ctx context.Context, lotID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bids WHERE lot_id = $1)`, lotID,
	).Scan(&exists)
	return exists, err
}
