package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/agribid/auction-engine/internal/auction/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuctionResultRepository implements domain.AuctionResultRepository on
// Postgres.
type AuctionResultRepository struct {
	pool *pgxpool.Pool
}

func NewAuctionResultRepository(pool *pgxpool.Pool) *AuctionResultRepository {
	return &AuctionResultRepository{pool: pool}
}

func (r *AuctionResultRepository) Create(ctx context.Context, result *domain.AuctionResult) error {
	query := `
        INSERT INTO auction_results (lot_id, winner_id, winning_amount, confirmation_status, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err := r.pool.Exec(ctx, query,
		result.LotID,
		result.WinnerID,
		result.WinningAmount,
		result.Status,
		result.CreatedAt,
	)
	return err
}

func (r *AuctionResultRepository) GetByLot(ctx context.Context, lotID uuid.UUID) (*domain.AuctionResult, error) {
	query := `
        SELECT lot_id, winner_id, winning_amount, confirmation_status, created_at, confirmed_at
        FROM auction_results
        WHERE lot_id = $1
    `
	result := &domain.AuctionResult{}
	err := r.pool.QueryRow(ctx, query, lotID).Scan(
		&result.LotID,
		&result.WinnerID,
		&result.WinningAmount,
		&result.Status,
		&result.CreatedAt,
		&result.ConfirmedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrResultNotFound
		}
		return nil, err
	}
	return result, nil
}

// Confirm swaps UNCONFIRMED -> CONFIRMED; the status guard in the WHERE
// clause keeps the swap exactly-once.
func (r *AuctionResultRepository) Confirm(ctx context.Context, lotID uuid.UUID, at time.Time) (bool, error) {
	query := `
        UPDATE auction_results
        SET confirmation_status = $1, confirmed_at = $2
        WHERE lot_id = $3 AND confirmation_status = $4
    `
	tag, err := r.pool.Exec(ctx, query, domain.Confirmed, at, lotID, domain.Unconfirmed)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
