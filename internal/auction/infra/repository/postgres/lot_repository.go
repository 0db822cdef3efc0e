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

const lotColumns = `id, owner_id, category, breed, gender, age, weight, location, starting_price, auction_end, status, created_at, updated_at`

// LotRepository implements domain.LotRepository on Postgres.
type LotRepository struct {
	pool *pgxpool.Pool
}

func NewLotRepository(pool *pgxpool.Pool) *LotRepository {
	return &LotRepository{pool: pool}
}

func (r *LotRepository) Create(ctx context.Context, lot *domain.Lot) error {
	query := `
        INSERT INTO lots (id, owner_id, category, breed, gender, age, weight, location, starting_price, auction_end, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    `
	_, err := r.pool.Exec(ctx, query,
		lot.ID,
		lot.OwnerID,
		lot.Category,
		lot.Breed,
		lot.Gender,
		lot.Age,
		lot.Weight,
		lot.Location,
		lot.StartingPrice,
		lot.AuctionEnd,
		lot.Status,
		lot.CreatedAt,
		lot.UpdatedAt,
	)
	return err
}

func (r *LotRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1`

	lot, err := scanLot(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLotNotFound
		}
		return nil, err
	}
	return lot, nil
}

// UpdateStatus is the compare-and-swap used for every state transition. The
// WHERE clause on the current status makes redundant transitions report
// swapped=false instead of double-applying.
func (r *LotRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.LotStatus) (bool, error) {
	query := `
        UPDATE lots
        SET status = $1, updated_at = NOW()
        WHERE id = $2 AND status = $3
    `
	tag, err := r.pool.Exec(ctx, query, to, id, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *LotRepository) ListExpired(ctx context.Context, now time.Time) ([]*domain.Lot, error) {
	query := `
        SELECT ` + lotColumns + `
        FROM lots
        WHERE status = $1 AND auction_end <= $2
        ORDER BY auction_end ASC
    `
	rows, err := r.pool.Query(ctx, query, domain.StatusAvailable, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lots []*domain.Lot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, err
		}
		lots = append(lots, lot)
	}
	return lots, rows.Err()
}

func (r *LotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM lots WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLotNotFound
	}
	return nil
}

func scanLot(row pgx.Row) (*domain.Lot, error) {
	lot := &domain.Lot{}
	err := row.Scan(
		&lot.ID,
		&lot.OwnerID,
		&lot.Category,
		&lot.Breed,
		&lot.Gender,
		&lot.Age,
		&lot.Weight,
		&lot.Location,
		&lot.StartingPrice,
		&lot.AuctionEnd,
		&lot.Status,
		&lot.CreatedAt,
		&lot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return lot, nil
}
