package db

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/agribid/auction-engine/internal/shared/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	dbPool *pgxpool.Pool
	once   sync.Once
)

// GetPostgresDBPool returns a singleton *pgxpool.Pool built from the database
// configuration. The pool is pinged before being handed out.
func GetPostgresDBPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	var err error
	once.Do(func() {
		poolCfg, cfgErr := pgxpool.ParseConfig(cfg.DSN())
		if cfgErr != nil {
			err = fmt.Errorf("failed to parse database config: %w", cfgErr)
			return
		}

		pool, connErr := pgxpool.NewWithConfig(ctx, poolCfg)
		if connErr != nil {
			err = fmt.Errorf("unable to connect to DB: %w", connErr)
			return
		}
		dbPool = pool
	})

	if err != nil {
		return nil, err
	}
	if dbPool == nil {
		return nil, errors.New("database pool was not initialized")
	}
	if pingErr := dbPool.Ping(ctx); pingErr != nil {
		return nil, fmt.Errorf("database pool ping failed: %w", pingErr)
	}

	return dbPool, nil
}
