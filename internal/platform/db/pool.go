package db

import (
	"context"
	"fmt"

	"tipocambio/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationName = "tipocambio-sync"

// CreatePoolAndPing opens the pool the sync sessions are acquired from and checks the server is reachable.
func CreatePoolAndPing(ctx context.Context, cfg config.DbServer) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.GetConnectionStr())
	if err != nil {
		return nil, fmt.Errorf("invalid db config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.ConnConfig.RuntimeParams["application_name"] = applicationName

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping %s:%s/%s: %w", cfg.Host, cfg.Port, cfg.Name, err)
	}
	return pool, nil
}
