package postgres

import (
	"context"
	"errors"
	"fmt"

	"tipocambio/internal/adapters"
	"tipocambio/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type ExchangeRateRepository struct {
	pool *pgxpool.Pool
}

// Acquire takes one connection out of the pool for the duration of a sync invocation.
func (r *ExchangeRateRepository) Acquire(ctx context.Context) (adapters.RateSession, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return &exchangeRateSession{conn: conn}, nil
}

func NewExchangeRateRepository(pool *pgxpool.Pool) *ExchangeRateRepository {
	return &ExchangeRateRepository{pool: pool}
}

type exchangeRateSession struct {
	conn *pgxpool.Conn
}

func (s *exchangeRateSession) InsertExchangeRate(ctx context.Context, record domain.ExchangeRateRecord) error {
	if s.conn == nil {
		return fmt.Errorf("session already released")
	}

	const q = `
		insert into tipo_cambio (precio_compra, precio_venta, moneda, fecha)
		values ($1, $2, $3, $4);
	`

	fecha := pgtype.Date{Time: domain.TruncateToDay(record.RateDate), Valid: true}
	if _, err := s.conn.Exec(ctx, q, record.BuyPrice, record.SellPrice, record.Currency, fecha); err != nil {
		// tipo_cambio_fecha_moneda_key holds one row per date and currency
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("exchange rate for %s: %w", record.RateDate.Format(domain.DateLayout), domain.ErrAlreadySynced)
		}
		return fmt.Errorf("failed to insert exchange rate for %s: %w", record.RateDate.Format(domain.DateLayout), err)
	}
	return nil
}

// Release returns the connection to the pool. Calling it more than once is a no-op.
func (s *exchangeRateSession) Release() {
	if s.conn == nil {
		return
	}
	s.conn.Release()
	s.conn = nil
}
