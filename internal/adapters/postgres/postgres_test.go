package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"tipocambio/internal/adapters/postgres"
	"tipocambio/internal/domain"
	"tipocambio/internal/platform/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	tcpg "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	pgSetupOnce sync.Once

	pgContainer *tcpg.PostgresContainer
	pgConnStr   string
)

func TestMain(m *testing.M) {
	code := m.Run()
	if pgContainer != nil {
		_ = pgContainer.Terminate(context.Background())
	}
	os.Exit(code)
}

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pgSetupOnce.Do(func() {
		startPostgres(t)
	})

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, pgConnStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	_, err = pool.Exec(ctx, `truncate table tipo_cambio restart identity`)
	require.NoError(t, err)

	return pool
}

func startPostgres(t *testing.T) {
	ctx := context.Background()
	pg, err := tcpg.Run(ctx,
		"postgres:16-alpine",
		tcpg.WithDatabase("postgres"),
		tcpg.WithUsername("postgres"),
		tcpg.WithPassword("postgres"),
	)
	require.NoError(t, err)

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	require.Eventually(t, func() bool {
		pingCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return pool.Ping(pingCtx) == nil
	}, 15*time.Second, 500*time.Millisecond)

	require.NoError(t, db.Migrate(ctx, pool))

	pgContainer = pg
	pgConnStr = dsn
}

func countRows(t *testing.T, pool *pgxpool.Pool) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(context.Background(), `select count(*) from tipo_cambio`).Scan(&n))
	return n
}

func TestExchangeRateRepository_InsertExchangeRate_Success(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewExchangeRateRepository(pool)
	ctx := context.Background()

	session, err := repo.Acquire(ctx)
	require.NoError(t, err)
	defer session.Release()

	lima := time.FixedZone("PET", -5*60*60)
	record := domain.ExchangeRateRecord{
		BuyPrice:  3.75,
		SellPrice: 3.80,
		Currency:  "USD",
		RateDate:  time.Date(2024, time.May, 1, 7, 0, 0, 0, lima),
	}
	require.NoError(t, session.InsertExchangeRate(ctx, record))

	var (
		buy, sell float64
		moneda    string
		fecha     time.Time
	)
	err = pool.QueryRow(ctx, `select precio_compra, precio_venta, moneda, fecha from tipo_cambio`).Scan(&buy, &sell, &moneda, &fecha)
	require.NoError(t, err)
	require.Equal(t, 3.75, buy)
	require.Equal(t, 3.80, sell)
	require.Equal(t, "USD", moneda)
	require.Equal(t, "2024-05-01", fecha.Format(domain.DateLayout))
	require.Equal(t, 1, countRows(t, pool))
}

func TestExchangeRateRepository_Release_ReturnsConnection(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewExchangeRateRepository(pool)
	ctx := context.Background()

	before := pool.Stat().AcquiredConns()

	session, err := repo.Acquire(ctx)
	require.NoError(t, err)
	require.Equal(t, before+1, pool.Stat().AcquiredConns())

	session.Release()
	session.Release() // second release must not panic or double-release

	require.Equal(t, before, pool.Stat().AcquiredConns())
}

func TestExchangeRateRepository_InsertAfterRelease_Error(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewExchangeRateRepository(pool)
	ctx := context.Background()

	session, err := repo.Acquire(ctx)
	require.NoError(t, err)
	session.Release()

	err = session.InsertExchangeRate(ctx, domain.ExchangeRateRecord{Currency: "USD", RateDate: time.Now()})
	require.ErrorContains(t, err, "session already released")
	require.Equal(t, 0, countRows(t, pool))
}

func TestExchangeRateRepository_InsertExchangeRate_DBError(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewExchangeRateRepository(pool)

	session, err := repo.Acquire(context.Background())
	require.NoError(t, err)
	defer session.Release()

	// moneda is varchar(3), a longer code violates the column type.
	err = session.InsertExchangeRate(context.Background(), domain.ExchangeRateRecord{
		BuyPrice: 1, SellPrice: 1, Currency: "DOLLAR", RateDate: time.Now(),
	})
	require.Error(t, err)
	require.ErrorContains(t, err, "failed to insert exchange rate")
	require.Equal(t, 0, countRows(t, pool))
}

func TestExchangeRateRepository_Acquire_CanceledContext_Error(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewExchangeRateRepository(pool)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := repo.Acquire(ctx)
	require.Error(t, err)
	require.ErrorContains(t, err, "failed to acquire connection")
}

func TestExchangeRateRepository_InsertSameDateTwice_AlreadySynced(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewExchangeRateRepository(pool)
	ctx := context.Background()

	session, err := repo.Acquire(ctx)
	require.NoError(t, err)
	defer session.Release()

	morning := domain.ExchangeRateRecord{
		BuyPrice: 3.75, SellPrice: 3.80, Currency: "USD",
		RateDate: time.Date(2024, time.May, 1, 7, 0, 0, 0, time.UTC),
	}
	require.NoError(t, session.InsertExchangeRate(ctx, morning))

	// same calendar day, different time and prices
	later := morning
	later.BuyPrice, later.SellPrice = 3.76, 3.81
	later.RateDate = time.Date(2024, time.May, 1, 15, 30, 0, 0, time.UTC)
	err = session.InsertExchangeRate(ctx, later)
	require.ErrorIs(t, err, domain.ErrAlreadySynced)

	// another currency on the same date is a different row
	eur := morning
	eur.Currency = "EUR"
	require.NoError(t, session.InsertExchangeRate(ctx, eur))

	require.Equal(t, 2, countRows(t, pool))
}
