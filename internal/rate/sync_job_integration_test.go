package rate_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"tipocambio/internal/adapters/cache"
	"tipocambio/internal/adapters/httpclient"
	"tipocambio/internal/adapters/postgres"
	"tipocambio/internal/domain"
	"tipocambio/internal/platform/db"
	"tipocambio/internal/rate"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
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
		ctx := context.Background()
		pg, err := tcpg.Run(ctx,
			"postgres:16-alpine",
			tcpg.WithDatabase("postgres"),
			tcpg.WithUsername("postgres"),
			tcpg.WithPassword("postgres"),
		)
		require.NoError(t, err)
		pgContainer = pg

		dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err)
		pgConnStr = dsn
	})

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, pgConnStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	require.Eventually(t, func() bool {
		pingCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return pool.Ping(pingCtx) == nil
	}, 15*time.Second, 500*time.Millisecond)

	require.NoError(t, db.Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `truncate table tipo_cambio restart identity`)
	require.NoError(t, err)
	return pool
}

func newEndToEndSyncer(t *testing.T, pool *pgxpool.Pool, apiURL string) (*rate.Syncer, *cache.RistrettoSyncJournal) {
	t.Helper()
	journal, err := cache.NewSyncJournal(16)
	require.NoError(t, err)
	t.Cleanup(journal.Close)

	lima := time.FixedZone("PET", -5*60*60)
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.May, 1, 7, 0, 0, 0, lima))
	client := httpclient.NewExchangeRateClient(&http.Client{Timeout: 5 * time.Second}, apiURL, "test-token")

	syncer := rate.NewSyncer(rate.SyncConfig{Location: lima, Clock: clock, Timeout: 10 * time.Second},
		client, postgres.NewExchangeRateRepository(pool), journal)
	return syncer, journal
}

func TestSync_EndToEnd_InsertsOneRow(t *testing.T) {
	pool := setupPostgres(t)

	var gotDate, gotAuth string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDate = r.URL.Query().Get("date")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"compra": 3.75, "venta": 3.80}`))
	}))
	t.Cleanup(api.Close)

	syncer, journal := newEndToEndSyncer(t, pool, api.URL)

	res := syncer.Sync(context.Background())
	require.True(t, res.Succeeded(), "sync failed: %v", res.Err)
	require.Equal(t, "2024-05-01", gotDate)
	require.Equal(t, "Bearer test-token", gotAuth)

	rows, err := pool.Query(context.Background(), `select precio_compra, precio_venta, moneda, fecha from tipo_cambio`)
	require.NoError(t, err)
	defer rows.Close()

	count := 0
	for rows.Next() {
		var (
			buy, sell float64
			moneda    string
			fecha     time.Time
		)
		require.NoError(t, rows.Scan(&buy, &sell, &moneda, &fecha))
		require.Equal(t, 3.75, buy)
		require.Equal(t, 3.80, sell)
		require.Equal(t, "USD", moneda)
		require.Equal(t, "2024-05-01", fecha.Format(domain.DateLayout))
		count++
	}
	require.NoError(t, rows.Err())
	require.Equal(t, 1, count)

	journaled, ok := journal.Get(res.RateDate)
	require.True(t, ok)
	require.Equal(t, res.ExecID, journaled.ExecID)
	require.Zero(t, pool.Stat().AcquiredConns())
}

func TestSync_EndToEnd_ServerError_NoRows(t *testing.T) {
	pool := setupPostgres(t)
	hook := logtest.NewGlobal()
	t.Cleanup(hook.Reset)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(api.Close)

	syncer, _ := newEndToEndSyncer(t, pool, api.URL)

	res := syncer.Sync(context.Background())
	require.False(t, res.Succeeded())
	require.Equal(t, domain.StageFetching, res.Stage)

	var n int
	require.NoError(t, pool.QueryRow(context.Background(), `select count(*) from tipo_cambio`).Scan(&n))
	require.Zero(t, n)

	errorEntries := 0
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.ErrorLevel {
			errorEntries++
			require.Equal(t, res.ExecID, entry.Data["exec_id"])
		}
	}
	require.Equal(t, 1, errorEntries)
	require.Zero(t, pool.Stat().AcquiredConns())
}

func TestSync_EndToEnd_MissingFields_NoRows(t *testing.T) {
	pool := setupPostgres(t)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"venta": 3.80}`))
	}))
	t.Cleanup(api.Close)

	syncer, _ := newEndToEndSyncer(t, pool, api.URL)

	res := syncer.Sync(context.Background())
	require.Equal(t, domain.StageDecoding, res.Stage)

	var n int
	require.NoError(t, pool.QueryRow(context.Background(), `select count(*) from tipo_cambio`).Scan(&n))
	require.Zero(t, n)
}
