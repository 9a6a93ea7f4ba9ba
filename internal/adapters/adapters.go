package adapters

import (
	"context"
	"time"

	"tipocambio/internal/domain"
)

type RateClient interface {
	GetDailyRate(ctx context.Context, date string) (domain.DailyQuote, error)
}

// RateStore hands out connection-scoped sessions. Every acquired session must be released.
type RateStore interface {
	Acquire(ctx context.Context) (RateSession, error)
}

type RateSession interface {
	InsertExchangeRate(ctx context.Context, record domain.ExchangeRateRecord) error
	Release()
}

type SyncJournal interface {
	Record(result domain.SyncResult)
	Get(date time.Time) (domain.SyncResult, bool)
}
