package cache

import (
	"fmt"
	"time"

	"tipocambio/internal/domain"

	"github.com/dgraph-io/ristretto"
)

// RistrettoSyncJournal keeps the latest sync outcome per rate date.
type RistrettoSyncJournal struct {
	cache *ristretto.Cache
}

func NewSyncJournal(maxItems int64) (*RistrettoSyncJournal, error) {
	if maxItems <= 0 {
		maxItems = 64
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create sync journal failed: %w", err)
	}
	return &RistrettoSyncJournal{cache: c}, nil
}

// Record stores the result under its rate date, replacing any earlier outcome for that date.
// The write is flushed before returning so that readers see it immediately.
func (j *RistrettoSyncJournal) Record(result domain.SyncResult) {
	j.cache.Set(toKey(result.RateDate), result, 1)
	j.cache.Wait()
}

func (j *RistrettoSyncJournal) Get(date time.Time) (domain.SyncResult, bool) {
	if v, ok := j.cache.Get(toKey(date)); ok {
		res, ok := v.(domain.SyncResult)
		return res, ok
	}
	return domain.SyncResult{}, false
}

func (j *RistrettoSyncJournal) Close() { j.cache.Close() }

func toKey(date time.Time) string { return date.Format(domain.DateLayout) }
