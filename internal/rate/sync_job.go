package rate

import (
	"context"
	"errors"
	"sync"
	"time"

	"tipocambio/internal/adapters"
	"tipocambio/internal/domain"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

const defaultSyncTimeout = 60 * time.Second

type SyncConfig struct {
	Currency string
	Location *time.Location
	// Timeout bounds one whole invocation, fetch and insert included. Zero means the default.
	Timeout time.Duration
	Clock   clockwork.Clock
}

// Syncer runs the daily fetch, transform and persist cycle.
type Syncer struct {
	client   adapters.RateClient
	store    adapters.RateStore
	journal  adapters.SyncJournal
	currency string
	location *time.Location
	timeout  time.Duration
	clock    clockwork.Clock

	// mu serializes invocations so the journal check in SyncToday and the insert it guards see the same state.
	mu sync.Mutex
}

func NewSyncer(cfg SyncConfig, client adapters.RateClient, store adapters.RateStore, journal adapters.SyncJournal) *Syncer {
	s := &Syncer{
		client:   client,
		store:    store,
		journal:  journal,
		currency: cfg.Currency,
		location: cfg.Location,
		timeout:  cfg.Timeout,
		clock:    cfg.Clock,
	}
	if s.currency == "" {
		s.currency = domain.DefaultCurrency
	}
	if s.location == nil {
		s.location = time.Local
	}
	if s.timeout <= 0 {
		s.timeout = defaultSyncTimeout
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	return s
}

// Today is the rate date a sync started now would record.
func (s *Syncer) Today() time.Time {
	return domain.TruncateToDay(s.clock.Now().In(s.location))
}

// Sync never panics on fetch, decode or persistence failures: they are logged and returned in the result.
func (s *Syncer) Sync(ctx context.Context) domain.SyncResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sync(ctx)
}

// SyncToday runs a sync unless today's rate is already journaled as stored,
// in which case it returns domain.ErrAlreadySynced without touching the API or the database.
func (s *Syncer) SyncToday(ctx context.Context) (domain.SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.journal != nil {
		if prev, ok := s.journal.Get(s.Today()); ok && prev.Succeeded() {
			return prev, domain.ErrAlreadySynced
		}
	}
	return s.sync(ctx), nil
}

func (s *Syncer) sync(ctx context.Context) domain.SyncResult {
	startedAt := s.clock.Now().In(s.location)
	res := domain.SyncResult{
		ExecID:    uuid.NewString(),
		RateDate:  domain.TruncateToDay(startedAt),
		Stage:     domain.StageIdle,
		StartedAt: startedAt,
	}

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	record, err := s.run(runCtx, res.RateDate)
	res.FinishedAt = s.clock.Now().In(s.location)

	log := logrus.WithFields(logrus.Fields{
		"exec_id": res.ExecID,
		"date":    res.RateDate.Format(domain.DateLayout),
	})
	if err != nil {
		res.Status = domain.StatusFailed
		res.Stage = domain.StageOf(err)
		res.Err = err
		log.WithError(err).WithField("stage", res.Stage).Error("Failed to fetch or store the exchange rate")
	} else {
		res.Status = domain.StatusSucceeded
		res.Record = &record
		log.WithFields(logrus.Fields{"compra": record.BuyPrice, "venta": record.SellPrice}).Info("✅ Exchange rate stored")
	}

	if s.journal != nil {
		s.journal.Record(res)
	}
	return res
}

func (s *Syncer) run(ctx context.Context, rateDate time.Time) (domain.ExchangeRateRecord, error) {
	var session adapters.RateSession
	// closing: runs on every exit path, only when a connection was taken
	defer func() {
		if session != nil {
			session.Release()
		}
	}()

	// STEP 1: fetching and decoding today's quote
	quote, err := s.client.GetDailyRate(ctx, rateDate.Format(domain.DateLayout))
	if err != nil {
		return domain.ExchangeRateRecord{}, classifyClientErr(err)
	}

	// STEP 2: mapping into the row shape
	record := domain.NewExchangeRateRecord(quote, s.currency, rateDate)

	// STEP 3: persisting through a connection scoped to this invocation
	session, err = s.store.Acquire(ctx)
	if err != nil {
		return domain.ExchangeRateRecord{}, &domain.PersistenceError{Op: domain.OpConnect, Err: err}
	}
	if err = session.InsertExchangeRate(ctx, record); err != nil {
		return domain.ExchangeRateRecord{}, &domain.PersistenceError{Op: domain.OpInsert, Err: err}
	}
	return record, nil
}

// classifyClientErr keeps typed client errors and treats anything else as a fetch failure.
func classifyClientErr(err error) error {
	var fetchErr *domain.FetchError
	var decodeErr *domain.DecodeError
	if errors.As(err, &fetchErr) || errors.As(err, &decodeErr) {
		return err
	}
	return &domain.FetchError{Err: err}
}
