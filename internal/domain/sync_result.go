package domain

import (
	"errors"
	"time"
)

type SyncStatus string

const (
	StatusSucceeded SyncStatus = "succeeded"
	StatusFailed    SyncStatus = "failed"
)

// SyncStage is the step a failed sync stopped at. Completed runs report StageIdle.
type SyncStage string

const (
	StageIdle       SyncStage = "idle"
	StageFetching   SyncStage = "fetching"
	StageDecoding   SyncStage = "decoding"
	StagePersisting SyncStage = "persisting"
)

type SyncResult struct {
	ExecID     string
	RateDate   time.Time
	Status     SyncStatus
	Stage      SyncStage
	Record     *ExchangeRateRecord
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

func (r SyncResult) Succeeded() bool { return r.Status == StatusSucceeded }

// StageOf maps a sync error to the stage that produced it.
func StageOf(err error) SyncStage {
	var fetchErr *FetchError
	var decodeErr *DecodeError
	var persistErr *PersistenceError
	switch {
	case err == nil:
		return StageIdle
	case errors.As(err, &fetchErr):
		return StageFetching
	case errors.As(err, &decodeErr):
		return StageDecoding
	case errors.As(err, &persistErr):
		return StagePersisting
	default:
		return StageIdle
	}
}
