package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"tipocambio/internal/adapters"
	"tipocambio/internal/domain"
)

type syncRunner interface {
	SyncToday(ctx context.Context) (domain.SyncResult, error)
}

type Handler struct {
	syncer  syncRunner
	journal adapters.SyncJournal
}

func NewSyncHandler(syncer syncRunner, journal adapters.SyncJournal) *Handler {
	return &Handler{syncer: syncer, journal: journal}
}

type errorResponse struct {
	Error string `json:"error"`
}

// SyncResultResponse is the public view of a sync outcome.
type SyncResultResponse struct {
	ExecID     string    `json:"exec_id" example:"77b5d9f5-0569-47e3-aee2-f659d59fbd97"`
	Date       string    `json:"date" example:"2024-05-01"`
	Status     string    `json:"status" example:"succeeded"`
	Stage      string    `json:"stage,omitempty" example:"fetching"`
	Error      string    `json:"error,omitempty" example:"fetch failed: unexpected status 500 Internal Server Error"`
	BuyPrice   *float64  `json:"precio_compra,omitempty" example:"3.75"`
	SellPrice  *float64  `json:"precio_venta,omitempty" example:"3.8"`
	Currency   string    `json:"moneda,omitempty" example:"USD"`
	StartedAt  time.Time `json:"started_at" example:"2024-05-01T07:00:00-05:00"`
	FinishedAt time.Time `json:"finished_at" example:"2024-05-01T07:00:01-05:00"`
}

func toResponse(res domain.SyncResult) SyncResultResponse {
	out := SyncResultResponse{
		ExecID:     res.ExecID,
		Date:       res.RateDate.Format(domain.DateLayout),
		Status:     string(res.Status),
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
	}
	if res.Err != nil {
		out.Stage = string(res.Stage)
		out.Error = res.Err.Error()
	}
	if res.Record != nil {
		buy, sell := res.Record.BuyPrice, res.Record.SellPrice
		out.BuyPrice = &buy
		out.SellPrice = &sell
		out.Currency = res.Record.Currency
	}
	return out
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	writeJSON(w, statusCode, errorResponse{Error: errorMsg})
}
