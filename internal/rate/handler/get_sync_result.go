package handler

import (
	"net/http"
	"strings"
	"time"

	"tipocambio/internal/domain"

	"github.com/go-chi/chi/v5"
)

// GetSyncResult godoc
// @Summary Get sync outcome by date
// @Description Get the latest recorded outcome of the exchange rate sync for a date (YYYY-MM-DD)
// @Tags Sync
// @Produce json
// @Param date path string true "Rate date" example(2024-05-01)
// @Success 200 {object} SyncResultResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/v1/sync/{date} [get]
func (h *Handler) GetSyncResult(w http.ResponseWriter, r *http.Request) {
	rawDate := strings.TrimSpace(chi.URLParam(r, "date"))
	date, err := time.Parse(domain.DateLayout, rawDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return
	}

	res, ok := h.journal.Get(date)
	if !ok {
		writeError(w, http.StatusNotFound, domain.ErrSyncNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, toResponse(res))
}
