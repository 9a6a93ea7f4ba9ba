package handler

import (
	"context"
	"errors"
	"net/http"

	"tipocambio/internal/domain"

	"github.com/sirupsen/logrus"
)

// TriggerSync godoc
// @Summary Run the sync now
// @Description Fetch and store today's exchange rate immediately. Refused when today's rate is already stored.
// @Tags Sync
// @Produce json
// @Success 200 {object} SyncResultResponse
// @Failure 409 {object} errorResponse "already synced today"
// @Failure 500 {object} SyncResultResponse "persistence failure"
// @Failure 502 {object} SyncResultResponse "rate api failure"
// @Router /api/v1/sync [post]
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	logrus.WithField("handler", "TriggerSync").Info("Running exchange rate sync on demand")

	// the insert must not be abandoned halfway when the caller hangs up
	res, err := h.syncer.SyncToday(context.WithoutCancel(r.Context()))
	if errors.Is(err, domain.ErrAlreadySynced) || errors.Is(res.Err, domain.ErrAlreadySynced) {
		writeError(w, http.StatusConflict, domain.ErrAlreadySynced.Error())
		return
	}

	status := http.StatusOK
	if !res.Succeeded() {
		status = http.StatusInternalServerError
		if res.Stage == domain.StageFetching || res.Stage == domain.StageDecoding {
			status = http.StatusBadGateway
		}
	}
	writeJSON(w, status, toResponse(res))
}
