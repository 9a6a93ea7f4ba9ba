package handler

import "net/http"

const livenessMessage = "Exchange rate sync service is running"

// Liveness godoc
// @Summary Liveness
// @Description Static confirmation used by platform health checks
// @Tags Health
// @Produce plain
// @Success 200 {string} string "Exchange rate sync service is running"
// @Router / [get]
func Liveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(livenessMessage))
}
