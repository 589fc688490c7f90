package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/focusdoro/internal/domain"
	"github.com/msomdec/focusdoro/internal/service"
)

// StatisticsHandler handles statistics HTTP requests.
type StatisticsHandler struct {
	stats *service.StatisticsService
}

// NewStatisticsHandler creates a new StatisticsHandler.
func NewStatisticsHandler(stats *service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{stats: stats}
}

// HandleGet returns the user's cached statistics summary.
// GET /api/statistics
func (h *StatisticsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	stats, err := h.stats.Get(r.Context(), user.ID)
	if err != nil {
		slog.Error("get statistics", "error", err)
		writeError(w, http.StatusInternalServerError, "Error fetching statistics.")
		return
	}

	writeJSON(w, http.StatusOK, toStatisticsDTO(stats))
}

// HandleRecord records a completed session event.
// POST /api/statistics/record
// Request: {"type":"pomodoro","duration":25}
func (h *StatisticsHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		Type     string `json:"type"`
		Duration int    `json:"duration"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	stats, err := h.stats.Record(r.Context(), user.ID, req.Type, req.Duration)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("record statistics", "error", err)
		writeError(w, http.StatusInternalServerError, "Error recording pomodoro.")
		return
	}

	writeJSON(w, http.StatusOK, toStatisticsDTO(stats))
}
