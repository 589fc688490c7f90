package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/msomdec/focusdoro/internal/domain"
	"github.com/msomdec/focusdoro/internal/service"
)

// TimerHandler handles timer and timer session HTTP requests.
type TimerHandler struct {
	timers *service.TimerService
}

// NewTimerHandler creates a new TimerHandler.
func NewTimerHandler(timers *service.TimerService) *TimerHandler {
	return &TimerHandler{timers: timers}
}

// HandleGet returns the user's timer document, creating it with defaults
// on first access.
// GET /api/timer
func (h *TimerHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	timer, err := h.timers.GetOrCreate(r.Context(), user.ID)
	if err != nil {
		slog.Error("get timer", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, toTimerDTO(timer))
}

// HandleUpdateSettings applies a partial settings update.
// PUT /api/timer/settings
// Request: any subset of {"workDuration":25,"shortBreakDuration":5,
// "longBreakDuration":15,"longBreakInterval":4,"autoStartBreaks":false,
// "autoStartPomodoros":false}
func (h *TimerHandler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		WorkDuration       *int  `json:"workDuration"`
		ShortBreakDuration *int  `json:"shortBreakDuration"`
		LongBreakDuration  *int  `json:"longBreakDuration"`
		LongBreakInterval  *int  `json:"longBreakInterval"`
		AutoStartBreaks    *bool `json:"autoStartBreaks"`
		AutoStartPomodoros *bool `json:"autoStartPomodoros"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	timer, err := h.timers.UpdateSettings(r.Context(), user.ID, service.SettingsPatch{
		WorkDuration:       req.WorkDuration,
		ShortBreakDuration: req.ShortBreakDuration,
		LongBreakDuration:  req.LongBreakDuration,
		LongBreakInterval:  req.LongBreakInterval,
		AutoStartBreaks:    req.AutoStartBreaks,
		AutoStartPomodoros: req.AutoStartPomodoros,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("update timer settings", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, toTimerDTO(timer))
}

// HandleStartSession opens a new timer session for a phase.
// POST /api/timer/session
// Request: {"type":"work"}
func (h *TimerHandler) HandleStartSession(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		Type string `json:"type"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	session, err := h.timers.StartSession(r.Context(), user.ID, domain.SessionType(req.Type))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("start timer session", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusCreated, toTimerSessionDTO(session))
}

// HandleCompleteSession completes (or skips) a session and applies the
// cycle transition.
// PUT /api/timer/session/{id}
// Request: {"skipped":false} (body optional)
// Response: {"timer": {...}, "session": {...}}
func (h *TimerHandler) HandleCompleteSession(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	sessionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid session id.")
		return
	}

	var req struct {
		Skipped bool `json:"skipped"`
	}
	// An empty body means a normal completion.
	_ = readJSON(r, &req)

	timer, session, err := h.timers.CompleteSession(r.Context(), user.ID, sessionID, req.Skipped)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found.")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("complete timer session", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"timer":   toTimerDTO(timer),
		"session": toTimerSessionDTO(session),
	})
}

// HandleListSessions returns the user's recent sessions.
// GET /api/timer/sessions?limit=50
func (h *TimerHandler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	sessions, err := h.timers.ListSessions(r.Context(), user.ID, limit)
	if err != nil {
		slog.Error("list timer sessions", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(sessions),
		"sessions": toTimerSessionDTOs(sessions),
	})
}
