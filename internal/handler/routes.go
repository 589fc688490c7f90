package handler

import (
	"net/http"

	"github.com/msomdec/focusdoro/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. Protected
// routes require a Bearer token; login and register are rate limited per
// client IP.
func RegisterRoutes(
	mux *http.ServeMux,
	auth *service.AuthService,
	timers *service.TimerService,
	stats *service.StatisticsService,
	subs *service.SubscriptionService,
	tasks *service.TaskService,
	limiter *service.TokenBucket,
) {
	authHandler := NewAuthHandler(auth)
	timerHandler := NewTimerHandler(timers)
	statsHandler := NewStatisticsHandler(stats)
	subHandler := NewSubscriptionHandler(subs)
	taskHandler := NewTaskHandler(tasks)

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.Handle("POST /api/auth/register", RateLimit(limiter, http.HandlerFunc(authHandler.HandleRegister)))
	mux.Handle("POST /api/auth/login", RateLimit(limiter, http.HandlerFunc(authHandler.HandleLogin)))
	mux.Handle("GET /api/auth/me", RequireAuth(auth, http.HandlerFunc(authHandler.HandleMe)))

	protected := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(auth, h)
	}

	mux.Handle("GET /api/timer", protected(timerHandler.HandleGet))
	mux.Handle("PUT /api/timer/settings", protected(timerHandler.HandleUpdateSettings))
	mux.Handle("POST /api/timer/session", protected(timerHandler.HandleStartSession))
	mux.Handle("PUT /api/timer/session/{id}", protected(timerHandler.HandleCompleteSession))
	mux.Handle("GET /api/timer/sessions", protected(timerHandler.HandleListSessions))

	mux.Handle("GET /api/statistics", protected(statsHandler.HandleGet))
	mux.Handle("POST /api/statistics/record", protected(statsHandler.HandleRecord))

	mux.Handle("GET /api/subscription/status", protected(subHandler.HandleStatus))
	mux.Handle("POST /api/subscription", protected(subHandler.HandleSubscribe))
	mux.Handle("POST /api/subscription/cancel", protected(subHandler.HandleCancel))

	mux.Handle("GET /api/tasks", protected(taskHandler.HandleList))
	mux.Handle("POST /api/tasks", protected(taskHandler.HandleCreate))
	mux.Handle("PUT /api/tasks/{id}", protected(taskHandler.HandleUpdate))
	mux.Handle("PUT /api/tasks/{id}/complete", protected(taskHandler.HandleToggleComplete))
	mux.Handle("DELETE /api/tasks/{id}", protected(taskHandler.HandleDelete))
}
