package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/focusdoro/internal/domain"
	"github.com/msomdec/focusdoro/internal/service"
)

// SubscriptionHandler handles subscription HTTP requests.
type SubscriptionHandler struct {
	subs *service.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subs *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subs: subs}
}

// HandleStatus answers the entitlement query.
// GET /api/subscription/status
func (h *SubscriptionHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	info, err := h.subs.Status(r.Context(), user.ID)
	if err != nil {
		slog.Error("subscription status", "error", err)
		writeError(w, http.StatusInternalServerError, "Error checking subscription status.")
		return
	}

	writeJSON(w, http.StatusOK, toSubscriptionStatusDTO(info))
}

// HandleSubscribe creates or replaces the user's subscription.
// POST /api/subscription
// Request: {"plan":"premium","paymentId":"..."}
func (h *SubscriptionHandler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		Plan      string `json:"plan"`
		PaymentID string `json:"paymentId"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	sub, err := h.subs.Subscribe(r.Context(), user.ID, domain.Plan(req.Plan), req.PaymentID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("subscribe", "error", err)
		writeError(w, http.StatusInternalServerError, "Error updating subscription.")
		return
	}

	writeJSON(w, http.StatusOK, toSubscriptionDTO(sub))
}

// HandleCancel cancels the user's subscription with immediate effect.
// POST /api/subscription/cancel
func (h *SubscriptionHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	sub, err := h.subs.Cancel(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No subscription found.")
			return
		}
		slog.Error("cancel subscription", "error", err)
		writeError(w, http.StatusInternalServerError, "Error cancelling subscription.")
		return
	}

	writeJSON(w, http.StatusOK, toSubscriptionDTO(sub))
}
