package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/toldwithlove/toldwithlove/internal/billing"
	apperrors "github.com/toldwithlove/toldwithlove/internal/errors"
	"github.com/toldwithlove/toldwithlove/internal/store"
)

const maxStripeBody = 64 << 10

// Billing exposes the Stripe surface: the event webhook plus checkout and
// portal session creation.
type Billing struct {
	Service *billing.Service
	DB      *store.Store
}

// StripeWebhookHandler processes signed Stripe events.
func (h *Billing) StripeWebhookHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxStripeBody))
	if err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "Unable to read webhook body"))
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	if err := h.Service.HandleWebhook(r.Context(), body, signature); err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "Stripe event rejected"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]bool{"received": true})
}

type checkoutRequest struct {
	Email string `json:"email"`
	Plan  string `json:"plan"`
}

type sessionResponse struct {
	URL string `json:"url"`
}

// CheckoutHandler creates a subscription checkout session for a plan.
func (h *Billing) CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "Malformed checkout request"))
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		respondWithError(w, r, apperrors.NewValidationError("Email is required"))
		return
	}

	plan := billing.ParsePlan(req.Plan)
	if !plan.Paid() {
		respondWithError(w, r, apperrors.NewValidationError("Unknown or free plan: "+req.Plan))
		return
	}

	if h.DB != nil {
		if _, err := h.DB.EnsureUser(r.Context(), email, ""); err != nil {
			respondWithError(w, r, apperrors.WrapStorageError(r.Context(), err, "Unable to prepare user account"))
			return
		}
	}

	url, err := h.Service.NewCheckoutSession(email, plan)
	if err != nil {
		respondWithError(w, r, apperrors.WrapExternalService(r.Context(), err, "Unable to create checkout session"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(sessionResponse{URL: url})
}

type portalRequest struct {
	Email string `json:"email"`
}

// PortalHandler creates a billing portal session for a subscriber.
func (h *Billing) PortalHandler(w http.ResponseWriter, r *http.Request) {
	var req portalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "Malformed portal request"))
		return
	}

	if h.DB == nil {
		respondWithError(w, r, apperrors.NewStorageError("User store unavailable"))
		return
	}

	user, err := h.DB.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		respondWithError(w, r, apperrors.WrapStorageError(r.Context(), err, "Unable to look up user"))
		return
	}
	if user == nil || user.StripeCustomerID == "" {
		respondWithError(w, r, apperrors.NewNotFoundError("No subscription found for this email"))
		return
	}

	url, err := h.Service.NewPortalSession(user.StripeCustomerID)
	if err != nil {
		respondWithError(w, r, apperrors.WrapExternalService(r.Context(), err, "Unable to create portal session"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(sessionResponse{URL: url})
}
