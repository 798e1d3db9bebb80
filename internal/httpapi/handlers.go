package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"newsroom/internal/domain"
	"newsroom/internal/ports"
	"newsroom/internal/subscriber"
)

// SubscriptionService is the slice of the subscriber lifecycle the handlers need.
type SubscriptionService interface {
	Subscribe(ctx context.Context, email, name string) (*domain.Subscriber, error)
	Confirm(ctx context.Context, token string) (*domain.Subscriber, error)
	Unsubscribe(ctx context.Context, email string) error
}

// Handlers holds the HTTP endpoint implementations.
type Handlers struct {
	subs    SubscriptionService
	contact ports.ContactRepository
	logger  *slog.Logger
}

// NewHandlers wires the services.
func NewHandlers(subs SubscriptionService, contact ports.ContactRepository, logger *slog.Logger) *Handlers {
	return &Handlers{subs: subs, contact: contact, logger: logger}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type subscribeRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type confirmRequest struct {
	Token string `json:"token"`
}

type unsubscribeRequest struct {
	Email string `json:"email"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Contact stores a contact form submission.
func (h *Handlers) Contact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "name, email, and message are required")
		return
	}

	msg := domain.ContactMessage{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.contact.SaveMessage(r.Context(), msg); err != nil {
		h.logger.Error("save contact message failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not store message")
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "ok", Message: "thanks, we'll be in touch"})
}

// Subscribe creates or resets a newsletter subscription.
func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sub, err := h.subs.Subscribe(r.Context(), req.Email, req.Name)
	if errors.Is(err, subscriber.ErrInvalidEmail) {
		writeError(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if err != nil {
		h.logger.Error("subscribe failed", "error", err)
		writeError(w, http.StatusInternalServerError, "subscription failed")
		return
	}

	if sub.Eligible() {
		writeJSON(w, http.StatusOK, statusResponse{Status: "active", Message: "already subscribed"})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "pending_confirmation", Message: "check your inbox to confirm"})
}

// Confirm activates a pending subscription. The token arrives as a query
// parameter on GET (the email link) or a JSON body on POST.
func (h *Handlers) Confirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" && r.Method == http.MethodPost {
		var req confirmRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			token = req.Token
		}
	}

	sub, err := h.subs.Confirm(r.Context(), token)
	if errors.Is(err, subscriber.ErrTokenNotFound) {
		writeError(w, http.StatusNotFound, "unknown or expired confirmation token")
		return
	}
	if err != nil {
		h.logger.Error("confirm failed", "error", err)
		writeError(w, http.StatusInternalServerError, "confirmation failed")
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "active", Message: "subscription confirmed for " + sub.Email})
}

// Unsubscribe deactivates a subscription. Accepts the email as a query
// parameter (the unsubscribe link) or a JSON body.
func (h *Handlers) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" && r.Method == http.MethodPost {
		var req unsubscribeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			email = req.Email
		}
	}

	if err := h.subs.Unsubscribe(r.Context(), email); err != nil {
		if errors.Is(err, subscriber.ErrInvalidEmail) {
			writeError(w, http.StatusBadRequest, "invalid email address")
			return
		}
		h.logger.Error("unsubscribe failed", "error", err)
		writeError(w, http.StatusInternalServerError, "unsubscribe failed")
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "ok", Message: "you have been unsubscribed"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
