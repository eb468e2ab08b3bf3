package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-auth-core/internal/domain"
)

// MessageEnvelope is the generic success wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	ExpiresIn int    `json:"expires_in,omitempty"`
}

// ErrorEnvelope carries a user-visible failure description.
type ErrorEnvelope struct {
	Detail string `json:"detail"`
}

// LoginEnvelope wraps successful login responses.
type LoginEnvelope struct {
	AccessToken string             `json:"access_token"`
	TokenType   string             `json:"token_type"`
	ExpiresIn   int                `json:"expires_in"`
	User        *domain.PublicUser `json:"user"`
}

// MeEnvelope is the current-identity projection.
type MeEnvelope struct {
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorEnvelope{Detail: detail})
}

// writeDomainError maps a domain error to its HTTP status and user-visible
// detail. Authentication failures (401) and authorization failures (403)
// deliberately stay distinct: they have different remediation.
func writeDomainError(w http.ResponseWriter, err error) {
	var rl *domain.RateLimitedError
	if errors.As(err, &rl) {
		writeError(w, http.StatusTooManyRequests,
			fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", rl.RetryAfter))
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Incorrect email or password")
	case errors.Is(err, domain.ErrAccountDisabled):
		writeError(w, http.StatusUnauthorized, "User account is disabled")
	case errors.Is(err, domain.ErrTokenRevoked):
		writeError(w, http.StatusUnauthorized, "Token has been revoked")
	case errors.Is(err, domain.ErrExpiredToken):
		writeError(w, http.StatusUnauthorized, "Token has expired")
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrAudienceMismatch):
		writeError(w, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "Permission denied")
	case errors.Is(err, domain.ErrOTPNotFound):
		writeError(w, http.StatusBadRequest, "OTP not found or already used")
	case errors.Is(err, domain.ErrOTPExpired):
		writeError(w, http.StatusBadRequest, "OTP has expired")
	case errors.Is(err, domain.ErrOTPInvalidCode):
		writeError(w, http.StatusBadRequest, "Invalid OTP code")
	case errors.Is(err, domain.ErrOTPExhausted):
		writeError(w, http.StatusBadRequest, "Maximum OTP attempts exceeded")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
