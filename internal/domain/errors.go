package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrAccountDisabled    = errors.New("user account is disabled")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrAudienceMismatch   = errors.New("token audience or issuer mismatch")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrOTPNotFound        = errors.New("otp not found")
	ErrOTPExpired         = errors.New("otp has expired")
	ErrOTPInvalidCode     = errors.New("invalid otp code")
	ErrOTPExhausted       = errors.New("otp attempts exhausted")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrBadRequest         = errors.New("bad request")
	ErrStoreUnavailable   = errors.New("backing store unavailable")
)

// ErrRateLimited is the errors.Is match target for RateLimitedError.
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimitedError reports that a fixed-window quota was exceeded and how
// long the caller must wait for the window to reset.
type RateLimitedError struct {
	RetryAfter int // seconds until the window expires
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry in %ds", e.RetryAfter)
}

func (e *RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}
