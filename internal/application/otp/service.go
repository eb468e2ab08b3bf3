package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-auth-core/internal/domain"
	redisinfra "github.com/go-auth-core/internal/infrastructure/redis"
	"github.com/go-auth-core/internal/pkg/code"
	"github.com/go-auth-core/internal/ratelimit"
)

// Key shape shared with any client inspecting store state.
func recordKey(email, purpose string) string {
	return fmt.Sprintf("otp:%s:%s", email, purpose)
}

type SendResult struct {
	ExpiresIn int // seconds until the code expires
}

// Service drives the one-time-code state machine per (email, purpose):
// absent -> issued -> {verified, expired, exhausted}.
type Service interface {
	Send(ctx context.Context, req domain.SendOTPRequest) (*SendResult, error)
	Verify(ctx context.Context, email, purpose, submitted string) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type service struct {
	kv          redisinfra.KV
	limiter     *ratelimit.Limiter
	userRepo    userStore
	mailer      mailer
	smsSender   smsSender
	lifetime    time.Duration
	codeLength  int
	maxAttempts int
}

type ServiceDeps struct {
	KV          redisinfra.KV
	Limiter     *ratelimit.Limiter
	UserRepo    userStore
	Mailer      mailer
	SMSSender   smsSender
	Lifetime    time.Duration
	CodeLength  int
	MaxAttempts int
}

func NewService(deps ServiceDeps) Service {
	return &service{
		kv:          deps.KV,
		limiter:     deps.Limiter,
		userRepo:    deps.UserRepo,
		mailer:      deps.Mailer,
		smsSender:   deps.SMSSender,
		lifetime:    deps.Lifetime,
		codeLength:  deps.CodeLength,
		maxAttempts: deps.MaxAttempts,
	}
}

// Send issues a fresh code for (email, purpose) and delivers it over the
// requested channel. Re-sending replaces any live record and resets its
// attempt counter. Sends are rate limited per email.
func (s *service) Send(ctx context.Context, req domain.SendOTPRequest) (*SendResult, error) {
	if req.Purpose == "" {
		req.Purpose = domain.OTPPurposeLogin
	}
	if req.Channel == "" {
		req.Channel = domain.OTPChannelEmail
	}

	if err := s.limiter.Check(ctx, req.Email); err != nil {
		return nil, err
	}

	otpCode, err := code.Numeric(s.codeLength)
	if err != nil {
		return nil, err
	}

	rec := domain.OTPRecord{
		Code:      otpCode,
		Email:     req.Email,
		Purpose:   req.Purpose,
		Attempts:  0,
		CreatedAt: time.Now().UTC(),
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal otp record: %w", err)
	}
	if err := s.kv.SetEx(ctx, recordKey(req.Email, req.Purpose), string(raw), s.lifetime); err != nil {
		return nil, fmt.Errorf("store otp record: %w", domain.ErrStoreUnavailable)
	}

	if err := s.deliver(ctx, req, otpCode); err != nil {
		return nil, err
	}
	return &SendResult{ExpiresIn: int(s.lifetime.Seconds())}, nil
}

func (s *service) deliver(ctx context.Context, req domain.SendOTPRequest, otpCode string) error {
	switch req.Channel {
	case domain.OTPChannelSMS:
		if s.smsSender == nil {
			return fmt.Errorf("sms delivery not configured: %w", domain.ErrBadRequest)
		}
		u, err := s.userRepo.GetByEmail(ctx, req.Email)
		if err != nil {
			return fmt.Errorf("user not found: %w", domain.ErrNotFound)
		}
		if u.Phone == nil {
			return fmt.Errorf("no phone number on account: %w", domain.ErrBadRequest)
		}
		return s.smsSender.SendSMS(ctx, *u.Phone, "Your verification code: "+otpCode)
	default:
		return s.mailer.SendEmail(req.Email, "Your one-time code", "Your verification code: "+otpCode)
	}
}

// Verify consumes a submitted code. The record is deleted on a match or
// when failed attempts reach the maximum; otherwise it stays live for
// further attempts. Expiry is enforced from the record's own created_at
// in addition to the store TTL, guarding against clock skew between the
// app and the store.
func (s *service) Verify(ctx context.Context, email, purpose, submitted string) error {
	if purpose == "" {
		purpose = domain.OTPPurposeLogin
	}
	key := recordKey(email, purpose)

	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no otp issued for %s: %w", email, domain.ErrOTPNotFound)
		}
		return fmt.Errorf("read otp record: %w", domain.ErrStoreUnavailable)
	}

	var rec domain.OTPRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return fmt.Errorf("corrupt otp record: %w", domain.ErrStoreUnavailable)
	}

	elapsed := time.Since(rec.CreatedAt)
	if elapsed > s.lifetime {
		return fmt.Errorf("otp issued %s ago: %w", elapsed.Round(time.Second), domain.ErrOTPExpired)
	}

	if rec.Code != submitted {
		rec.Attempts++
		if rec.Attempts >= s.maxAttempts {
			if err := s.kv.Del(ctx, key); err != nil {
				return fmt.Errorf("delete exhausted otp: %w", domain.ErrStoreUnavailable)
			}
			return fmt.Errorf("%d failed attempts: %w", rec.Attempts, domain.ErrOTPExhausted)
		}
		updated, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal otp record: %w", err)
		}
		if err := s.kv.SetEx(ctx, key, string(updated), s.lifetime-elapsed); err != nil {
			return fmt.Errorf("update otp attempts: %w", domain.ErrStoreUnavailable)
		}
		return fmt.Errorf("code mismatch: %w", domain.ErrOTPInvalidCode)
	}

	if err := s.kv.Del(ctx, key); err != nil {
		return fmt.Errorf("consume otp record: %w", domain.ErrStoreUnavailable)
	}
	return nil
}
