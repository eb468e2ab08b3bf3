package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-auth-core/internal/application/otp"
	"github.com/go-auth-core/internal/domain"
	jwtinfra "github.com/go-auth-core/internal/infrastructure/jwt"
	"github.com/go-auth-core/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the email is unknown, so the
// response time does not reveal whether an account exists.
var dummyHash = func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("timing-equalizer"), bcrypt.DefaultCost)
	return h
}()

type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int // seconds
	User        *domain.PublicUser
}

// Identity is a resolved, still-valid token: the decoded claims plus the
// freshly re-fetched user behind them.
type Identity struct {
	Claims *jwtinfra.Claims
	User   *domain.User
}

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	VerifyToken(ctx context.Context, token string) (*Identity, error)
	ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type tokenCodec interface {
	Issue(subject, email string, ttl time.Duration) (string, error)
	Decode(token string) (*jwtinfra.Claims, error)
	Expiry() time.Duration
}

type revocationList interface {
	Revoke(ctx context.Context, jti string, remaining time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type service struct {
	userRepo userStore
	codec    tokenCodec
	revoked  revocationList
	otpSvc   otp.Service
}

type ServiceDeps struct {
	UserRepo userStore
	Codec    tokenCodec
	Revoked  revocationList
	OTPSvc   otp.Service
}

func NewService(deps ServiceDeps) Service {
	return &service{
		userRepo: deps.UserRepo,
		codec:    deps.Codec,
		revoked:  deps.Revoked,
		otpSvc:   deps.OTPSvc,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Roles:        []string{},
		Enable:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and issues a signed token. The error for an
// unknown email and for a wrong password is deliberately identical so the
// endpoint cannot be used for account enumeration.
func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error) {
	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		return nil, fmt.Errorf("login %s: %w", req.Email, domain.ErrInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("login %s: %w", req.Email, domain.ErrInvalidCredentials)
	}
	if !u.Enable {
		return nil, fmt.Errorf("login %s: %w", req.Email, domain.ErrAccountDisabled)
	}

	token, err := s.codec.Issue(u.UserID, u.Email, 0)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if err := s.userRepo.Update(ctx, u.UserID, map[string]interface{}{"last_login": time.Now().UTC()}); err != nil {
		slog.Warn("failed to persist last_login", "user_id", u.UserID, "err", err)
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.codec.Expiry().Seconds()),
		User:        u.Public(),
	}, nil
}

// Logout revokes the token's jti for its remaining lifetime. An
// already-expired token is rejected as invalid rather than revoked — there
// is nothing left to revoke. Revoking twice is harmless.
func (s *service) Logout(ctx context.Context, token string) error {
	claims, err := s.codec.Decode(token)
	if err != nil {
		if errors.Is(err, domain.ErrExpiredToken) {
			return fmt.Errorf("logout with expired token: %w", domain.ErrInvalidToken)
		}
		return err
	}
	return s.revoked.Revoke(ctx, claims.ID, claims.RemainingTTL(time.Now()))
}

// VerifyToken resolves a token to a live identity: decode, check the
// revocation list, then re-fetch the user so a token issued before an
// account was disabled stops working immediately.
//
// A revocation-store read failure rejects the token (fail-closed): a
// missing veto must never be mistaken for a valid session.
func (s *service) VerifyToken(ctx context.Context, token string) (*Identity, error) {
	claims, err := s.codec.Decode(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		slog.Warn("revocation store unavailable, rejecting token", "jti", claims.ID, "err", err)
		return nil, fmt.Errorf("revocation check failed: %w", domain.ErrTokenRevoked)
	}
	if revoked {
		return nil, fmt.Errorf("jti %s: %w", claims.ID, domain.ErrTokenRevoked)
	}

	u, err := s.userRepo.Get(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("token subject %s: %w", claims.Subject, domain.ErrAccountDisabled)
	}
	if !u.Enable {
		return nil, fmt.Errorf("token subject %s: %w", claims.Subject, domain.ErrAccountDisabled)
	}

	return &Identity{Claims: claims, User: u}, nil
}

// ResetPassword consumes a password_reset OTP and replaces the user's
// password hash.
func (s *service) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	if err := s.otpSvc.Verify(ctx, req.Email, domain.OTPPurposePasswordReset, req.OTPCode); err != nil {
		return err
	}
	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.Update(ctx, u.UserID, map[string]interface{}{"password_hash": string(hash)})
}
