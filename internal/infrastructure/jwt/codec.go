package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-auth-core/internal/config"
	"github.com/go-auth-core/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims holds the JWT payload fields. Subject carries the user ID and
// ID (jti) is the random identifier used as the revocation key.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// RemainingTTL returns the time left until expiry, which can be negative
// for an already-expired token.
func (c *Claims) RemainingTTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Time.Sub(now)
}

// Codec signs and verifies HS256 JWTs. It is a pure function of the
// token, the signing secret, and the clock; it never touches a store.
type Codec struct {
	secret   []byte
	issuer   string
	audience string
	expiry   time.Duration
}

func NewCodec(cfg *config.Config) (*Codec, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	return &Codec{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		expiry:   time.Duration(cfg.JWTExpiryMinutes) * time.Minute,
	}, nil
}

// Expiry returns the configured token lifetime.
func (c *Codec) Expiry() time.Duration { return c.expiry }

// Issue produces a signed token for the given subject with a fresh jti,
// expiring at now + ttl. A ttl of 0 uses the configured expiry.
func (c *Codec) Issue(subject, email string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = c.expiry
	}
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies signature, issuer, audience, and expiry. It fails with
// domain.ErrExpiredToken when the token is past its expiry,
// domain.ErrAudienceMismatch on issuer/audience mismatch, and
// domain.ErrInvalidToken on any other signature or format problem.
func (c *Codec) Decode(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	},
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("decode token: %w", domain.ErrExpiredToken)
		case errors.Is(err, jwt.ErrTokenInvalidAudience), errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return nil, fmt.Errorf("decode token: %w", domain.ErrAudienceMismatch)
		default:
			return nil, fmt.Errorf("decode token: %w", domain.ErrInvalidToken)
		}
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("decode token claims: %w", domain.ErrInvalidToken)
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("token missing jti: %w", domain.ErrInvalidToken)
	}
	return claims, nil
}
