package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-auth-core/internal/application/auth"
	"github.com/go-auth-core/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthService struct {
	registerUser *domain.User
	registerErr  error
	loginResult  *auth.LoginResult
	loginErr     error
	logoutErr    error
	resetErr     error

	gotLogin  domain.LoginRequest
	gotLogout string
	gotReset  domain.ResetPasswordRequest
}

func (s *stubAuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	return s.registerUser, s.registerErr
}
func (s *stubAuthService) Login(ctx context.Context, req domain.LoginRequest) (*auth.LoginResult, error) {
	s.gotLogin = req
	return s.loginResult, s.loginErr
}
func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	s.gotLogout = token
	return s.logoutErr
}
func (s *stubAuthService) VerifyToken(ctx context.Context, token string) (*auth.Identity, error) {
	return nil, domain.ErrInvalidToken
}
func (s *stubAuthService) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	s.gotReset = req
	return s.resetErr
}

type stubResolver struct{ perms []string }

func (s *stubResolver) PermissionsFor(ctx context.Context, u *domain.User) ([]string, error) {
	return s.perms, nil
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestLoginHandler_Success(t *testing.T) {
	svc := &stubAuthService{loginResult: &auth.LoginResult{
		AccessToken: "tok",
		TokenType:   "bearer",
		ExpiresIn:   3600,
		User:        &domain.PublicUser{Email: "ok@example.com", Roles: []string{"staff"}},
	}}
	h := NewAuthHandler(svc, &stubResolver{})

	rec := postJSON(t, h.Login, `{"email":"ok@example.com","password":"Secret123!"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got LoginEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "tok", got.AccessToken)
	assert.Equal(t, "bearer", got.TokenType)
	assert.Equal(t, 3600, got.ExpiresIn)
	require.NotNil(t, got.User)
	assert.Equal(t, "ok@example.com", got.User.Email)
	assert.Equal(t, "ok@example.com", svc.gotLogin.Email)
}

func TestLoginHandler_BadCredentials(t *testing.T) {
	svc := &stubAuthService{loginErr: domain.ErrInvalidCredentials}
	h := NewAuthHandler(svc, &stubResolver{})

	rec := postJSON(t, h.Login, `{"email":"ok@example.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"Incorrect email or password"}`, rec.Body.String())
}

func TestLoginHandler_DisabledAccount(t *testing.T) {
	svc := &stubAuthService{loginErr: domain.ErrAccountDisabled}
	h := NewAuthHandler(svc, &stubResolver{})

	rec := postJSON(t, h.Login, `{"email":"off@example.com","password":"Secret123!"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"User account is disabled"}`, rec.Body.String())
}

func TestLoginHandler_RateLimited(t *testing.T) {
	svc := &stubAuthService{loginErr: &domain.RateLimitedError{RetryAfter: 42}}
	h := NewAuthHandler(svc, &stubResolver{})

	rec := postJSON(t, h.Login, `{"email":"ok@example.com","password":"Secret123!"}`)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"detail":"Rate limit exceeded. Try again in 42 seconds."}`, rec.Body.String())
}

func TestLoginHandler_MalformedBody(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubResolver{})
	rec := postJSON(t, h.Login, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginHandler_MissingFields(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubResolver{})
	rec := postJSON(t, h.Login, `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterHandler_Created(t *testing.T) {
	svc := &stubAuthService{registerUser: &domain.User{
		UserID: "u1", Email: "new@example.com", Enable: true, Roles: []string{},
	}}
	h := NewAuthHandler(svc, &stubResolver{})

	rec := postJSON(t, h.Register, `{"email":"new@example.com","password":"Secret123!","first_name":"Ada","last_name":"L"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got domain.PublicUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "new@example.com", got.Email)
	// The password hash never leaves the service.
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegisterHandler_Duplicate(t *testing.T) {
	svc := &stubAuthService{registerErr: domain.ErrConflict}
	h := NewAuthHandler(svc, &stubResolver{})

	rec := postJSON(t, h.Register, `{"email":"dup@example.com","password":"Secret123!","first_name":"A","last_name":"B"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogoutHandler_Success(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc, &stubResolver{})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Successfully logged out"}`, rec.Body.String())
	assert.Equal(t, "tok", svc.gotLogout)
}

func TestLogoutHandler_NoToken(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubResolver{})
	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutHandler_InvalidToken(t *testing.T) {
	svc := &stubAuthService{logoutErr: domain.ErrInvalidToken}
	h := NewAuthHandler(svc, &stubResolver{})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"Invalid token"}`, rec.Body.String())
}

func TestResetPasswordHandler_Success(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc, &stubResolver{})

	rec := postJSON(t, h.ResetPassword, `{"email":"ok@example.com","otp_code":"123456","new_password":"NewPass456!"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Password updated successfully"}`, rec.Body.String())
	assert.Equal(t, "123456", svc.gotReset.OTPCode)
}

func TestResetPasswordHandler_BadOTP(t *testing.T) {
	svc := &stubAuthService{resetErr: domain.ErrOTPInvalidCode}
	h := NewAuthHandler(svc, &stubResolver{})

	rec := postJSON(t, h.ResetPassword, `{"email":"ok@example.com","otp_code":"999999","new_password":"NewPass456!"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"Invalid OTP code"}`, rec.Body.String())
}
