package domain

import "time"

// OTP purposes accepted by the challenge service.
const (
	OTPPurposeLogin         = "login"
	OTPPurposePasswordReset = "password_reset"
)

// OTP delivery channels.
const (
	OTPChannelEmail = "email"
	OTPChannelSMS   = "sms"
)

// OTPRecord is stored JSON-serialized in the key-value store under
// "otp:{email}:{purpose}" with TTL equal to the configured OTP lifetime.
// Attempts counts failed verifications; the record is deleted on a
// successful verify or when attempts reach the configured maximum.
type OTPRecord struct {
	Code      string    `json:"code"`
	Email     string    `json:"email"`
	Purpose   string    `json:"purpose"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"created_at"`
}

type SendOTPRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Purpose string `json:"purpose" validate:"omitempty,oneof=login password_reset"`
	Channel string `json:"channel" validate:"omitempty,oneof=email sms"`
}

type VerifyOTPRequest struct {
	Email   string `json:"email" validate:"required,email"`
	OTPCode string `json:"otp_code" validate:"required"`
	Purpose string `json:"purpose" validate:"omitempty,oneof=login password_reset"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTPCode     string `json:"otp_code" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}
