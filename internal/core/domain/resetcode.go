package domain

import (
	"errors"
	"time"
)

// ResetCodeTTL is how long a password-reset code stays valid.
const ResetCodeTTL = 10 * time.Minute

var ErrResetCodeInvalid = errors.New("invalid or expired OTP")
var ErrResetCodeExpired = errors.New("OTP has expired")
var ErrMailNotConfigured = errors.New("email service is not configured")

// ResetCode is a one-time 6-digit code authorizing a password reset.
// At most one live code exists per email (upsert semantics).
type ResetCode struct {
	Email     string
	Code      string
	ExpiresAt time.Time
}

// Expired reports whether the code is past its expiry at the given instant.
func (r *ResetCode) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
