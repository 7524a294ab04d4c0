package ports

import (
	"context"

	"github.com/openshelf/digital-library/internal/core/domain"
)

// ResetCodeRepository persists one-time password-reset codes. The store keeps
// at most one live code per email and auto-expires stale documents.
type ResetCodeRepository interface {
	// Upsert replaces any existing code for the email.
	Upsert(ctx context.Context, code *domain.ResetCode) error
	// Find returns domain.ErrResetCodeInvalid when no code exists.
	Find(ctx context.Context, email string) (*domain.ResetCode, error)
	Delete(ctx context.Context, email string) error
}
