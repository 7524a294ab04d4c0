package ports

import (
	"context"

	"github.com/openshelf/digital-library/internal/core/domain"
)

// ProfilePatch is a partial profile update; nil fields are left untouched.
// Empty about/city values clear the field; an empty name is ignored.
type ProfilePatch struct {
	Name  *string
	About *string
	City  *string
}

// IdentityService covers account lifecycle, sessions, and password reset.
type IdentityService interface {
	// Signup creates an account and returns a signed session token bound to
	// (account id, email).
	Signup(ctx context.Context, email, password, name string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	// ForgotPassword issues a one-time reset code when the account exists.
	// It returns nil for unknown emails so callers can answer generically.
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*domain.User, error)
	UploadAvatar(ctx context.Context, userID string, image []byte, contentType string) (*domain.User, error)
}
