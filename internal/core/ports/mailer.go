package ports

import "context"

// Mailer delivers one-time password-reset codes. A nil Mailer means mail
// delivery is unconfigured and the forgot-password flow must refuse service.
type Mailer interface {
	SendResetCode(ctx context.Context, to, code string) error
}
