package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/openshelf/digital-library/internal/core/domain"
	"github.com/openshelf/digital-library/internal/core/ports"
)

// maxAvatarSize caps avatar uploads at 5 MB.
const maxAvatarSize = 5 << 20

// IdentityService implements account lifecycle, sessions, and password reset.
type IdentityService struct {
	users     ports.UserRepository
	codes     ports.ResetCodeRepository
	blob      ports.BlobStore
	mailer    ports.Mailer
	jwtSecret string
	tokenTTL  time.Duration
	metrics   ports.IdentityMetrics
	logger    zerolog.Logger
}

// NewIdentityService wires the identity flows. mailer may be nil when SMTP is
// unconfigured; the forgot-password flow then refuses service. A nil metrics
// recorder disables instrumentation.
func NewIdentityService(users ports.UserRepository, codes ports.ResetCodeRepository, blob ports.BlobStore, mailer ports.Mailer, jwtSecret string, tokenTTL time.Duration, metrics ports.IdentityMetrics, logger zerolog.Logger) *IdentityService {
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	if metrics == nil {
		metrics = nopIdentityMetrics{}
	}
	return &IdentityService{
		users:     users,
		codes:     codes,
		blob:      blob,
		mailer:    mailer,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		metrics:   metrics,
		logger:    logger,
	}
}

func (s *IdentityService) Signup(ctx context.Context, email, password, name string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || strings.TrimSpace(password) == "" || name == "" {
		return "", nil, domain.NewValidationError("email, password, and name are required")
	}
	if len(password) < domain.MinPasswordLength {
		return "", nil, domain.NewValidationError("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return "", nil, err
	}

	token, err := s.signToken(created)
	if err != nil {
		return "", nil, err
	}

	s.metrics.AccountCreated()
	s.logger.Info().Str("user_id", created.ID).Msg("account created")
	return token, created, nil
}

// Login verifies the credentials and issues a session token. Any mismatch
// yields the same generic error so account existence is never leaked.
func (s *IdentityService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return "", nil, domain.NewValidationError("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.metrics.LoginFailed()
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.metrics.LoginFailed()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.signToken(user)
	if err != nil {
		return "", nil, err
	}

	s.metrics.LoginSucceeded()
	return token, user, nil
}

func (s *IdentityService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// ForgotPassword upserts a one-time reset code and emails it. Unknown emails
// return nil so the HTTP layer can answer generically; only the mail-service
// configuration and delivery failures surface as errors.
func (s *IdentityService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return domain.NewValidationError("email is required")
	}
	if s.mailer == nil {
		return domain.ErrMailNotConfigured
	}

	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	code := generateResetCode()
	reset := &domain.ResetCode{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().UTC().Add(domain.ResetCodeTTL),
	}
	if err := s.codes.Upsert(ctx, reset); err != nil {
		return err
	}

	if err := s.mailer.SendResetCode(ctx, email, code); err != nil {
		s.logger.Error().Err(err).Msg("failed to send reset code email")
		return fmt.Errorf("send reset code: %w", err)
	}

	s.logger.Info().Str("email", email).Msg("password reset code issued")
	return nil
}

// ResetPassword consumes a valid code and replaces the password. Expired
// codes are deleted on sight and rejected.
func (s *IdentityService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" || strings.TrimSpace(newPassword) == "" {
		return domain.NewValidationError("email, OTP, and new password are required")
	}
	if len(newPassword) < domain.MinPasswordLength {
		return domain.NewValidationError("password must be at least 6 characters")
	}

	record, err := s.codes.Find(ctx, email)
	if err != nil {
		return err
	}
	if record.Code != code {
		return domain.ErrResetCodeInvalid
	}
	if record.Expired(time.Now().UTC()) {
		if delErr := s.codes.Delete(ctx, email); delErr != nil {
			s.logger.Warn().Err(delErr).Msg("failed to delete expired reset code")
		}
		return domain.ErrResetCodeExpired
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrResetCodeInvalid
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	if err := s.codes.Delete(ctx, email); err != nil {
		s.logger.Warn().Err(err).Msg("failed to delete consumed reset code")
	}

	s.logger.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}

func (s *IdentityService) UpdateProfile(ctx context.Context, userID string, patch ports.ProfilePatch) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	setRequired(&user.Name, patch.Name)
	setOptional(&user.About, patch.About)
	setOptional(&user.City, patch.City)

	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UploadAvatar stores the image under a filename derived from the account id,
// so re-uploads of the same type overwrite the previous avatar.
func (s *IdentityService) UploadAvatar(ctx context.Context, userID string, image []byte, contentType string) (*domain.User, error) {
	if len(image) == 0 {
		return nil, domain.NewValidationError("no image file provided")
	}
	if len(image) > maxAvatarSize {
		return nil, domain.NewValidationError("image too large (max 5 MB)")
	}
	ext, ok := imageExt[contentType]
	if !ok {
		return nil, domain.NewValidationError("only JPEG, PNG, GIF, or WebP images are allowed")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	filename := user.ID + "." + ext
	if err := s.blob.Put(ctx, "avatars/"+filename, image); err != nil {
		return nil, err
	}

	user.ProfileImage = filename
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *IdentityService) signToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateResetCode returns a 6-digit numeric one-time code.
func generateResetCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// fallback: derive from current nanoseconds
		return fmt.Sprintf("%06d", time.Now().UnixNano()%900000+100000)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}
