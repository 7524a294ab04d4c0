package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openshelf/digital-library/internal/core/domain"
	"github.com/openshelf/digital-library/internal/core/ports"
)

// AuthHandler handles account, session, and password-reset routes.
type AuthHandler struct {
	identity ports.IdentityService
}

func NewAuthHandler(identity ports.IdentityService) *AuthHandler {
	return &AuthHandler{identity: identity}
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type updateProfileRequest struct {
	Name  *string `json:"name"`
	About *string `json:"about"`
	City  *string `json:"city"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Signup creates a new account and returns a session token.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	token, user, err := h.identity.Signup(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, domain.ErrEmailTaken):
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{Token: token, User: user})
}

// Login authenticates a user and returns a session token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	token, user, err := h.identity.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, domain.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
		}
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// Me returns the account behind the presented token.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.identity.GetUser(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "account not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ForgotPassword issues a reset code. The acknowledgement is identical for
// known and unknown emails.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.identity.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, domain.ErrMailNotConfigured):
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "email service is not configured"})
		}
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{
		Message: "if an account with that email exists, an OTP has been sent",
	})
}

// ResetPassword consumes a reset code and replaces the password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.identity.ResetPassword(c.Request().Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve),
			errors.Is(err, domain.ErrResetCodeInvalid),
			errors.Is(err, domain.ErrResetCodeExpired):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "password has been reset"})
}

// UpdateProfile applies a partial profile patch.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	user, err := h.identity.UpdateProfile(c.Request().Context(), userID, ports.ProfilePatch{
		Name:  req.Name,
		About: req.About,
		City:  req.City,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "account not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UploadAvatar stores a new profile image from the multipart field "avatar".
func (h *AuthHandler) UploadAvatar(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("avatar")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "no image file provided"})
	}

	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	image, err := io.ReadAll(src)
	if err != nil {
		return err
	}

	user, err := h.identity.UploadAvatar(c.Request().Context(), userID, image, fh.Header.Get("Content-Type"))
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, domain.ErrUserNotFound):
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "account not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, user)
}
