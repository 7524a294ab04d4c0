package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openshelf/digital-library/internal/core/domain"
	"github.com/openshelf/digital-library/internal/core/ports"
)

// RequireAdmin gates a route group to admin accounts. Roles are not carried
// in the token, so the account is looked up on every request; a role change
// takes effect immediately rather than at token expiry.
func RequireAdmin(users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get("user_id").(string)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "account not found")
			}
			if user.Role != domain.RoleAdmin {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "admin only"})
			}
			return next(c)
		}
	}
}
