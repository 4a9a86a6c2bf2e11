package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/contactsbook/contacts-api/internal/core/domain"
)

// RBAC enforces role-based access control. The resolved user's role must be
// a member of the allowed set; otherwise the request fails with 403,
// distinct from the 401 the Auth middleware produces.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(UserContextKey).(*domain.User)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if _, ok := allowed[user.Role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
