package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/contactsbook/contacts-api/internal/api/metrics"
	"github.com/contactsbook/contacts-api/internal/core/ports"
)

// UserContextKey is where Auth stores the resolved *domain.User.
const UserContextKey = "current_user"

// Auth resolves the bearer token to a user and injects it into the request
// context. Resolution is read-through: the session cache is consulted first,
// and a persistence hit repopulates it. Missing, malformed, or expired
// tokens and unknown subjects all fail with 401 before any handler runs.
func Auth(tokens ports.TokenService, cache ports.UserCache, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			ctx := c.Request().Context()

			email, err := tokens.Decode(ctx, ports.TokenAccess, parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			user, err := cache.Get(ctx, email)
			if err != nil {
				return err
			}
			if user != nil {
				metrics.SessionCacheTotal.WithLabelValues("hit").Inc()
			} else {
				metrics.SessionCacheTotal.WithLabelValues("miss").Inc()

				user, err = users.FindByEmail(ctx, email)
				if err != nil {
					// Unknown subject on a signature-valid token: the account
					// no longer exists.
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				if err := cache.Put(ctx, user); err != nil {
					return err
				}
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}
