package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/contactsbook/contacts-api/internal/api/middleware"
	"github.com/contactsbook/contacts-api/internal/core/domain"
)

// currentUser extracts the user resolved by the Auth middleware. Its absence
// means the route was registered without the middleware; reject with 401
// rather than reaching business logic unauthenticated.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(middleware.UserContextKey).(*domain.User)
	if !ok || user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}
