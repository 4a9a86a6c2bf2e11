package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/contactsbook/contacts-api/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the authenticated user's profile.
//
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Security     BearerAuth
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateAvatar uploads a new avatar image and returns the updated profile.
//
// @Summary      Update avatar
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Avatar image"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Security     BearerAuth
// @Router       /users/avatar [patch]
func (h *UserHandler) UpdateAvatar(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read uploaded file")
	}
	defer file.Close()

	updated, err := h.userService.UpdateAvatar(c.Request().Context(), user, file)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toUserResponse(updated))
}
