package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/contactsbook/contacts-api/internal/core/ports"
)

type ContactHandler struct {
	contactService ports.ContactService
}

func NewContactHandler(contactService ports.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// List returns one page of the authenticated user's contacts.
//
// @Summary      List contacts
// @Tags         contacts
// @Produce      json
// @Param        skip   query     int  false  "Number of contacts to skip"
// @Param        limit  query     int  false  "Maximum contacts to return (max 100)"
// @Success      200    {array}   contactResponse
// @Failure      401    {object}  errorResponse
// @Security     BearerAuth
// @Router       /contacts [get]
func (h *ContactHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	skip, limit := pageParams(c)
	contacts, err := h.contactService.List(c.Request().Context(), user.ID, skip, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toContactResponses(contacts))
}

// Get returns a single contact owned by the authenticated user.
//
// @Summary      Get contact by ID
// @Tags         contacts
// @Produce      json
// @Param        id   path      string  true  "Contact ID"
// @Success      200  {object}  contactResponse
// @Failure      404  {object}  errorResponse
// @Security     BearerAuth
// @Router       /contacts/{id} [get]
func (h *ContactHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	contact, err := h.contactService.Get(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toContactResponse(contact))
}

// Create adds a contact to the authenticated user's address book.
//
// @Summary      Create contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        body  body      contactRequest  true  "Contact details"
// @Success      201   {object}  contactResponse
// @Failure      409   {object}  errorResponse
// @Security     BearerAuth
// @Router       /contacts [post]
func (h *ContactHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	contact, err := h.contactService.Create(c.Request().Context(), user.ID, req.toInput())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toContactResponse(contact))
}

// Update replaces a contact's fields.
//
// @Summary      Update contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Contact ID"
// @Param        body  body      contactRequest  true  "Updated contact details"
// @Success      200   {object}  contactResponse
// @Failure      404   {object}  errorResponse
// @Security     BearerAuth
// @Router       /contacts/{id} [put]
func (h *ContactHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	contact, err := h.contactService.Update(c.Request().Context(), user.ID, c.Param("id"), req.toInput())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toContactResponse(contact))
}

// Delete removes a contact and returns the deleted record.
//
// @Summary      Delete contact
// @Tags         contacts
// @Produce      json
// @Param        id   path      string  true  "Contact ID"
// @Success      200  {object}  contactResponse
// @Failure      404  {object}  errorResponse
// @Security     BearerAuth
// @Router       /contacts/{id} [delete]
func (h *ContactHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	contact, err := h.contactService.Delete(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toContactResponse(contact))
}

// Search matches contacts by name or email, case-insensitively.
//
// @Summary      Search contacts
// @Tags         contacts
// @Produce      json
// @Param        q      query     string  true   "Search query"
// @Param        skip   query     int     false  "Number of results to skip"
// @Param        limit  query     int     false  "Maximum results to return (max 100)"
// @Success      200    {array}   contactResponse
// @Failure      400    {object}  errorResponse
// @Security     BearerAuth
// @Router       /contacts/search [get]
func (h *ContactHandler) Search(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	skip, limit := pageParams(c)
	contacts, err := h.contactService.Search(c.Request().Context(), user.ID, query, skip, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toContactResponses(contacts))
}

// UpcomingBirthdays returns contacts with a birthday in the next week.
//
// @Summary      Upcoming birthdays
// @Tags         contacts
// @Produce      json
// @Success      200  {array}   contactResponse
// @Failure      401  {object}  errorResponse
// @Security     BearerAuth
// @Router       /contacts/birthdays [get]
func (h *ContactHandler) UpcomingBirthdays(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	contacts, err := h.contactService.UpcomingBirthdays(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toContactResponses(contacts))
}

// pageParams reads skip/limit query parameters, tolerating absent or
// malformed values. Range normalisation happens in the service.
func pageParams(c echo.Context) (int64, int64) {
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	return skip, limit
}
