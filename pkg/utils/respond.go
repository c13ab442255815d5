package utils

import (
	"errors"
	"net/http"

	"reader-booking/internal/models"

	"github.com/labstack/echo/v4"
)

// envelope is the wire shape shared by every endpoint.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// RespondWithJSON writes a success envelope.
func RespondWithJSON(c echo.Context, code int, data interface{}) error {
	return c.JSON(code, envelope{Success: true, Data: data})
}

// RespondWithError writes a failure envelope.
func RespondWithError(c echo.Context, code int, message string) error {
	return c.JSON(code, envelope{Success: false, Message: message})
}

// HandleServiceError maps domain errors onto HTTP statuses, keeping the
// message verbatim so clients can surface it.
func HandleServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrTransitionNotAllowed),
		errors.Is(err, models.ErrEmailTaken):
		return RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrNotOrderOwner),
		errors.Is(err, models.ErrNotAssignedReader):
		return RespondWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrInvalidCredentials):
		return RespondWithError(c, http.StatusUnauthorized, err.Error())
	default:
		return RespondWithError(c, http.StatusInternalServerError, "internal server error")
	}
}
