package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/fieldtrack_backend/logging"
	"github.com/HSouheill/fieldtrack_backend/models"
)

// bindAndValidate decodes the JSON body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return models.NewValidationError("", "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, models.Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// respondError maps service errors onto HTTP statuses. Unexpected errors are
// logged and answered with a generic message.
func respondError(c echo.Context, err error, notFoundMessage string) error {
	switch {
	case models.IsValidation(err):
		return respond(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, models.ErrNotFound):
		return respond(c, http.StatusNotFound, notFoundMessage, nil)
	}

	logging.Error().
		Err(err).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("request failed")
	return respond(c, http.StatusInternalServerError, "Internal server error", nil)
}
