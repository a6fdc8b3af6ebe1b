package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/fieldtrack_backend/logging"
	"github.com/HSouheill/fieldtrack_backend/models"
	"github.com/HSouheill/fieldtrack_backend/security"
)

// RequireJSON rejects POST, PUT and PATCH requests with a body that is not JSON.
func RequireJSON() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
			default:
				return next(c)
			}
			if req.ContentLength == 0 {
				return next(c)
			}
			if !security.IsJSONContentType(req.Header.Get(echo.HeaderContentType)) {
				logging.Debug().
					Str("path", c.Path()).
					Interface("headers", security.RedactHeaders(req.Header)).
					Msg("rejected non-JSON body")
				return c.JSON(http.StatusUnsupportedMediaType, models.Response{
					Status:  http.StatusUnsupportedMediaType,
					Message: "Content-Type must be application/json",
				})
			}
			return next(c)
		}
	}
}
