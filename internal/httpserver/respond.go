package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkozhevin/retail_orders/internal/logging"
	"github.com/mkozhevin/retail_orders/internal/service"
)

func ok(c echo.Context, extra echo.Map) error {
	body := echo.Map{"Status": true}
	for k, v := range extra {
		body[k] = v
	}
	return c.JSON(http.StatusOK, body)
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"Status": false, "Errors": msg})
}

// respondError translates service errors into the response envelope.
// Everything the caller can fix is a 400, authorization problems are
// a 403, the rest is a 500 with the detail kept out of the body.
func respondError(c echo.Context, err error) error {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		code := http.StatusBadRequest
		if errors.Is(err, service.ErrForbidden) {
			code = http.StatusForbidden
		}
		return c.JSON(code, echo.Map{"Status": false, "Errors": svcErr.Envelope()})
	}

	logging.FromContext(c.Request().Context()).Error("request failed",
		"path", c.Path(),
		"error", err,
	)
	return c.JSON(http.StatusInternalServerError, echo.Map{"Status": false, "Errors": "внутренняя ошибка сервера"})
}
