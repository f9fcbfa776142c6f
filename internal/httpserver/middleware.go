package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mkozhevin/retail_orders/internal/models"
	"github.com/mkozhevin/retail_orders/internal/tokens"
)

type AuthMiddleware struct {
	JWTSecret []byte
}

func loginRequired(c echo.Context) error {
	return c.JSON(http.StatusForbidden, echo.Map{"Status": false, "Error": "Log in required"})
}

// RequireAuth validates the bearer token and stores the caller's id
// and type on the request context.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
		if tokenStr == "" {
			return loginRequired(c)
		}

		claims, err := tokens.AccessClaimsFromToken(tokenStr, m.JWTSecret)
		if err != nil {
			return loginRequired(c)
		}

		userID, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil || userID == 0 {
			return loginRequired(c)
		}

		c.Set("user_id", uint(userID))
		c.Set("user_type", claims.UserType)
		return next(c)
	}
}

// RequireShop additionally gates partner-only endpoints.
func (m *AuthMiddleware) RequireShop(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireAuth(func(c echo.Context) error {
		if c.Get("user_type") != models.UserTypeShop {
			return c.JSON(http.StatusForbidden, echo.Map{"Status": false, "Error": "Только для магазинов"})
		}
		return next(c)
	})
}

func userID(c echo.Context) uint {
	id, _ := c.Get("user_id").(uint)
	return id
}
