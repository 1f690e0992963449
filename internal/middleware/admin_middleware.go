package middleware

import (
	"net/http"
	"strings"

	"stayRank/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type unauthorized struct {
	Message string `json:"message"`
}

// AdminMiddleware guards the training and registry endpoints. Tokens are
// HS256 with a "role" claim that must equal "admin".
func AdminMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, unauthorized{Message: "Missing authorization header"})
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, unauthorized{Message: "Invalid authorization format"})
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenParts[1], claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("rejected admin token", "error", err)
				return c.JSON(http.StatusUnauthorized, unauthorized{Message: "Invalid token"})
			}

			if role, _ := claims["role"].(string); role != "admin" {
				return c.JSON(http.StatusForbidden, unauthorized{Message: "Admin role required"})
			}

			return next(c)
		}
	}
}
