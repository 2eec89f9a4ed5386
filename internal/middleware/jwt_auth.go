package middleware

import (
	"net/http"
	"strings"

	"github.com/anonto42/nano-midea/accounts/internal/auth"
	"github.com/labstack/echo/v4"
)

const (
	// SessionCookie is the cookie carrying the session token.
	SessionCookie = "token"

	callerKey = "accountID"
)

// SessionAuth accepts a session token from the "token" cookie or from an
// "Authorization: Bearer" header and stores the caller's account ID in the
// context. A cookie that does not verify does not shadow a valid header.
func SessionAuth(tokens *auth.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			candidates := sessionTokens(c)
			if len(candidates) == 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "Please login first")
			}

			for _, tokenString := range candidates {
				claims, err := tokens.Parse(tokenString)
				if err != nil {
					continue
				}
				c.Set(callerKey, claims.UserID)
				return next(c)
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired session")
		}
	}
}

// CallerID returns the authenticated account ID, or "" outside SessionAuth.
func CallerID(c echo.Context) string {
	id, _ := c.Get(callerKey).(string)
	return id
}

// sessionTokens lists the presented tokens, cookie first.
func sessionTokens(c echo.Context) []string {
	var found []string
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		found = append(found, cookie.Value)
	}

	// Expecting "Bearer <token>"
	parts := strings.Split(c.Request().Header.Get("Authorization"), " ")
	if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" && parts[1] != "" {
		found = append(found, parts[1])
	}
	return found
}
