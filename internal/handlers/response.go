package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/anonto42/nano-midea/accounts/internal/apperrors"
	"github.com/anonto42/nano-midea/accounts/internal/middleware"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// CookieOptions controls the session cookie attributes.
type CookieOptions struct {
	TTL    time.Duration
	Secure bool
}

// httpError converts a service error into the HTTP error the client sees.
func httpError(err error) error {
	return echo.NewHTTPError(apperrors.HTTPStatus(err), apperrors.Message(err)).SetInternal(err)
}

func callerID(c echo.Context) (string, error) {
	id := middleware.CallerID(c)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Please login first")
	}
	return id, nil
}

func setSessionCookie(c echo.Context, token string, opts CookieOptions) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(opts.TTL),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie overwrites the session cookie with an already expired one.
func clearSessionCookie(c echo.Context, opts CookieOptions) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ErrorHandler renders every error as {"success": false, "message": ...}.
func ErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			message = fmt.Sprint(he.Message)
			if he.Internal != nil && code >= http.StatusInternalServerError {
				err = he.Internal
			}
		}
		if code >= http.StatusInternalServerError {
			log.WithError(err).WithField("path", c.Path()).Error("request failed")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, echo.Map{"success": false, "message": message})
		}
		if writeErr != nil {
			log.WithError(writeErr).Warn("could not write error response")
		}
	}
}
