package handlers

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/nano-midea/accounts/internal/apperrors"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestErrorHandler(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	handle := ErrorHandler(log)

	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"app error", httpError(apperrors.NotFound("User does not exist")), http.StatusNotFound, `{"success":false,"message":"User does not exist"}`},
		{"echo error", echo.NewHTTPError(http.StatusUnauthorized, "Please login first"), http.StatusUnauthorized, `{"success":false,"message":"Please login first"}`},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, `{"success":false,"message":"boom"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			handle(tt.err, c)

			assert.Equal(t, tt.code, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestSessionCookies(t *testing.T) {
	e := echo.New()
	opts := CookieOptions{TTL: 0, Secure: true}

	rec := httptest.NewRecorder()
	setSessionCookie(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec), "abc", opts)
	set := rec.Result().Cookies()
	if assert.Len(t, set, 1) {
		assert.Equal(t, "abc", set[0].Value)
		assert.True(t, set[0].HttpOnly)
		assert.True(t, set[0].Secure)
	}

	rec = httptest.NewRecorder()
	clearSessionCookie(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec), opts)
	cleared := rec.Result().Cookies()
	if assert.Len(t, cleared, 1) {
		assert.Empty(t, cleared[0].Value)
		assert.Equal(t, -1, cleared[0].MaxAge)
	}
}
