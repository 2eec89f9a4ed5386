package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anonto42/nano-midea/accounts/internal/metrics"
	"github.com/anonto42/nano-midea/accounts/internal/models"
	"github.com/anonto42/nano-midea/accounts/internal/service"
	"github.com/labstack/echo/v4"
)

// IdentityVerifier turns a Firebase ID token into the identity it proves.
type IdentityVerifier interface {
	VerifyIdentity(ctx context.Context, idToken string) (*models.Identity, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	accounts *service.AccountService
	metrics  *metrics.Metrics
	cookies  CookieOptions
	firebase IdentityVerifier
}

// NewAuthHandler creates a new AuthHandler. firebase may be nil, in which case
// the Firebase login route is not registered.
func NewAuthHandler(accounts *service.AccountService, m *metrics.Metrics, cookies CookieOptions, firebase IdentityVerifier) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		metrics:  m,
		cookies:  cookies,
		firebase: firebase,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.GET("/logout", h.Logout)
	g.POST("/forgot/password", h.ForgotPassword)
	g.PUT("/password/reset/:token", h.ResetPassword)
	g.PUT("/update/password", h.UpdatePassword, requireAuth)
	if h.firebase != nil {
		g.POST("/firebase-login", h.FirebaseLogin)
	}
}

// Register handles local registration with name, email and password
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sess, err := h.accounts.Register(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	h.metrics.Registrations.Inc()

	setSessionCookie(c, sess.Token, h.cookies)
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "user": sess.Account, "token": sess.Token})
}

// Login handles authentication with email and password
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sess, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.Logins.WithLabelValues("failure").Inc()
		return httpError(err)
	}
	h.metrics.Logins.WithLabelValues("success").Inc()

	setSessionCookie(c, sess.Token, h.cookies)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": sess.Account, "token": sess.Token})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	clearSessionCookie(c, h.cookies)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Logged out"})
}

// FirebaseLogin exchanges a verified Firebase ID token for a session
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req models.FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	identity, err := h.firebase.VerifyIdentity(c.Request().Context(), req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	sess, err := h.accounts.LoginWithIdentity(c.Request().Context(), *identity)
	if err != nil {
		return httpError(err)
	}

	setSessionCookie(c, sess.Token, h.cookies)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": sess.Account, "token": sess.Token})
}

func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	id, err := callerID(c)
	if err != nil {
		return err
	}
	var req models.UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := h.accounts.UpdatePassword(c.Request().Context(), id, req.OldPassword, req.NewPassword); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Password updated"})
}

func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req models.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	resetBase := fmt.Sprintf("%s://%s/api/v1/password/reset", c.Scheme(), c.Request().Host)
	sentTo, err := h.accounts.ForgotPassword(c.Request().Context(), req.Email, resetBase)
	if err != nil {
		h.metrics.PasswordResets.WithLabelValues("request_failed").Inc()
		return httpError(err)
	}
	h.metrics.PasswordResets.WithLabelValues("requested").Inc()

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Email sent to " + sentTo})
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req models.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := h.accounts.ResetPassword(c.Request().Context(), c.Param("token"), req.Password); err != nil {
		h.metrics.PasswordResets.WithLabelValues("rejected").Inc()
		return httpError(err)
	}
	h.metrics.PasswordResets.WithLabelValues("completed").Inc()

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Password updated"})
}
