package handlers

import (
	"net/http"

	"github.com/anonto42/nano-midea/accounts/internal/metrics"
	"github.com/anonto42/nano-midea/accounts/internal/models"
	"github.com/anonto42/nano-midea/accounts/internal/service"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to profiles
type UserHandler struct {
	accounts *service.AccountService
	metrics  *metrics.Metrics
	cookies  CookieOptions
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(accounts *service.AccountService, m *metrics.Metrics, cookies CookieOptions) *UserHandler {
	return &UserHandler{accounts: accounts, metrics: m, cookies: cookies}
}

// RegisterProfileRoutes registers profile routes; all of them need a session.
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/me", h.GetProfile, requireAuth)
	g.PUT("/update/profile", h.UpdateProfile, requireAuth)
	g.DELETE("/delete/me", h.DeleteProfile, requireAuth)
	g.GET("/user/:id", h.GetUser, requireAuth)
	g.GET("/users", h.GetUsers, requireAuth)
}

// GetProfile retrieves the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	id, err := callerID(c)
	if err != nil {
		return err
	}
	profile, err := h.accounts.GetProfile(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": profile})
}

func (h *UserHandler) GetUser(c echo.Context) error {
	profile, err := h.accounts.GetProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": profile})
}

func (h *UserHandler) GetUsers(c echo.Context) error {
	users, err := h.accounts.ListAccounts(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "users": users})
}

// UpdateProfile updates the authenticated user's name and/or email
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	id, err := callerID(c)
	if err != nil {
		return err
	}
	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.accounts.UpdateProfile(c.Request().Context(), id, req); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Profile updated"})
}

// DeleteProfile deletes the authenticated user's account and logs them out
func (h *UserHandler) DeleteProfile(c echo.Context) error {
	id, err := callerID(c)
	if err != nil {
		return err
	}
	if err := h.accounts.DeleteAccount(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	h.metrics.AccountDeletes.Inc()

	clearSessionCookie(c, h.cookies)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Profile deleted"})
}
