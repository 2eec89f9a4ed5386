package handlers

import (
	"net/http"

	"github.com/anonto42/nano-midea/accounts/internal/metrics"
	"github.com/anonto42/nano-midea/accounts/internal/service"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	accounts *service.AccountService
	metrics  *metrics.Metrics
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(accounts *service.AccountService, m *metrics.Metrics) *FollowHandler {
	return &FollowHandler{accounts: accounts, metrics: m}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/follow/:id", h.ToggleFollow, requireAuth)
}

// ToggleFollow follows the user, or unfollows if already following
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	id, err := callerID(c)
	if err != nil {
		return err
	}

	result, err := h.accounts.ToggleFollow(c.Request().Context(), c.Param("id"), id)
	if err != nil {
		return httpError(err)
	}

	if result == service.Followed {
		h.metrics.FollowRequests.Inc()
	} else {
		h.metrics.UnfollowRequests.Inc()
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": string(result)})
}
