package handlers

import (
	"net/http"

	"github.com/anonto42/nano-midea/accounts/internal/models"
	"github.com/anonto42/nano-midea/accounts/internal/service"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	accounts *service.AccountService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(accounts *service.AccountService) *PostHandler {
	return &PostHandler{accounts: accounts}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/post/upload", h.CreatePost, requireAuth)
	g.GET("/post/:id", h.GetPost, requireAuth)
	g.DELETE("/post/:id", h.DeletePost, requireAuth)
}

// CreatePost creates a new post owned by the caller
func (h *PostHandler) CreatePost(c echo.Context) error {
	id, err := callerID(c)
	if err != nil {
		return err
	}
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.accounts.CreatePost(c.Request().Context(), id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "message": "Post created", "post": post})
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.accounts.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "post": post})
}

// DeletePost deletes a post owned by the caller
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := callerID(c)
	if err != nil {
		return err
	}
	if err := h.accounts.DeletePost(c.Request().Context(), id, c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Post deleted"})
}
