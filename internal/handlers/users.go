package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafaelmolinari2019/expensaflow-app/internal/service"
)

// UserHandler handles admin user-listing HTTP requests.
type UserHandler struct {
	authService service.AuthService
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(authService service.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// List godoc
// @Summary List regular users
// @Description List all accounts with the user role; admin only. Password hashes are never serialized.
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.User
// @Failure 403 {object} map[string]string
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		LogAndRespondError(c, http.StatusInternalServerError, err, "failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, users)
}
