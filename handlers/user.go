package handlers

import (
	"net/http"

	"glowbook/middleware"
	"glowbook/models"
	"glowbook/services/user"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	UserService user.UserService
}

func NewUserHandler(svc user.UserService) *UserHandler {
	return &UserHandler{UserService: svc}
}

// GetAllUsersHandler handles GET /api/users (admin). ?role= narrows the list.
func (h *UserHandler) GetAllUsersHandler(c *gin.Context) {
	users, err := h.UserService.GetAllUsers(c.Request.Context(), c.Query("role"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUserByIDHandler handles GET /api/users/:id.
func (h *UserHandler) GetUserByIDHandler(c *gin.Context) {
	id := c.Param("id")
	if !middleware.SelfOrAdmin(c, id) {
		utils.JSONError(c, http.StatusForbidden, "Not allowed to view this user")
		return
	}
	usr, err := h.UserService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}

// UpdateUserHandler handles PUT /api/users/:id.
func (h *UserHandler) UpdateUserHandler(c *gin.Context) {
	id := c.Param("id")
	if !middleware.SelfOrAdmin(c, id) {
		utils.JSONError(c, http.StatusForbidden, "Not allowed to update this user")
		return
	}
	var req models.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	usr, err := h.UserService.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}
