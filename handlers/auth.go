package handlers

import (
	"net/http"
	"time"

	"glowbook/middleware"
	"glowbook/models"
	"glowbook/services/user"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	UserService  user.UserService
	SecureCookie bool
}

func NewAuthHandler(svc user.UserService, secureCookie bool) *AuthHandler {
	return &AuthHandler{UserService: svc, SecureCookie: secureCookie}
}

// RegisterHandler handles POST /api/auth/register.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	resp, err := h.UserService.Register(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("User registered", zap.String("user", resp.ID))
	h.setCookie(c, resp)
	c.JSON(http.StatusCreated, resp)
}

// LoginHandler handles POST /api/auth/login.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	resp, err := h.UserService.Login(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	h.setCookie(c, resp)
	c.JSON(http.StatusOK, resp)
}

// MeHandler handles GET /api/auth/me.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	usr, err := h.UserService.GetUserByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}

func (h *AuthHandler) setCookie(c *gin.Context, resp *user.AuthResponse) {
	maxAge := int(time.Until(resp.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, resp.Token, maxAge, "/", "", h.SecureCookie, true)
}
