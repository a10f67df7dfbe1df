package handlers

import (
	"net/http"

	"glowbook/models"
	"glowbook/services/newsletter"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
)

type NewsletterHandler struct {
	Newsletter newsletter.NewsletterService
}

func NewNewsletterHandler(svc newsletter.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{Newsletter: svc}
}

func (h *NewsletterHandler) SubscribeHandler(c *gin.Context) {
	var req models.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	member, err := h.Newsletter.Subscribe(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Subscribed", "member": member})
}

func (h *NewsletterHandler) StatsHandler(c *gin.Context) {
	stats, err := h.Newsletter.Stats(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *NewsletterHandler) TagsHandler(c *gin.Context) {
	var req models.TagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if err := h.Newsletter.AddTags(c.Request.Context(), req); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Tags updated"})
}

func (h *NewsletterHandler) BatchSubscribeHandler(c *gin.Context) {
	var req models.BatchSubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	res, err := h.Newsletter.BatchSubscribe(c.Request.Context(), req.Members)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
