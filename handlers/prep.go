package handlers

import (
	"net/http"

	"glowbook/middleware"
	"glowbook/models"
	"glowbook/services/prep"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
)

type PrepHandler struct {
	Preps prep.PrepService
}

func NewPrepHandler(svc prep.PrepService) *PrepHandler {
	return &PrepHandler{Preps: svc}
}

func (h *PrepHandler) CreatePrepHandler(c *gin.Context) {
	var req models.PrepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if !middleware.IsAdmin(c) {
		req.Customer = middleware.UserID(c)
	}
	p, err := h.Preps.Create(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// ListPrepsHandler handles GET /api/preps. Customers only ever see their own notes.
func (h *PrepHandler) ListPrepsHandler(c *gin.Context) {
	filter := models.PrepFilter{Customer: c.Query("customer"), Booking: c.Query("booking")}
	if !middleware.IsAdmin(c) {
		filter.Customer = middleware.UserID(c)
	}
	preps, err := h.Preps.List(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preps)
}

// ownedPrep loads a prep and enforces owner-or-admin access.
func (h *PrepHandler) ownedPrep(c *gin.Context) (*models.Prep, bool) {
	p, err := h.Preps.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return nil, false
	}
	if !middleware.SelfOrAdmin(c, p.Customer) {
		utils.JSONError(c, http.StatusForbidden, "Not allowed to access this prep")
		return nil, false
	}
	return p, true
}

func (h *PrepHandler) GetPrepHandler(c *gin.Context) {
	p, ok := h.ownedPrep(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PrepHandler) UpdatePrepHandler(c *gin.Context) {
	var req models.PrepUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	p, ok := h.ownedPrep(c)
	if !ok {
		return
	}
	updated, err := h.Preps.Update(c.Request.Context(), p.ID, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *PrepHandler) DeletePrepHandler(c *gin.Context) {
	p, ok := h.ownedPrep(c)
	if !ok {
		return
	}
	if err := h.Preps.Delete(c.Request.Context(), p.ID); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Prep deleted"})
}
