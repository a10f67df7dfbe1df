package handlers

import (
	"io"
	"net/http"
	"strings"

	"glowbook/models"
	"glowbook/services/catalog"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxImagesPerRequest caps the files accepted in one form.
const maxImagesPerRequest = 10

type CatalogHandler struct {
	Catalog catalog.CatalogService
}

func NewCatalogHandler(svc catalog.CatalogService) *CatalogHandler {
	return &CatalogHandler{Catalog: svc}
}

// formUploads collects the files sent under "images". Requests that are not
// multipart simply carry none.
func formUploads(c *gin.Context) ([]catalog.Upload, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	files := form.File["images"]
	if len(files) > maxImagesPerRequest {
		return nil, utils.Validation("too many images")
	}
	uploads := make([]catalog.Upload, 0, len(files))
	for _, fh := range files {
		fh := fh
		uploads = append(uploads, catalog.Upload{
			Filename: fh.Filename,
			Open:     func() (io.ReadCloser, error) { return fh.Open() },
		})
	}
	return uploads, nil
}

func bindCatalogForm(c *gin.Context, in interface{}) ([]catalog.Upload, bool) {
	if err := c.ShouldBind(in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return nil, false
	}
	uploads, err := formUploads(c)
	if err != nil {
		getLogger(c).Warn("failed to read multipart form", zap.Error(err))
		utils.RespondError(c, utils.Validation("invalid multipart form"))
		return nil, false
	}
	return uploads, true
}

// ListServicesHandler handles GET /api/services, filtered by ?category and ?publish.
func (h *CatalogHandler) ListServicesHandler(c *gin.Context) {
	filter := models.ServiceFilter{
		Category: c.Query("category"),
		Publish:  c.Query("publish"),
	}
	services, err := h.Catalog.ListServices(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

func (h *CatalogHandler) GetServiceHandler(c *gin.Context) {
	svc, err := h.Catalog.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *CatalogHandler) CreateServiceHandler(c *gin.Context) {
	var in models.ServiceInput
	uploads, ok := bindCatalogForm(c, &in)
	if !ok {
		return
	}
	svc, err := h.Catalog.CreateService(c.Request.Context(), in, uploads)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

func (h *CatalogHandler) UpdateServiceHandler(c *gin.Context) {
	var in models.ServiceInput
	uploads, ok := bindCatalogForm(c, &in)
	if !ok {
		return
	}
	svc, err := h.Catalog.UpdateService(c.Request.Context(), c.Param("id"), in, uploads)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *CatalogHandler) DeleteServiceHandler(c *gin.Context) {
	if err := h.Catalog.DeleteService(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Service deleted"})
}

// ListCarouselsHandler handles GET /api/carousel; ?active=true hides inactive slides.
func (h *CatalogHandler) ListCarouselsHandler(c *gin.Context) {
	slides, err := h.Catalog.ListCarousels(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slides)
}

func (h *CatalogHandler) GetCarouselHandler(c *gin.Context) {
	slide, err := h.Catalog.GetCarousel(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slide)
}

func (h *CatalogHandler) CreateCarouselHandler(c *gin.Context) {
	var in models.CarouselInput
	uploads, ok := bindCatalogForm(c, &in)
	if !ok {
		return
	}
	slide, err := h.Catalog.CreateCarousel(c.Request.Context(), in, uploads)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slide)
}

func (h *CatalogHandler) UpdateCarouselHandler(c *gin.Context) {
	var in models.CarouselInput
	uploads, ok := bindCatalogForm(c, &in)
	if !ok {
		return
	}
	slide, err := h.Catalog.UpdateCarousel(c.Request.Context(), c.Param("id"), in, uploads)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slide)
}

func (h *CatalogHandler) DeleteCarouselHandler(c *gin.Context) {
	if err := h.Catalog.DeleteCarousel(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Carousel deleted"})
}
