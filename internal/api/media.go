package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/service"
)

// MediaHandler serves images kept by the local media store
type MediaHandler struct {
	images  *service.ImageService
	baseURL string
}

func NewMediaHandler(images *service.ImageService, baseURL string) *MediaHandler {
	if baseURL == "" {
		baseURL = "/media"
	}
	return &MediaHandler{images: images, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (h *MediaHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/media/*filepath", h.Serve)
}

func (h *MediaHandler) Serve(c *gin.Context) {
	ref := h.baseURL + c.Param("filepath")
	data, contentType, err := h.images.Open(c.Request.Context(), ref)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, contentType, data)
}
