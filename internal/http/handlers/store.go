package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vonida-storefront/internal/http/response"
	"github.com/yungbote/vonida-storefront/internal/services"
)

type StoreHandler struct {
	storefront services.StorefrontService
	artwork    services.ArtworkService
}

func NewStoreHandler(storefront services.StorefrontService, artwork services.ArtworkService) *StoreHandler {
	return &StoreHandler{storefront: storefront, artwork: artwork}
}

// GET /api/store
func (h *StoreHandler) GetProfile(c *gin.Context) {
	response.RespondOK(c, gin.H{"store": h.storefront.Profile()})
}

// GET /api/store/logo.png?size=256
func (h *StoreHandler) GetLogo(c *gin.Context) {
	size, err := imageSize(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_image_size", err)
		return
	}
	png, err := h.artwork.Logo(size)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	writePNG(c, png)
}

func imageSize(c *gin.Context) (int, error) {
	raw := c.Query("size")
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func writePNG(c *gin.Context, png []byte) {
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", png)
}
