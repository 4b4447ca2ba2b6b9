package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vonida-storefront/internal/http/response"
	"github.com/yungbote/vonida-storefront/internal/services"
)

const productImageSuffix = "/image.png"

type CatalogHandler struct {
	storefront services.StorefrontService
	artwork    services.ArtworkService
}

func NewCatalogHandler(storefront services.StorefrontService, artwork services.ArtworkService) *CatalogHandler {
	return &CatalogHandler{storefront: storefront, artwork: artwork}
}

// GET /api/products?q=cafe
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products := h.storefront.Catalog(c.Query("q"))
	response.RespondOK(c, gin.H{
		"products":   products,
		"categories": h.storefront.Categories(),
	})
}

// GET /api/products/*id
//
// Product ids may contain '/' ("cenoura-c/-brigadeiro"), so the route is a
// catch-all. A trailing /image.png serves the product tile.
func (h *CatalogHandler) ProductRoute(c *gin.Context) {
	id := strings.TrimPrefix(c.Param("id"), "/")
	if strings.HasSuffix(id, productImageSuffix) {
		h.productImage(c, strings.TrimSuffix(id, productImageSuffix))
		return
	}
	if id == "" {
		response.RespondError(c, http.StatusNotFound, "product_not_found", nil)
		return
	}
	product, err := h.storefront.Product(id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"product": product})
}

func (h *CatalogHandler) productImage(c *gin.Context, id string) {
	size, err := imageSize(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_image_size", err)
		return
	}
	png, err := h.artwork.ProductTile(id, size)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	writePNG(c, png)
}
