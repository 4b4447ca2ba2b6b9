package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vonida-storefront/internal/http/response"
	"github.com/yungbote/vonida-storefront/internal/services"
)

type CartHandler struct {
	storefront services.StorefrontService
}

func NewCartHandler(storefront services.StorefrontService) *CartHandler {
	return &CartHandler{storefront: storefront}
}

type lineRequest struct {
	ProductID string `json:"product_id" form:"product_id" binding:"required"`
	Size      string `json:"size" form:"size" binding:"required"`
}

// GET /api/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sess := services.SessionFromContext(c.Request.Context())
	view, err := h.storefront.Cart(c.Request.Context(), sess)
	respondCart(c, view, err)
}

// POST /api/cart/items
// body: { "product_id": "cafe", "size": "medium" }
func (h *CartHandler) AddItem(c *gin.Context) {
	sess := services.SessionFromContext(c.Request.Context())
	var req lineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := h.storefront.Add(c.Request.Context(), sess, req.ProductID, req.Size)
	respondCart(c, view, err)
}

// POST /api/cart/items/decrement
// body: { "product_id": "cafe", "size": "medium" }
func (h *CartHandler) DecrementItem(c *gin.Context) {
	sess := services.SessionFromContext(c.Request.Context())
	var req lineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := h.storefront.Remove(c.Request.Context(), sess, req.ProductID, req.Size)
	respondCart(c, view, err)
}

// DELETE /api/cart/items?product_id=cafe&size=medium
func (h *CartHandler) DeleteItem(c *gin.Context) {
	sess := services.SessionFromContext(c.Request.Context())
	var req lineRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := h.storefront.DeleteLine(c.Request.Context(), sess, req.ProductID, req.Size)
	respondCart(c, view, err)
}

// DELETE /api/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	sess := services.SessionFromContext(c.Request.Context())
	view, err := h.storefront.Clear(c.Request.Context(), sess)
	respondCart(c, view, err)
}

func respondCart(c *gin.Context, view services.CartView, err error) {
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"cart": view})
}
