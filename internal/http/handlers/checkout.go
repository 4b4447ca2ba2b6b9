package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vonida-storefront/internal/checkout"
	"github.com/yungbote/vonida-storefront/internal/http/response"
	"github.com/yungbote/vonida-storefront/internal/services"
)

type CheckoutHandler struct {
	storefront services.StorefrontService
}

func NewCheckoutHandler(storefront services.StorefrontService) *CheckoutHandler {
	return &CheckoutHandler{storefront: storefront}
}

// POST /api/checkout
// Returns the deep link for the client to open.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	sess := services.SessionFromContext(c.Request.Context())
	res, err := h.storefront.Checkout(c.Request.Context(), sess, nil)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"checkout": res})
}

// GET /api/checkout/open
// Redirects the browser straight to the deep link.
func (h *CheckoutHandler) Open(c *gin.Context) {
	sess := services.SessionFromContext(c.Request.Context())
	redirect := checkout.OpenerFunc(func(_ context.Context, uri string) error {
		c.Redirect(http.StatusSeeOther, uri)
		return nil
	})
	if _, err := h.storefront.Checkout(c.Request.Context(), sess, redirect); err != nil {
		response.RespondAPIError(c, err)
	}
}
