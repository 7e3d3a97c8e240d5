// internal/handlers/cart.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/i18n"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/services"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/utils"
)

type CartHandler struct {
	cartService *services.CartService
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// updateCartItemRequest deliberately carries no validation tags: negative
// quantities must reach the service so the caller gets the typed
// INVALID_INPUT answer rather than a generic binding failure.
type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.GetOrCreateCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"cart": cart,
	})
}

// GET /cart/summary
func (h *CartHandler) GetCartSummary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	summary, err := h.cartService.GetCartSummary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"summary": summary,
	})
}

// POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	item, err := h.cartService.AddToCart(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartItemAdded),
		"item":    item,
	})
}

// PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item ID", nil)
		return
	}

	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	item, err := h.cartService.UpdateCartItem(c.Request.Context(), userID, itemID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	// A nil item means the quantity hit zero and the line was removed.
	if item == nil {
		utils.SuccessResponse(c, gin.H{
			"message": i18n.T(lang, i18n.KeyCartItemRemoved),
		})
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartItemUpdated),
		"item":    item,
	})
}

// DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item ID", nil)
		return
	}

	if err := h.cartService.RemoveFromCart(c.Request.Context(), userID, itemID); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartItemRemoved),
	})
}

// DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.cartService.ClearCart(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartCleared),
	})
}

// POST /cart/validate
func (h *CartHandler) ValidateCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	report, err := h.cartService.ValidateCartForCheckout(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	// An invalid cart is still a 200: the report is the answer, the client
	// decides what to surface.
	utils.SuccessResponse(c, gin.H{
		"report": report,
	})
}

// POST /cart/checkout
func (h *CartHandler) Checkout(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	order, err := h.cartService.ConvertCartToOrder(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderCreated),
		"order":   order,
	})
}
