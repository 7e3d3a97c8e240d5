// internal/handlers/store.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/models"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/services"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/utils"
)

type StoreHandler struct {
	storeService   *services.StoreService
	productService *services.ProductService
}

func NewStoreHandler(storeService *services.StoreService, productService *services.ProductService) *StoreHandler {
	return &StoreHandler{
		storeService:   storeService,
		productService: productService,
	}
}

// GET /stores
func (h *StoreHandler) ListStores(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	stores, total, err := h.storeService.ListStores(params)
	if err != nil {
		respondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(stores, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /stores/:id
func (h *StoreHandler) GetStore(c *gin.Context) {
	idStr := c.Param("id")

	// The path accepts either a store ID or a slug.
	var store *models.Store
	var err error
	if id, parseErr := uuid.Parse(idStr); parseErr == nil {
		store, err = h.storeService.GetStore(id)
	} else {
		store, err = h.storeService.GetStoreBySlug(idStr)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"store": store,
	})
}

// GET /stores/:id/products
func (h *StoreHandler) ListStoreProducts(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid store ID", nil)
		return
	}

	params := utils.GetPaginationParams(c)
	searchParams := services.ProductSearchParams{
		PaginationParams: params,
		StoreID:          &storeID,
	}

	products, total, err := h.productService.SearchProducts(searchParams)
	if err != nil {
		respondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(products, total, params)
	utils.PaginatedResponse(c, result)
}
