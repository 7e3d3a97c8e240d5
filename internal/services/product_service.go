// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/apperrors"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/models"
	"github.com/PascalSeth/tripsyncv2backend-sub007/internal/utils"
)

type ProductService struct {
	db *gorm.DB
}

type ProductSearchParams struct {
	utils.PaginationParams
	StoreID    *uuid.UUID
	CategoryID *uuid.UUID
	PriceMin   *float64
	PriceMax   *float64
	InStock    *bool
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// GetProduct implements the ProductCatalog port consumed by the cart.
// Inactive products are returned with IsActive false so the caller can
// tell "gone" apart from "no longer purchasable"; only a missing row is
// a NotFound.
func (s *ProductService) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductInfo, error) {
	var product models.Product
	err := s.db.WithContext(ctx).First(&product, "id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &ProductInfo{
		ID:            product.ID,
		Name:          product.Name,
		Price:         product.Price,
		StockQuantity: product.StockQuantity,
		InStock:       product.InStock,
		IsActive:      product.IsActive,
	}, nil
}

// GetProductDetail returns the public product view and bumps the view
// counter in the background.
func (s *ProductService) GetProductDetail(productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.
		Preload("Store").
		Preload("Category").
		First(&product, "id = ? AND is_active = ?", productID, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	go s.incrementViewCount(product.ID)

	return &product, nil
}

// SearchProducts lists active products with filtering, full-text search,
// and whitelisted sorting.
func (s *ProductService) SearchProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).Where("is_active = ?", true)

	if params.StoreID != nil {
		query = query.Where("store_id = ?", params.StoreID)
	}
	if params.CategoryID != nil {
		query = query.Where("category_id = ?", params.CategoryID)
	}
	if params.PriceMin != nil {
		query = query.Where("price >= ?", *params.PriceMin)
	}
	if params.PriceMax != nil {
		query = query.Where("price <= ?", *params.PriceMax)
	}
	if params.InStock != nil {
		query = query.Where("in_stock = ?", *params.InStock)
	}
	if params.Tag != "" {
		query = query.Where("? = ANY(tags)", params.Tag)
	}
	if params.Search != "" {
		// Matches the GIN index expression from createIndexes.
		query = query.Where(
			"to_tsvector('english', name || ' ' || description) @@ plainto_tsquery('english', ?)",
			params.Search,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	query = utils.ApplySort(query, params.PaginationParams, []string{"created_at", "price", "name", "sales_count", "view_count"})
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Preload("Store").Preload("Category").Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	return products, total, nil
}

// Helper methods
func (s *ProductService) incrementViewCount(productID uuid.UUID) {
	err := s.db.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
	if err != nil {
		logrus.WithError(err).WithField("product_id", productID).Warn("failed to increment view count")
	}
}
