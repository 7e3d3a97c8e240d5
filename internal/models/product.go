// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Product struct {
	BaseModel
	StoreID       uuid.UUID      `json:"store_id" gorm:"type:uuid;not null;index"`
	CategoryID    uuid.UUID      `json:"category_id" gorm:"type:uuid;not null;index"`
	Name          string         `json:"name" gorm:"size:255;not null"`
	Slug          string         `json:"slug" gorm:"size:255;not null;index"`
	Description   string         `json:"description" gorm:"type:text"`
	Price         float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	StockQuantity int            `json:"stock_quantity" gorm:"default:0"`
	InStock       bool           `json:"in_stock" gorm:"default:true;index"`
	IsActive      bool           `json:"is_active" gorm:"default:true;index"`
	Images        pq.StringArray `json:"images" gorm:"type:text[]"`
	Tags          pq.StringArray `json:"tags" gorm:"type:text[]"`
	ViewCount     int64          `json:"view_count" gorm:"default:0"`
	SalesCount    int64          `json:"sales_count" gorm:"default:0"`

	// Relationships
	Store    Store    `json:"store,omitempty" gorm:"foreignKey:StoreID"`
	Category Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}
