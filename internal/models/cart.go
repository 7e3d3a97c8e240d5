// internal/models/cart.go
package models

import (
	"github.com/google/uuid"
)

// Cart is created lazily on first access and never deleted, only emptied.
// One cart per user.
type Cart struct {
	BaseModel
	UserID uuid.UUID  `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	Items  []CartItem `json:"items,omitempty" gorm:"foreignKey:CartID"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// ItemCount returns the total quantity across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// SnapshotSubtotal sums line totals at their add-time unit prices. The
// checkout-facing subtotal is recomputed against live catalog prices by
// the cart service.
func (c *Cart) SnapshotSubtotal() float64 {
	total := 0.0
	for _, item := range c.Items {
		total += item.LineTotal()
	}
	return total
}

// CartItem holds at most one line per (cart, product); quantity is always
// >= 1, a zero-quantity update removes the line instead.
type CartItem struct {
	BaseModel
	CartID    uuid.UUID `json:"cart_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	UnitPrice float64   `json:"unit_price" gorm:"type:decimal(10,2);not null"` // price at add time

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (ci *CartItem) LineTotal() float64 {
	return float64(ci.Quantity) * ci.UnitPrice
}
