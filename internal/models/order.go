// internal/models/order.go
package models

import (
	"github.com/google/uuid"
)

type Order struct {
	BaseModel
	UserID               uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;index"`
	OrderNumber          string        `json:"order_number" gorm:"uniqueIndex;size:32;not null"`
	Status               OrderStatus   `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentStatus        PaymentStatus `json:"payment_status" gorm:"type:varchar(20);default:'pending';index"`
	Subtotal             float64       `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	DeliveryFee          float64       `json:"delivery_fee" gorm:"type:decimal(10,2);default:0"`
	Total                float64       `json:"total" gorm:"type:decimal(10,2);not null"`
	DeliveryAddress      JSONB         `json:"delivery_address" gorm:"type:jsonb"`
	DeliveryInstructions string        `json:"delivery_instructions,omitempty" gorm:"type:text"`
	PaymentReference     string        `json:"payment_reference" gorm:"size:255"`
	Items                []OrderItem   `json:"items,omitempty" gorm:"foreignKey:OrderID"`

	// PaymentClientSecret is handed to the client once at checkout so it
	// can complete the Stripe payment; it is never persisted.
	PaymentClientSecret string `json:"payment_client_secret,omitempty" gorm:"-"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

type OrderItem struct {
	BaseModel
	OrderID     uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	ProductName string    `json:"product_name" gorm:"size:255;not null"`
	Quantity    int       `json:"quantity" gorm:"not null"`
	UnitPrice   float64   `json:"unit_price" gorm:"type:decimal(10,2);not null"` // price at checkout
	TotalPrice  float64   `json:"total_price" gorm:"type:decimal(10,2);not null"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
