// internal/models/store.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Store struct {
	BaseModel
	OwnerID     uuid.UUID      `json:"owner_id" gorm:"type:uuid;not null;index"`
	Name        string         `json:"name" gorm:"size:255;not null"`
	Slug        string         `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Address     JSONB          `json:"address" gorm:"type:jsonb"`
	Tags        pq.StringArray `json:"tags" gorm:"type:text[]"`
	IsActive    bool           `json:"is_active" gorm:"default:true;index"`
	Rating      *float64       `json:"rating" gorm:"type:decimal(3,2)"`
	RatingCount int64          `json:"rating_count" gorm:"default:0"`

	// Relationships
	Owner    User      `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Products []Product `json:"products,omitempty" gorm:"foreignKey:StoreID"`
	Reviews  []Review  `json:"reviews,omitempty" gorm:"foreignKey:StoreID"`
}

type Category struct {
	BaseModel
	Name      string     `json:"name" gorm:"size:100;not null"`
	Slug      string     `json:"slug" gorm:"uniqueIndex;size:100;not null"`
	ParentID  *uuid.UUID `json:"parent_id" gorm:"type:uuid;index"`
	SortOrder int        `json:"sort_order" gorm:"default:0"`
	IsActive  bool       `json:"is_active" gorm:"default:true;index"`

	// Relationships
	Parent   *Category  `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Children []Category `json:"children,omitempty" gorm:"foreignKey:ParentID"`
	Products []Product  `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}
