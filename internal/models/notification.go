// internal/models/notification.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a persisted in-app record; delivery over external
// channels is out of scope.
type Notification struct {
	BaseModel
	UserID  uuid.UUID        `json:"user_id" gorm:"type:uuid;not null;index"`
	Type    NotificationType `json:"type" gorm:"type:varchar(50);not null;index"`
	Title   string           `json:"title" gorm:"size:255;not null"`
	Message string           `json:"message" gorm:"type:text;not null"`
	Data    JSONB            `json:"data" gorm:"type:jsonb"`
	IsRead  bool             `json:"is_read" gorm:"default:false;index"`
	ReadAt  *time.Time       `json:"read_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
