// internal/models/review.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Review targets either a user (ReceiverID) or a store (StoreID), never
// both. Core fields are immutable; rating and comment are editable by the
// giver within the edit window only.
type Review struct {
	BaseModel
	GiverID      uuid.UUID  `json:"giver_id" gorm:"type:uuid;not null;index"`
	ReceiverID   *uuid.UUID `json:"receiver_id" gorm:"type:uuid;index"`
	StoreID      *uuid.UUID `json:"store_id" gorm:"type:uuid;index"`
	BookingID    *uuid.UUID `json:"booking_id" gorm:"type:uuid;index"`
	ReviewType   ReviewType `json:"review_type" gorm:"type:varchar(20);not null;index"`
	Rating       int        `json:"rating" gorm:"not null"`
	Comment      string     `json:"comment" gorm:"type:text"`
	HelpfulCount int64      `json:"helpful_count" gorm:"default:0"`

	// Relationships
	Giver    User   `json:"giver,omitempty" gorm:"foreignKey:GiverID"`
	Receiver *User  `json:"receiver,omitempty" gorm:"foreignKey:ReceiverID"`
	Store    *Store `json:"store,omitempty" gorm:"foreignKey:StoreID"`
}

// EditableAt reports whether the giver may still modify the review at t.
func (r *Review) EditableAt(t time.Time, window time.Duration) bool {
	return t.Sub(r.CreatedAt) <= window
}

// ReviewVote records one helpful vote per user per review.
type ReviewVote struct {
	BaseModel
	ReviewID uuid.UUID `json:"review_id" gorm:"type:uuid;not null;index"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`

	// Relationships
	Review Review `json:"review,omitempty" gorm:"foreignKey:ReviewID"`
	User   User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
