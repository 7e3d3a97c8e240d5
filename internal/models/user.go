// internal/models/user.go
package models

import (
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	FirstName    string     `json:"first_name" gorm:"size:100;not null"`
	LastName     string     `json:"last_name" gorm:"size:100;not null"`
	Phone        string     `json:"phone" gorm:"size:20"`
	Role         UserRole   `json:"role" gorm:"type:varchar(20);not null;index"`
	Status       UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	Rating       *float64   `json:"rating" gorm:"type:decimal(3,2)"`
	RatingCount  int64      `json:"rating_count" gorm:"default:0"`

	// Relationships
	Stores          []Store  `json:"stores,omitempty" gorm:"foreignKey:OwnerID"`
	Orders          []Order  `json:"orders,omitempty" gorm:"foreignKey:UserID"`
	ReviewsGiven    []Review `json:"reviews_given,omitempty" gorm:"foreignKey:GiverID"`
	ReviewsReceived []Review `json:"reviews_received,omitempty" gorm:"foreignKey:ReceiverID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
