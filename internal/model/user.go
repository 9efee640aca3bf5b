package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles recognized by the API. Sellers can only record sales and read the
// catalog; admins get everything else.
const (
	RoleAdmin  = "admin"
	RoleSeller = "seller"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	FullName     string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"not null;default:'seller'"` // admin | seller
	Active       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
