package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is one directory row in the central registry: the post-migration
// identity of an owner plus the coordinates and credentials of its isolated
// store. At most one row exists per owner; DBName is derived from the owner
// id and is unique by construction.
type Tenant struct {
	ID                uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	UserID            uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	Email             string     `json:"email" gorm:"not null"`
	Name              string     `json:"name"`
	Password          string     `json:"-" gorm:"not null"` // bcrypt hash, copied verbatim
	IsActive          bool       `json:"is_active" gorm:"default:true"`
	PlanID            *uint      `json:"plan_id,omitempty"`
	SubscriptionStart *time.Time `json:"subscription_start,omitempty"`
	SubscriptionEnd   *time.Time `json:"subscription_end,omitempty"`

	// Storage coordinates of the tenant's isolated database.
	DBName     string `json:"db_name" gorm:"uniqueIndex;not null"`
	DBHost     string `json:"db_host" gorm:"not null"`
	DBPort     string `json:"db_port" gorm:"not null"`
	DBUser     string `json:"db_user" gorm:"not null"`
	DBPassword string `json:"-" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for the Tenant model
func (Tenant) TableName() string {
	return "tenants"
}
