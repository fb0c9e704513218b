package models

import (
	"time"
)

// Tenant-store variants of the owner-scoped collections. A tenant database
// belongs to exactly one owner, so the user_id column is gone; everything
// else mirrors the source models field for field. Table names stay the same
// so the application code works unchanged against a tenant store.

// TenantSetting is a configuration profile inside a tenant store.
type TenantSetting struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	InstanceName string    `json:"instance_name" gorm:"not null"`
	APIKey       string    `json:"api_key"`
	WebhookURL   string    `json:"webhook_url"`
	IsDefault    bool      `json:"is_default" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (TenantSetting) TableName() string {
	return "settings"
}

// TenantGroup is a contact group inside a tenant store. Name is unique: the
// copy deduplicates groups by name, never by source id.
type TenantGroup struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TenantGroup) TableName() string {
	return "groups"
}

// TenantContact is a contact inside a tenant store. GroupID points at a
// TenantGroup resolved by name during the copy.
type TenantContact struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone" gorm:"not null"`
	Email     string    `json:"email"`
	GroupID   *uint     `json:"group_id,omitempty" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Group *TenantGroup `json:"group,omitempty" gorm:"foreignKey:GroupID"`
}

func (TenantContact) TableName() string {
	return "contacts"
}

// TenantMessage is a message inside a tenant store.
type TenantMessage struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Phone     string     `json:"phone" gorm:"not null"`
	Direction string     `json:"direction" gorm:"type:varchar(10);default:'outgoing'"`
	Body      string     `json:"body"`
	MediaURL  string     `json:"media_url"`
	Status    string     `json:"status" gorm:"type:varchar(20);default:'pending'"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (TenantMessage) TableName() string {
	return "messages"
}

// TenantAutoReply is an auto-reply rule inside a tenant store.
type TenantAutoReply struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Triggers  string    `json:"triggers" gorm:"type:jsonb;default:'[]'"`
	Reply     string    `json:"reply"`
	MatchType string    `json:"match_type" gorm:"type:varchar(20);default:'contains'"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TenantAutoReply) TableName() string {
	return "auto_replies"
}

// TenantQuickReply is a canned response inside a tenant store.
type TenantQuickReply struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Shortcut  string    `json:"shortcut" gorm:"not null"`
	Body      string    `json:"body"`
	Buttons   string    `json:"buttons" gorm:"type:jsonb;default:'[]'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TenantQuickReply) TableName() string {
	return "quick_replies"
}

// TenantLabel is a conversation tag inside a tenant store.
type TenantLabel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Color     string    `json:"color" gorm:"type:varchar(20)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TenantLabel) TableName() string {
	return "labels"
}

// TenantDocument is a stored file inside a tenant store.
type TenantDocument struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FileName  string    `json:"file_name" gorm:"not null"`
	FilePath  string    `json:"file_path" gorm:"not null"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TenantDocument) TableName() string {
	return "documents"
}
