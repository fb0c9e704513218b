package models

import (
	"time"
)

// User represents an account row in the legacy shared store. It is the unit
// of migration: every owner-scoped collection below hangs off User.ID. The
// migration reads these rows and never mutates them.
type User struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	Email             string     `json:"email" gorm:"uniqueIndex;not null"`
	Name              string     `json:"name"`
	Password          string     `json:"-" gorm:"not null"` // bcrypt hash, copied verbatim
	IsActive          bool       `json:"is_active" gorm:"default:true"`
	PlanID            *uint      `json:"plan_id,omitempty"`
	SubscriptionStart *time.Time `json:"subscription_start,omitempty"`
	SubscriptionEnd   *time.Time `json:"subscription_end,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Setting is a WhatsApp instance configuration profile owned by one user.
type Setting struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	InstanceName string    `json:"instance_name" gorm:"not null"`
	APIKey       string    `json:"api_key"`
	WebhookURL   string    `json:"webhook_url"`
	IsDefault    bool      `json:"is_default" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Group is a named contact group. Group names are only meaningful within one
// owner's data; ids are not portable across stores.
type Group struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Group) TableName() string {
	return "groups"
}

// Contact is an address-book entry, optionally referencing a Group.
type Contact struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone" gorm:"not null"`
	Email     string    `json:"email"`
	GroupID   *uint     `json:"group_id,omitempty" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Group *Group `json:"group,omitempty" gorm:"foreignKey:GroupID"`
}

func (Contact) TableName() string {
	return "contacts"
}

// Message is one sent or received WhatsApp message.
type Message struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	UserID    uint       `json:"user_id" gorm:"index;not null"`
	Phone     string     `json:"phone" gorm:"not null"` // counterparty number
	Direction string     `json:"direction" gorm:"type:varchar(10);default:'outgoing'"`
	Body      string     `json:"body"`
	MediaURL  string     `json:"media_url"`
	Status    string     `json:"status" gorm:"type:varchar(20);default:'pending'"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

// AutoReply is a rule that answers incoming messages matching its triggers.
// Triggers is a JSON array of keyword strings.
type AutoReply struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Name      string    `json:"name" gorm:"not null"`
	Triggers  string    `json:"triggers" gorm:"type:jsonb;default:'[]'"`
	Reply     string    `json:"reply"`
	MatchType string    `json:"match_type" gorm:"type:varchar(20);default:'contains'"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AutoReply) TableName() string {
	return "auto_replies"
}

// QuickReply is a canned response selectable from the chat UI. Buttons is a
// JSON array of button definitions.
type QuickReply struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Shortcut  string    `json:"shortcut" gorm:"not null"`
	Body      string    `json:"body"`
	Buttons   string    `json:"buttons" gorm:"type:jsonb;default:'[]'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (QuickReply) TableName() string {
	return "quick_replies"
}

// Label is a conversation tag.
type Label struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Name      string    `json:"name" gorm:"not null"`
	Color     string    `json:"color" gorm:"type:varchar(20)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Label) TableName() string {
	return "labels"
}

// Document is a stored file attached to campaigns or chats.
type Document struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	FileName  string    `json:"file_name" gorm:"not null"`
	FilePath  string    `json:"file_path" gorm:"not null"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Document) TableName() string {
	return "documents"
}
