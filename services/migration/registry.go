package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Luisant-git/Whatsapp-campaign-sub001/shared/models"
)

// Registry provides access to the central tenant directory.
type Registry struct {
	db *gorm.DB
}

func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{db: db}
}

// EnsureSchema brings the directory table up to the current model. Safe to
// re-run.
func (r *Registry) EnsureSchema() error {
	if err := r.db.AutoMigrate(&models.Tenant{}); err != nil {
		return &SchemaError{DBName: "registry", Err: err}
	}
	return nil
}

// FindTenantRecord looks up the directory record for an owner. Returns
// (nil, nil) when no record exists.
func (r *Registry) FindTenantRecord(ctx context.Context, ownerID uint) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.WithContext(ctx).Where("user_id = ?", ownerID).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up tenant record for owner %d: %w", ownerID, err)
	}
	return &tenant, nil
}

// CreateTenantRecord inserts one directory row copying the owner's identity
// and subscription fields verbatim alongside the new storage coordinates.
// Returns ErrDuplicateTenant if a record for that owner already exists.
func (r *Registry) CreateTenantRecord(ctx context.Context, owner *models.User, coords *StorageCoordinates) (*models.Tenant, error) {
	existing, err := r.FindTenantRecord(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("owner %d: %w", owner.ID, ErrDuplicateTenant)
	}

	tenant := models.Tenant{
		ID:                uuid.New(),
		UserID:            owner.ID,
		Email:             owner.Email,
		Name:              owner.Name,
		Password:          owner.Password, // already hashed, never re-hashed
		IsActive:          owner.IsActive,
		PlanID:            owner.PlanID,
		SubscriptionStart: owner.SubscriptionStart,
		SubscriptionEnd:   owner.SubscriptionEnd,
		DBName:            coords.DBName,
		DBHost:            coords.Host,
		DBPort:            coords.Port,
		DBUser:            coords.User,
		DBPassword:        coords.Password,
	}

	if err := r.db.WithContext(ctx).Create(&tenant).Error; err != nil {
		return nil, fmt.Errorf("failed to create tenant record for owner %d: %w", owner.ID, err)
	}
	return &tenant, nil
}
