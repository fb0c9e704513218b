package main

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Luisant-git/Whatsapp-campaign-sub001/shared/models"
)

// openTestDB opens a named in-memory sqlite database. The name is scoped to
// the running test so parallel tests never share state, while every
// connection from the same gorm pool sees the same database.
func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"), name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

// openSourceDB opens a test stand-in for the legacy shared store.
func openSourceDB(t *testing.T) *gorm.DB {
	t.Helper()

	db := openTestDB(t, "source")
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Setting{},
		&models.Group{},
		&models.Contact{},
		&models.Message{},
		&models.AutoReply{},
		&models.QuickReply{},
		&models.Label{},
		&models.Document{},
	))
	return db
}

// openTenantDB opens a test tenant store with the tenant schema applied.
func openTenantDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	db := openTestDB(t, name)
	require.NoError(t, ApplyTenantSchema(db, name))
	return db
}

func seedOwner(t *testing.T, db *gorm.DB, id uint, email string) *models.User {
	t.Helper()

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	plan := uint(2)
	owner := &models.User{
		ID:                id,
		Email:             email,
		Name:              "Owner " + email,
		Password:          "$2a$10$abcdefghijklmnopqrstuv",
		IsActive:          true,
		PlanID:            &plan,
		SubscriptionStart: &start,
		SubscriptionEnd:   &end,
	}
	require.NoError(t, db.Create(owner).Error)
	return owner
}

func groupID(id uint) *uint {
	return &id
}
