package main

import (
	"gorm.io/gorm"

	"github.com/Luisant-git/Whatsapp-campaign-sub001/shared/models"
)

// tenantSchema lists every model materialized in a tenant store.
var tenantSchema = []interface{}{
	&models.TenantSetting{},
	&models.TenantGroup{},
	&models.TenantContact{},
	&models.TenantMessage{},
	&models.TenantAutoReply{},
	&models.TenantQuickReply{},
	&models.TenantLabel{},
	&models.TenantDocument{},
}

// ApplyTenantSchema brings a tenant store's structure up to the current
// models. AutoMigrate is additive, so applying an already-applied schema is a
// no-op rather than an error.
func ApplyTenantSchema(db *gorm.DB, dbName string) error {
	if err := db.AutoMigrate(tenantSchema...); err != nil {
		return &SchemaError{DBName: dbName, Err: err}
	}
	return nil
}
