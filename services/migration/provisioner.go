package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Luisant-git/Whatsapp-campaign-sub001/shared/utils"
)

// StorageCoordinates describes how to reach one tenant's isolated store.
type StorageCoordinates struct {
	DBName   string
	Host     string
	Port     string
	User     string
	Password string
}

// Provisioner creates an isolated tenant store for one owner and returns the
// coordinates needed to reach it afterward.
type Provisioner interface {
	Provision(ctx context.Context, ownerID uint) (*StorageCoordinates, error)
}

// TenantConnector opens a connection to a tenant store from its coordinates.
type TenantConnector func(coords *StorageCoordinates) (*gorm.DB, error)

// TenantDBName derives the tenant database name from the owner id. The
// derivation is deterministic so re-runs land on the same database.
func TenantDBName(ownerID uint) string {
	return fmt.Sprintf("tenant_%d", ownerID)
}

// TenantDBUser derives the tenant principal name from the owner id.
func TenantDBUser(ownerID uint) string {
	return fmt.Sprintf("tenant_user_%d", ownerID)
}

// PostgresTenantConnector returns a TenantConnector for Postgres tenant
// stores.
func PostgresTenantConnector(sslMode string) TenantConnector {
	return func(coords *StorageCoordinates) (*gorm.DB, error) {
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			coords.Host, coords.Port, coords.User, coords.Password, coords.DBName, sslMode)
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Error),
		})
		if err != nil {
			return nil, &ConnectivityError{Target: coords.DBName, Err: err}
		}
		return db, nil
	}
}

// PostgresProvisioner provisions tenant databases on a Postgres engine. The
// three DDL steps (create database, create role, grant) are not transactional
// across the engine, so each step checks for prior completion first: a re-run
// after a partial failure resumes instead of erroring.
type PostgresProvisioner struct {
	admin   *gorm.DB // administrative connection to the maintenance database
	host    string   // coordinates announced in directory rows
	port    string
	connect TenantConnector
}

func NewPostgresProvisioner(admin *gorm.DB, host, port string, connect TenantConnector) *PostgresProvisioner {
	return &PostgresProvisioner{admin: admin, host: host, port: port, connect: connect}
}

// Provision creates the owner's database and principal, grants the principal
// full rights on the database, and applies the tenant schema. A fresh secret
// is generated on every call; when the principal already exists from a prior
// partial run its password is reset so the returned coordinates stay valid.
func (p *PostgresProvisioner) Provision(ctx context.Context, ownerID uint) (*StorageCoordinates, error) {
	coords := &StorageCoordinates{
		DBName: TenantDBName(ownerID),
		Host:   p.host,
		Port:   p.port,
		User:   TenantDBUser(ownerID),
	}

	password, err := utils.GeneratePassword(utils.DefaultPasswordLength)
	if err != nil {
		return nil, &ProvisionError{Step: "credentials", DBName: coords.DBName, Err: err}
	}
	coords.Password = password

	dbExists, err := p.databaseExists(ctx, coords.DBName)
	if err != nil {
		return nil, &ProvisionError{Step: "check-database", DBName: coords.DBName, Err: err}
	}
	if dbExists {
		logrus.WithField("db_name", coords.DBName).Warn("tenant database already exists, resuming provisioning")
	} else {
		if err := p.exec(ctx, fmt.Sprintf(`CREATE DATABASE %q`, coords.DBName)); err != nil {
			return nil, &ProvisionError{Step: "create-database", DBName: coords.DBName, Err: err}
		}
	}

	roleExists, err := p.roleExists(ctx, coords.User)
	if err != nil {
		return nil, &ProvisionError{Step: "check-role", DBName: coords.DBName, Err: err}
	}
	if roleExists {
		// The previous run's secret is gone; reset it so the directory row
		// written after this call holds a working credential.
		if err := p.exec(ctx, fmt.Sprintf(`ALTER ROLE %q WITH LOGIN PASSWORD '%s'`, coords.User, coords.Password)); err != nil {
			return nil, &ProvisionError{Step: "create-role", DBName: coords.DBName, Err: err}
		}
	} else {
		if err := p.exec(ctx, fmt.Sprintf(`CREATE ROLE %q WITH LOGIN PASSWORD '%s'`, coords.User, coords.Password)); err != nil {
			return nil, &ProvisionError{Step: "create-role", DBName: coords.DBName, Err: err}
		}
	}

	// GRANT is idempotent, always issued.
	if err := p.exec(ctx, fmt.Sprintf(`GRANT ALL PRIVILEGES ON DATABASE %q TO %q`, coords.DBName, coords.User)); err != nil {
		return nil, &ProvisionError{Step: "grant", DBName: coords.DBName, Err: err}
	}

	tenantDB, err := p.connect(coords)
	if err != nil {
		return nil, &ProvisionError{Step: "connect", DBName: coords.DBName, Err: err}
	}
	if err := ApplyTenantSchema(tenantDB, coords.DBName); err != nil {
		return nil, err
	}

	return coords, nil
}

func (p *PostgresProvisioner) exec(ctx context.Context, stmt string) error {
	return p.admin.WithContext(ctx).Exec(stmt).Error
}

func (p *PostgresProvisioner) databaseExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := p.admin.WithContext(ctx).
		Raw("SELECT COUNT(1) FROM pg_database WHERE datname = ?", name).
		Scan(&count).Error
	return count > 0, err
}

func (p *PostgresProvisioner) roleExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := p.admin.WithContext(ctx).
		Raw("SELECT COUNT(1) FROM pg_roles WHERE rolname = ?", name).
		Scan(&count).Error
	return count > 0, err
}
