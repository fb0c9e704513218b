package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Luisant-git/Whatsapp-campaign-sub001/shared/config"
	"github.com/Luisant-git/Whatsapp-campaign-sub001/shared/utils"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, using environment variables")
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect stores: the legacy shared database (read-only), the central
	// registry, and the administrative engine connection for DDL.
	sourceDB, err := config.Connect(config.GetSourceDBConfig())
	if err != nil {
		log.Fatal("Failed to connect to source database:", err)
	}

	registryDB, err := config.Connect(config.GetRegistryDBConfig())
	if err != nil {
		log.Fatal("Failed to connect to registry database:", err)
	}

	adminDB, err := config.Connect(config.GetAdminConfig())
	if err != nil {
		log.Fatal("Failed to connect to admin database:", err)
	}

	registry := NewRegistry(registryDB)
	if err := registry.EnsureSchema(); err != nil {
		log.Fatal("Failed to prepare registry schema:", err)
	}

	// Single-runner lease: provisioning issues engine-wide DDL, so two
	// concurrent runs must be refused. Only active when Redis is configured.
	lockHolder := ""
	if os.Getenv("REDIS_HOST") != "" {
		if err := utils.InitRedis(); err != nil {
			log.Fatal("Failed to connect to Redis:", err)
		}
		defer utils.CloseRedis()

		lockHolder = uuid.New().String()
		acquired, err := utils.AcquireMigrationLock(lockHolder, 2*time.Hour)
		if err != nil {
			log.Fatal("Failed to acquire migration lock:", err)
		}
		if !acquired {
			log.Fatal("Another migration run holds the lock, refusing to start")
		}
	}

	tenantHost, tenantPort := config.GetTenantHostPort()
	connector := PostgresTenantConnector(config.GetTenantSSLMode())
	provisioner := NewPostgresProvisioner(adminDB, tenantHost, tenantPort, connector)

	orchestrator := NewOrchestrator(sourceDB, registry, provisioner, connector)
	if timeout := os.Getenv("OWNER_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			log.Fatal("Invalid OWNER_TIMEOUT:", err)
		}
		orchestrator.OwnerTimeout = d
	}

	if broker := os.Getenv("KAFKA_BROKER"); broker != "" {
		publisher := NewKafkaPublisher(broker)
		defer publisher.Close()
		orchestrator.Publisher = publisher
	}

	if port := os.Getenv("STATUS_PORT"); port != "" {
		startStatusServer(port, orchestrator.Report())
	}

	report, err := orchestrator.Run(context.Background())
	if lockHolder != "" {
		if err := utils.ReleaseMigrationLock(lockHolder); err != nil {
			logrus.WithError(err).Warn("failed to release migration lock")
		}
	}
	if err != nil {
		log.Fatal("Migration run failed:", err)
	}

	report.Render(os.Stdout)

	snap := report.Snapshot()
	if snap.Failed > 0 {
		logrus.Warnf("migration finished with failures: %d done, %d failed, %d skipped", snap.Done, snap.Failed, snap.Skipped)
		return
	}
	logrus.Infof("migration finished: %d done, %d failed, %d skipped", snap.Done, snap.Failed, snap.Skipped)
}
