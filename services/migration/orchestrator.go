package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Luisant-git/Whatsapp-campaign-sub001/shared/models"
)

// Orchestrator drives the per-owner migration pipeline: provision an isolated
// store, register it in the central directory, copy every collection kind.
// Owners are processed one at a time and fully independently; one owner's
// failure is recorded and never blocks the rest of the batch.
type Orchestrator struct {
	source      *gorm.DB
	registry    *Registry
	provisioner Provisioner
	connect     TenantConnector
	report      *Report

	// OwnerTimeout bounds one owner's whole pipeline so a stuck provisioning
	// call cannot stall the batch. Zero disables the bound.
	OwnerTimeout time.Duration

	// Publisher, when set, receives every processed owner's outcome.
	Publisher EventPublisher
}

func NewOrchestrator(source *gorm.DB, registry *Registry, provisioner Provisioner, connect TenantConnector) *Orchestrator {
	return &Orchestrator{
		source:       source,
		registry:     registry,
		provisioner:  provisioner,
		connect:      connect,
		report:       NewReport(),
		OwnerTimeout: 5 * time.Minute,
	}
}

// Report exposes the run's outcomes; safe to read while Run is in progress.
func (o *Orchestrator) Report() *Report {
	return o.report
}

// Run migrates every owner found in the source store and returns the
// per-owner outcome report. The returned error covers only run-level
// conditions (owner enumeration); per-owner failures live in the report.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	var owners []models.User
	if err := o.source.WithContext(ctx).Find(&owners).Error; err != nil {
		return nil, fmt.Errorf("failed to enumerate owners: %w", err)
	}

	logrus.Infof("starting migration for %d owners", len(owners))
	for i := range owners {
		o.migrateOwner(ctx, &owners[i])
	}
	o.report.Finish()

	return o.report, nil
}

func (o *Orchestrator) migrateOwner(ctx context.Context, owner *models.User) {
	outcome := &OwnerOutcome{
		OwnerID: owner.ID,
		Email:   owner.Email,
		State:   StatePending,
	}
	log := logrus.WithFields(logrus.Fields{"owner_id": owner.ID, "email": owner.Email})

	defer func() {
		o.report.Record(outcome)
		if o.Publisher != nil && !outcome.Skipped {
			// Publish on the batch context: the per-owner timeout context is
			// already canceled by the time deferred calls run.
			if err := o.Publisher.PublishOutcome(ctx, outcome); err != nil {
				log.WithError(err).Warn("failed to publish migration outcome")
			}
		}
	}()

	// Idempotent re-run guard: a directory record means this owner already
	// finished (or is an operator problem past REGISTERED, see below).
	existing, err := o.registry.FindTenantRecord(ctx, owner.ID)
	if err != nil {
		outcome.fail("registry", err)
		log.WithError(err).Error("registry lookup failed")
		return
	}
	if existing != nil {
		outcome.Skipped = true
		outcome.State = StateDone
		outcome.DBName = existing.DBName
		log.Info("tenant record already exists, skipping owner")
		return
	}

	// The timeout bounds the whole pipeline: provision, register and copy all
	// run on ownerCtx so a stuck call in any stage cannot stall the batch.
	ownerCtx := ctx
	if o.OwnerTimeout > 0 {
		var cancel context.CancelFunc
		ownerCtx, cancel = context.WithTimeout(ctx, o.OwnerTimeout)
		defer cancel()
	}

	coords, err := o.provisioner.Provision(ownerCtx, owner.ID)
	if err != nil {
		outcome.fail("provision", err)
		log.WithError(err).Error("provisioning failed")
		return
	}
	outcome.State = StateProvisioned
	outcome.DBName = coords.DBName
	log.WithField("db_name", coords.DBName).Info("tenant store provisioned")

	if _, err := o.registry.CreateTenantRecord(ownerCtx, owner, coords); err != nil {
		outcome.fail("registry", err)
		log.WithError(err).Error("directory record creation failed")
		return
	}
	outcome.State = StateRegistered

	target, err := o.connect(coords)
	if err != nil {
		outcome.fail("connect", &ConnectivityError{Target: coords.DBName, Err: err})
		log.WithError(err).Error("tenant store connection failed")
		return
	}

	// Collection kinds are independent: a failure in one aborts only that
	// collection, the rest are still attempted and counted.
	var failedKind CollectionKind
	for _, kind := range collectionOrder {
		count, err := MigrateCollection(ownerCtx, o.source, target, owner.ID, kind)
		outcome.setCount(kind, count)
		if err != nil {
			if failedKind == "" {
				failedKind = kind
			}
			outcome.Errors = append(outcome.Errors, err.Error())
			log.WithError(err).Errorf("copy failed for collection %s", kind)
			continue
		}
		log.WithField("count", count).Debugf("copied collection %s", kind)
	}

	if failedKind != "" {
		outcome.State = StateFailed
		outcome.FailedStage = "data:" + string(failedKind)
		log.Warnf("owner migrated partially, first failure in %s", failedKind)
		return
	}

	outcome.State = StateDataCopied
	log.Debug("all collection kinds copied")
	outcome.State = StateDone
	log.Info("owner fully migrated")
}
