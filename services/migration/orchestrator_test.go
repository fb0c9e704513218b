package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Luisant-git/Whatsapp-campaign-sub001/shared/models"
)

// -------- test fakes --------

// fakeProvisioner hands out pre-opened tenant stores instead of issuing DDL.
type fakeProvisioner struct {
	targets map[string]*gorm.DB
	failFor map[uint]error
	calls   int
}

func newFakeProvisioner() *fakeProvisioner {
	return &fakeProvisioner{
		targets: make(map[string]*gorm.DB),
		failFor: make(map[uint]error),
	}
}

func (f *fakeProvisioner) addTenant(t *testing.T, ownerID uint) *gorm.DB {
	t.Helper()
	name := TenantDBName(ownerID)
	db := openTenantDB(t, name)
	f.targets[name] = db
	return db
}

func (f *fakeProvisioner) Provision(ctx context.Context, ownerID uint) (*StorageCoordinates, error) {
	f.calls++
	if err := f.failFor[ownerID]; err != nil {
		return nil, &ProvisionError{Step: "create-database", DBName: TenantDBName(ownerID), Err: err}
	}
	return &StorageCoordinates{
		DBName:   TenantDBName(ownerID),
		Host:     "localhost",
		Port:     "5432",
		User:     TenantDBUser(ownerID),
		Password: "s3cretS3cretS3cretS3cret",
	}, nil
}

func (f *fakeProvisioner) connector() TenantConnector {
	return func(coords *StorageCoordinates) (*gorm.DB, error) {
		db, ok := f.targets[coords.DBName]
		if !ok {
			return nil, fmt.Errorf("no test store for %s", coords.DBName)
		}
		return db, nil
	}
}

// fakePublisher records outcomes instead of writing to Kafka, along with the
// liveness of the context each publish was handed.
type fakePublisher struct {
	events  []*OwnerOutcome
	ctxErrs []error
}

func (f *fakePublisher) PublishOutcome(ctx context.Context, outcome *OwnerOutcome) error {
	f.events = append(f.events, outcome)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	return nil
}

func newTestOrchestrator(t *testing.T, source *gorm.DB, registry *Registry, prov *fakeProvisioner) *Orchestrator {
	t.Helper()
	return NewOrchestrator(source, registry, prov, prov.connector())
}

func outcomeFor(t *testing.T, report *Report, ownerID uint) *OwnerOutcome {
	t.Helper()
	for _, o := range report.Snapshot().Outcomes {
		if o.OwnerID == ownerID {
			return o
		}
	}
	t.Fatalf("no outcome recorded for owner %d", ownerID)
	return nil
}

// -------- tests --------

func TestOrchestratorMigratesAllOwners(t *testing.T) {
	source := openSourceDB(t)
	registry := newTestRegistry(t)
	prov := newFakeProvisioner()

	seedOwner(t, source, 1, "owner1@example.com")
	seedOwner(t, source, 2, "owner2@example.com")
	tenant1 := prov.addTenant(t, 1)
	tenant2 := prov.addTenant(t, 2)

	require.NoError(t, source.Create(&models.Group{ID: 10, UserID: 1, Name: "VIP"}).Error)
	for i := 0; i < 6; i++ {
		require.NoError(t, source.Create(&models.Contact{
			UserID: 1, Name: fmt.Sprintf("c%d", i), Phone: fmt.Sprintf("+%d", i), GroupID: groupID(10),
		}).Error)
	}

	orch := newTestOrchestrator(t, source, registry, prov)
	publisher := &fakePublisher{}
	orch.Publisher = publisher

	report, err := orch.Run(context.Background())
	require.NoError(t, err)

	snap := report.Snapshot()
	assert.Equal(t, 2, snap.Done)
	assert.Zero(t, snap.Failed)
	assert.Zero(t, snap.Skipped)

	o1 := outcomeFor(t, report, 1)
	assert.Equal(t, StateDone, o1.State)
	assert.Equal(t, "tenant_1", o1.DBName)
	assert.EqualValues(t, 6, o1.Counts[KindContacts])

	o2 := outcomeFor(t, report, 2)
	assert.Equal(t, StateDone, o2.State)
	assert.Equal(t, "tenant_2", o2.DBName)
	assert.Zero(t, o2.Counts[KindContacts])

	// tenant_1 holds exactly one group named VIP and six contacts,
	// tenant_2 holds nothing.
	var groups, contacts int64
	require.NoError(t, tenant1.Model(&models.TenantGroup{}).Count(&groups).Error)
	require.NoError(t, tenant1.Model(&models.TenantContact{}).Count(&contacts).Error)
	assert.EqualValues(t, 1, groups)
	assert.EqualValues(t, 6, contacts)
	require.NoError(t, tenant2.Model(&models.TenantGroup{}).Count(&groups).Error)
	require.NoError(t, tenant2.Model(&models.TenantContact{}).Count(&contacts).Error)
	assert.Zero(t, groups)
	assert.Zero(t, contacts)

	// Registry ends with two rows carrying the derived database names.
	var tenants []models.Tenant
	require.NoError(t, registry.db.Order("user_id").Find(&tenants).Error)
	require.Len(t, tenants, 2)
	assert.Equal(t, "tenant_1", tenants[0].DBName)
	assert.Equal(t, "tenant_2", tenants[1].DBName)

	assert.Len(t, publisher.events, 2)
}

func TestOrchestratorIsolatesProvisioningFailure(t *testing.T) {
	source := openSourceDB(t)
	registry := newTestRegistry(t)
	prov := newFakeProvisioner()

	seedOwner(t, source, 1, "owner1@example.com")
	seedOwner(t, source, 2, "owner2@example.com")
	prov.failFor[1] = errors.New("disk full")
	prov.addTenant(t, 2)

	report, err := newTestOrchestrator(t, source, registry, prov).Run(context.Background())
	require.NoError(t, err)

	o1 := outcomeFor(t, report, 1)
	assert.Equal(t, StateFailed, o1.State)
	assert.Equal(t, "provision", o1.FailedStage)

	o2 := outcomeFor(t, report, 2)
	assert.Equal(t, StateDone, o2.State)

	// Only the healthy owner reached the registry.
	var count int64
	require.NoError(t, registry.db.Model(&models.Tenant{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestOrchestratorRerunIsNoOp(t *testing.T) {
	source := openSourceDB(t)
	registry := newTestRegistry(t)
	prov := newFakeProvisioner()

	seedOwner(t, source, 1, "owner1@example.com")
	seedOwner(t, source, 2, "owner2@example.com")
	prov.addTenant(t, 1)
	prov.addTenant(t, 2)

	_, err := newTestOrchestrator(t, source, registry, prov).Run(context.Background())
	require.NoError(t, err)

	var before int64
	require.NoError(t, registry.db.Model(&models.Tenant{}).Count(&before).Error)

	rerunProv := newFakeProvisioner()
	report, err := newTestOrchestrator(t, source, registry, rerunProv).Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, rerunProv.calls, "re-run must not provision already-migrated owners")

	var after int64
	require.NoError(t, registry.db.Model(&models.Tenant{}).Count(&after).Error)
	assert.Equal(t, before, after, "re-run must not write to the registry")

	snap := report.Snapshot()
	assert.Equal(t, 2, snap.Skipped)
	assert.Zero(t, snap.Failed)
}

func TestOrchestratorSkipsPreRegisteredOwner(t *testing.T) {
	source := openSourceDB(t)
	registry := newTestRegistry(t)
	prov := newFakeProvisioner()

	owner1 := seedOwner(t, source, 1, "owner1@example.com")
	seedOwner(t, source, 2, "owner2@example.com")
	prov.addTenant(t, 2)

	// Owner 1 already has a directory row from a previous run.
	_, err := registry.CreateTenantRecord(context.Background(), owner1, testCoordinates(owner1.ID))
	require.NoError(t, err)

	report, err := newTestOrchestrator(t, source, registry, prov).Run(context.Background())
	require.NoError(t, err)

	o1 := outcomeFor(t, report, 1)
	assert.True(t, o1.Skipped)
	assert.Equal(t, 1, prov.calls, "provisioner must only run for owner 2")

	var count int64
	require.NoError(t, registry.db.Model(&models.Tenant{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestOrchestratorPublishesOnLiveContext(t *testing.T) {
	source := openSourceDB(t)
	registry := newTestRegistry(t)
	prov := newFakeProvisioner()

	seedOwner(t, source, 1, "owner1@example.com")
	seedOwner(t, source, 2, "owner2@example.com")
	prov.addTenant(t, 1)
	prov.failFor[2] = errors.New("disk full")

	orch := newTestOrchestrator(t, source, registry, prov)
	publisher := &fakePublisher{}
	orch.Publisher = publisher

	// The default per-owner timeout stays on: its cancellation must never
	// leak into the publish, for successful and failed owners alike.
	require.Positive(t, orch.OwnerTimeout)

	_, err := orch.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, publisher.events, 2)
	for i, ctxErr := range publisher.ctxErrs {
		assert.NoError(t, ctxErr, "publish %d must receive a live context", i)
	}
}

func TestOrchestratorContinuesAfterCollectionFailure(t *testing.T) {
	source := openSourceDB(t)
	registry := newTestRegistry(t)
	prov := newFakeProvisioner()

	seedOwner(t, source, 1, "owner1@example.com")
	tenant1 := prov.addTenant(t, 1)

	for i := 1; i <= 10; i++ {
		phone := fmt.Sprintf("+%d", i)
		if i == 7 {
			phone = "+1"
		}
		require.NoError(t, source.Create(&models.Contact{
			ID: uint(i), UserID: 1, Name: fmt.Sprintf("c%d", i), Phone: phone,
		}).Error)
	}
	require.NoError(t, source.Create(&models.Message{UserID: 1, Phone: "+99", Body: "hi"}).Error)
	require.NoError(t, source.Create(&models.Message{UserID: 1, Phone: "+98", Body: "ho"}).Error)

	// Force a mid-collection failure at the seventh contact.
	require.NoError(t, tenant1.Exec(`CREATE UNIQUE INDEX idx_contacts_phone ON contacts(phone)`).Error)

	report, err := newTestOrchestrator(t, source, registry, prov).Run(context.Background())
	require.NoError(t, err)

	o1 := outcomeFor(t, report, 1)
	assert.Equal(t, StateFailed, o1.State)
	assert.Equal(t, "data:contacts", o1.FailedStage)
	assert.EqualValues(t, 6, o1.Counts[KindContacts], "partial count must reflect committed rows")
	assert.EqualValues(t, 2, o1.Counts[KindMessages], "later collections must still be attempted")
	assert.NotEmpty(t, o1.Errors)
}
