package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Luisant-git/Whatsapp-campaign-sub001/shared/models"
)

// CollectionKind names one category of business data migrated as a unit.
type CollectionKind string

const (
	KindSettings     CollectionKind = "settings"
	KindContacts     CollectionKind = "contacts"
	KindMessages     CollectionKind = "messages"
	KindAutoReplies  CollectionKind = "auto_replies"
	KindQuickReplies CollectionKind = "quick_replies"
	KindLabels       CollectionKind = "labels"
	KindDocuments    CollectionKind = "documents"
)

// collectionOrder fixes the copy order for every owner. Kinds are independent
// of each other; the contact/group relation is resolved inside the contacts
// handler.
var collectionOrder = []CollectionKind{
	KindSettings,
	KindContacts,
	KindMessages,
	KindAutoReplies,
	KindQuickReplies,
	KindLabels,
	KindDocuments,
}

// migrateFunc copies one collection for one owner and reports rows written.
// On failure it still returns the count committed before the error.
type migrateFunc func(ctx context.Context, source, target *gorm.DB, ownerID uint) (int64, error)

var collectionHandlers = map[CollectionKind]migrateFunc{
	KindSettings:     migrateSettings,
	KindContacts:     migrateContacts,
	KindMessages:     migrateMessages,
	KindAutoReplies:  migrateAutoReplies,
	KindQuickReplies: migrateQuickReplies,
	KindLabels:       migrateLabels,
	KindDocuments:    migrateDocuments,
}

// MigrateCollection copies one collection kind for one owner from the source
// store into a tenant store. The owner-scoping column is dropped, every other
// business field is preserved verbatim, and source rows are never touched.
// The context bounds every read and write.
func MigrateCollection(ctx context.Context, source, target *gorm.DB, ownerID uint, kind CollectionKind) (int64, error) {
	handler, ok := collectionHandlers[kind]
	if !ok {
		return 0, fmt.Errorf("unknown collection kind %q", kind)
	}
	return handler(ctx, source, target, ownerID)
}

// groupResolver deduplicates named groups inside one tenant store. Group ids
// from the source store carry no meaning in the new store, so contacts are
// re-linked through the group's name: the first reference to a name creates
// the group, every later reference reuses its id. The cache is per target
// store and lives for one migration run.
type groupResolver struct {
	db  *gorm.DB
	ids map[string]uint
}

func newGroupResolver(db *gorm.DB) *groupResolver {
	return &groupResolver{db: db, ids: make(map[string]uint)}
}

// Resolve returns the tenant-store id for a group name, creating the group on
// first sight.
func (g *groupResolver) Resolve(name string) (uint, error) {
	if id, ok := g.ids[name]; ok {
		return id, nil
	}

	var existing models.TenantGroup
	err := g.db.Where("name = ?", name).First(&existing).Error
	if err == nil {
		g.ids[name] = existing.ID
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	created := models.TenantGroup{Name: name}
	if err := g.db.Create(&created).Error; err != nil {
		return 0, err
	}
	g.ids[name] = created.ID
	return created.ID, nil
}

func migrateSettings(ctx context.Context, source, target *gorm.DB, ownerID uint) (int64, error) {
	src, dst := source.WithContext(ctx), target.WithContext(ctx)

	var rows []models.Setting
	if err := src.Where("user_id = ?", ownerID).Find(&rows).Error; err != nil {
		return 0, &EntityCopyError{Kind: KindSettings, Err: err}
	}

	var count int64
	for _, row := range rows {
		rec := models.TenantSetting{
			InstanceName: row.InstanceName,
			APIKey:       row.APIKey,
			WebhookURL:   row.WebhookURL,
			IsDefault:    row.IsDefault,
			CreatedAt:    row.CreatedAt,
			UpdatedAt:    row.UpdatedAt,
		}
		if err := dst.Create(&rec).Error; err != nil {
			return count, &EntityCopyError{Kind: KindSettings, SourceID: row.ID, Err: err}
		}
		count++
	}
	return count, nil
}

func migrateContacts(ctx context.Context, source, target *gorm.DB, ownerID uint) (int64, error) {
	src, dst := source.WithContext(ctx), target.WithContext(ctx)

	// Group names are needed to translate each contact's group reference.
	var groups []models.Group
	if err := src.Where("user_id = ?", ownerID).Find(&groups).Error; err != nil {
		return 0, &EntityCopyError{Kind: KindContacts, Err: err}
	}
	groupNames := make(map[uint]string, len(groups))
	for _, g := range groups {
		groupNames[g.ID] = g.Name
	}

	var rows []models.Contact
	if err := src.Where("user_id = ?", ownerID).Find(&rows).Error; err != nil {
		return 0, &EntityCopyError{Kind: KindContacts, Err: err}
	}

	resolver := newGroupResolver(dst)
	var count int64
	for _, row := range rows {
		rec := models.TenantContact{
			Name:      row.Name,
			Phone:     row.Phone,
			Email:     row.Email,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		}
		if row.GroupID != nil {
			name, ok := groupNames[*row.GroupID]
			if !ok {
				// Dangling reference in the source; the contact is copied
				// ungrouped rather than dropped.
				logrus.WithFields(logrus.Fields{
					"owner_id":   ownerID,
					"contact_id": row.ID,
					"group_id":   *row.GroupID,
				}).Warn("contact references missing group, copying without group")
			} else {
				groupID, err := resolver.Resolve(name)
				if err != nil {
					return count, &EntityCopyError{Kind: KindContacts, SourceID: row.ID, Err: err}
				}
				rec.GroupID = &groupID
			}
		}
		if err := dst.Create(&rec).Error; err != nil {
			return count, &EntityCopyError{Kind: KindContacts, SourceID: row.ID, Err: err}
		}
		count++
	}
	return count, nil
}

func migrateMessages(ctx context.Context, source, target *gorm.DB, ownerID uint) (int64, error) {
	src, dst := source.WithContext(ctx), target.WithContext(ctx)

	var rows []models.Message
	if err := src.Where("user_id = ?", ownerID).Find(&rows).Error; err != nil {
		return 0, &EntityCopyError{Kind: KindMessages, Err: err}
	}

	var count int64
	for _, row := range rows {
		rec := models.TenantMessage{
			Phone:     row.Phone,
			Direction: row.Direction,
			Body:      row.Body,
			MediaURL:  row.MediaURL,
			Status:    row.Status,
			SentAt:    row.SentAt,
			CreatedAt: row.CreatedAt,
		}
		if err := dst.Create(&rec).Error; err != nil {
			return count, &EntityCopyError{Kind: KindMessages, SourceID: row.ID, Err: err}
		}
		count++
	}
	return count, nil
}

func migrateAutoReplies(ctx context.Context, source, target *gorm.DB, ownerID uint) (int64, error) {
	src, dst := source.WithContext(ctx), target.WithContext(ctx)

	var rows []models.AutoReply
	if err := src.Where("user_id = ?", ownerID).Find(&rows).Error; err != nil {
		return 0, &EntityCopyError{Kind: KindAutoReplies, Err: err}
	}

	var count int64
	for _, row := range rows {
		rec := models.TenantAutoReply{
			Name:      row.Name,
			Triggers:  row.Triggers,
			Reply:     row.Reply,
			MatchType: row.MatchType,
			IsActive:  row.IsActive,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		}
		if err := dst.Create(&rec).Error; err != nil {
			return count, &EntityCopyError{Kind: KindAutoReplies, SourceID: row.ID, Err: err}
		}
		count++
	}
	return count, nil
}

func migrateQuickReplies(ctx context.Context, source, target *gorm.DB, ownerID uint) (int64, error) {
	src, dst := source.WithContext(ctx), target.WithContext(ctx)

	var rows []models.QuickReply
	if err := src.Where("user_id = ?", ownerID).Find(&rows).Error; err != nil {
		return 0, &EntityCopyError{Kind: KindQuickReplies, Err: err}
	}

	var count int64
	for _, row := range rows {
		rec := models.TenantQuickReply{
			Shortcut:  row.Shortcut,
			Body:      row.Body,
			Buttons:   row.Buttons,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		}
		if err := dst.Create(&rec).Error; err != nil {
			return count, &EntityCopyError{Kind: KindQuickReplies, SourceID: row.ID, Err: err}
		}
		count++
	}
	return count, nil
}

func migrateLabels(ctx context.Context, source, target *gorm.DB, ownerID uint) (int64, error) {
	src, dst := source.WithContext(ctx), target.WithContext(ctx)

	var rows []models.Label
	if err := src.Where("user_id = ?", ownerID).Find(&rows).Error; err != nil {
		return 0, &EntityCopyError{Kind: KindLabels, Err: err}
	}

	var count int64
	for _, row := range rows {
		rec := models.TenantLabel{
			Name:      row.Name,
			Color:     row.Color,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		}
		if err := dst.Create(&rec).Error; err != nil {
			return count, &EntityCopyError{Kind: KindLabels, SourceID: row.ID, Err: err}
		}
		count++
	}
	return count, nil
}

func migrateDocuments(ctx context.Context, source, target *gorm.DB, ownerID uint) (int64, error) {
	src, dst := source.WithContext(ctx), target.WithContext(ctx)

	var rows []models.Document
	if err := src.Where("user_id = ?", ownerID).Find(&rows).Error; err != nil {
		return 0, &EntityCopyError{Kind: KindDocuments, Err: err}
	}

	var count int64
	for _, row := range rows {
		rec := models.TenantDocument{
			FileName:  row.FileName,
			FilePath:  row.FilePath,
			MimeType:  row.MimeType,
			SizeBytes: row.SizeBytes,
			Caption:   row.Caption,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		}
		if err := dst.Create(&rec).Error; err != nil {
			return count, &EntityCopyError{Kind: KindDocuments, SourceID: row.ID, Err: err}
		}
		count++
	}
	return count, nil
}
