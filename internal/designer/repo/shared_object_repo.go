package repo

import (
	"errors"
	"fmt"

	"studio/internal/designer/models"

	"gorm.io/gorm"
)

// SharedObjectRepository stores shared objects in the main database, one
// row per (scope, kind, name).
type SharedObjectRepository struct {
	Db *gorm.DB
}

func NewSharedObjectRepository(db *gorm.DB) *SharedObjectRepository {
	return &SharedObjectRepository{Db: db}
}

// FindRecords returns the rows of a scope in insertion order.
func (slf *SharedObjectRepository) FindRecords(scope string) ([]models.SharedObjectRecord, error) {
	var records []models.SharedObjectRecord
	err := slf.Db.Where("scope = ?", scope).Order("id").Find(&records).Error
	return records, err
}

func (slf *SharedObjectRepository) FindByID(id uint) (models.SharedObjectRecord, error) {
	var record models.SharedObjectRecord
	err := slf.Db.First(&record, id).Error
	return record, err
}

func (slf *SharedObjectRepository) LoadSharedObjects(scope string) ([]models.SharedObject, error) {
	records, err := slf.FindRecords(scope)
	if err != nil {
		return nil, err
	}
	return decodeRecords(records)
}

// SaveSharedObjects upserts every object of the scope. An object that already
// carries an ObjectID updates its own row, so renames keep their identity.
// Objects saved for the first time receive the ID of their new row once the
// transaction is committed.
func (slf *SharedObjectRepository) SaveSharedObjects(scope string, objects []models.SharedObject) error {
	assigned := make(map[models.SharedObject]models.ObjectID)

	err := slf.Db.Transaction(func(tx *gorm.DB) error {
		for _, object := range objects {
			id, err := saveOne(tx, scope, object)
			if err != nil {
				return err
			}
			if object.GetObjectID() != id {
				assigned[object] = id
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for object, id := range assigned {
		object.SetObjectID(id)
	}
	return nil
}

func saveOne(tx *gorm.DB, scope string, object models.SharedObject) (models.ObjectID, error) {
	payload, err := models.MarshalSharedObject(object)
	if err != nil {
		return 0, fmt.Errorf("encode %s %q: %w", object.Kind(), object.GetName(), err)
	}

	var record models.SharedObjectRecord
	found := false

	if id := object.GetObjectID(); !id.IsZero() {
		err = tx.Where("id = ? AND scope = ? AND kind = ?", uint(id), scope, string(object.Kind())).First(&record).Error
		switch {
		case err == nil:
			found = true
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return 0, err
		}
	}
	if !found {
		err = tx.Where("scope = ? AND kind = ? AND name = ?", scope, string(object.Kind()), object.GetName()).First(&record).Error
		switch {
		case err == nil:
			found = true
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return 0, err
		}
	}

	if !found {
		record = models.SharedObjectRecord{
			Scope:   scope,
			Kind:    object.Kind(),
			Name:    object.GetName(),
			Payload: string(payload),
		}
		if err := tx.Create(&record).Error; err != nil {
			return 0, fmt.Errorf("create %s %q: %w", object.Kind(), object.GetName(), err)
		}
		return models.ObjectID(record.ID), nil
	}

	record.Name = object.GetName()
	record.Payload = string(payload)
	if err := tx.Save(&record).Error; err != nil {
		return 0, fmt.Errorf("update %s %q: %w", object.Kind(), object.GetName(), err)
	}
	return models.ObjectID(record.ID), nil
}

func (slf *SharedObjectRepository) DeleteSharedObject(scope string, kind models.SharedObjectKind, name string) error {
	return slf.Db.
		Where("scope = ? AND kind = ? AND name = ?", scope, string(kind), name).
		Delete(&models.SharedObjectRecord{}).Error
}

func decodeRecords(records []models.SharedObjectRecord) ([]models.SharedObject, error) {
	objects := make([]models.SharedObject, 0, len(records))
	for _, record := range records {
		object, err := record.Decode()
		if err != nil {
			return nil, fmt.Errorf("shared object %d: %w", record.ID, err)
		}
		objects = append(objects, object)
	}
	return objects, nil
}
