package models

import (
	"time"
)

// SharedObjectRecord is the repository row of one shared object. Its ID is
// the ObjectID handed back to the in-memory objects.
type SharedObjectRecord struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	Scope     string           `gorm:"not null;uniqueIndex:idx_shared_object_identity;column:scope" json:"scope"`
	Kind      SharedObjectKind `gorm:"not null;uniqueIndex:idx_shared_object_identity;column:kind" json:"kind"`
	Name      string           `gorm:"not null;uniqueIndex:idx_shared_object_identity;column:name" json:"name"`
	Payload   string           `gorm:"type:text;not null;column:payload" json:"payload"`
	CreatedAt time.Time        `gorm:"autoCreateTime;column:created_at" json:"createdAt"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime;column:updated_at" json:"updatedAt"`
}

func (SharedObjectRecord) TableName() string {
	return "shared_object"
}

// Decode rebuilds the in-memory object, carrying the record ID as ObjectID.
func (slf SharedObjectRecord) Decode() (SharedObject, error) {
	object, err := UnmarshalSharedObject(slf.Kind, []byte(slf.Payload))
	if err != nil {
		return nil, err
	}
	object.SetObjectID(ObjectID(slf.ID))
	return object, nil
}
