package models

import (
	"slices"
)

type PartitionSchema struct {
	ObjectID           ObjectID `json:"-"`
	Name               string   `json:"name"`
	Shared             bool     `json:"shared"`
	PartitionIDs       []string `json:"partitionIds"`
	Dynamic            bool     `json:"dynamic"`
	PartitionsPerSlave string   `json:"partitionsPerSlave"`

	changed bool
}

func (slf *PartitionSchema) GetName() string         { return slf.Name }
func (slf *PartitionSchema) IsShared() bool          { return slf.Shared }
func (slf *PartitionSchema) SetShared(shared bool)   { slf.Shared = shared }
func (slf *PartitionSchema) GetObjectID() ObjectID   { return slf.ObjectID }
func (slf *PartitionSchema) SetObjectID(id ObjectID) { slf.ObjectID = id }
func (slf *PartitionSchema) Kind() SharedObjectKind  { return KindPartitionSchema }
func (slf *PartitionSchema) HasChanged() bool        { return slf.changed }

func (slf *PartitionSchema) ReplaceMeta(src *PartitionSchema) {
	slf.Name = src.Name
	slf.Shared = src.Shared
	slf.PartitionIDs = slices.Clone(src.PartitionIDs)
	slf.Dynamic = src.Dynamic
	slf.PartitionsPerSlave = src.PartitionsPerSlave
	slf.changed = true
}

func (slf *PartitionSchema) Clone() *PartitionSchema {
	clone := &PartitionSchema{}
	clone.ReplaceMeta(slf)
	clone.changed = false
	return clone
}
