package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ObjectID is the repository identifier of a shared object. Zero means the
// object was never saved to a repository.
type ObjectID uint

func (id ObjectID) IsZero() bool {
	return id == 0
}

type SharedObjectKind string

const (
	KindConnection      SharedObjectKind = "connection"
	KindSlaveServer     SharedObjectKind = "slave_server"
	KindClusterSchema   SharedObjectKind = "cluster_schema"
	KindPartitionSchema SharedObjectKind = "partition_schema"
	KindStep            SharedObjectKind = "step"
)

var ErrUnknownKind = errors.New("unknown shared object kind")

// ParseKind accepts both the kind values and the plural route segments
// used by the HTTP layer ("connections", "slave-servers", ...).
func ParseKind(raw string) (SharedObjectKind, error) {
	switch raw {
	case string(KindConnection), "connections":
		return KindConnection, nil
	case string(KindSlaveServer), "slave-servers":
		return KindSlaveServer, nil
	case string(KindClusterSchema), "cluster-schemas":
		return KindClusterSchema, nil
	case string(KindPartitionSchema), "partition-schemas":
		return KindPartitionSchema, nil
	case string(KindStep), "steps":
		return KindStep, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, raw)
	}
}

// SharedObject is implemented by every metadata object a document can share
// with other open documents.
type SharedObject interface {
	GetName() string
	IsShared() bool
	SetShared(shared bool)
	GetObjectID() ObjectID
	SetObjectID(id ObjectID)
	Kind() SharedObjectKind
}

// MarshalSharedObject serializes the object content for a shared objects store.
func MarshalSharedObject(object SharedObject) ([]byte, error) {
	return json.Marshal(object)
}

// UnmarshalSharedObject decodes a payload written by MarshalSharedObject.
func UnmarshalSharedObject(kind SharedObjectKind, payload []byte) (SharedObject, error) {
	var object SharedObject
	switch kind {
	case KindConnection:
		object = &DatabaseMeta{}
	case KindSlaveServer:
		object = &SlaveServer{}
	case KindClusterSchema:
		object = &ClusterSchema{}
	case KindPartitionSchema:
		object = &PartitionSchema{}
	case KindStep:
		object = &StepMeta{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err := json.Unmarshal(payload, object); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return object, nil
}

// SharedObjectsIO is a backing store for the shared objects of a scope.
type SharedObjectsIO interface {
	SaveSharedObjects(scope string, objects []SharedObject) error
	LoadSharedObjects(scope string) ([]SharedObject, error)
	DeleteSharedObject(scope string, kind SharedObjectKind, name string) error
}
