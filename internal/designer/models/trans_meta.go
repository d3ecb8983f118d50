package models

import (
	"fmt"
)

// TransMeta is an open transformation. It owns every shared object kind.
type TransMeta struct {
	documentBase

	databases        []*DatabaseMeta
	slaveServers     []*SlaveServer
	clusterSchemas   []*ClusterSchema
	partitionSchemas []*PartitionSchema
	steps            []*StepMeta
}

func NewTransMeta(name string) *TransMeta {
	return &TransMeta{documentBase: newDocumentBase(name)}
}

func (slf *TransMeta) Type() DocumentType { return DocumentTypeTransformation }

func (slf *TransMeta) GetDatabases() []*DatabaseMeta           { return slf.databases }
func (slf *TransMeta) GetSlaveServers() []*SlaveServer         { return slf.slaveServers }
func (slf *TransMeta) GetClusterSchemas() []*ClusterSchema     { return slf.clusterSchemas }
func (slf *TransMeta) GetPartitionSchemas() []*PartitionSchema { return slf.partitionSchemas }
func (slf *TransMeta) GetSteps() []*StepMeta                   { return slf.steps }

func (slf *TransMeta) AddOrReplaceDatabase(db *DatabaseMeta) *DatabaseMeta {
	var kept *DatabaseMeta
	slf.databases, kept = addOrReplace(slf.databases, db)
	slf.changed = true
	return kept
}

func (slf *TransMeta) AddOrReplaceSlaveServer(server *SlaveServer) *SlaveServer {
	var kept *SlaveServer
	slf.slaveServers, kept = addOrReplace(slf.slaveServers, server)
	slf.changed = true
	return kept
}

func (slf *TransMeta) AddOrReplaceClusterSchema(schema *ClusterSchema) *ClusterSchema {
	var kept *ClusterSchema
	slf.clusterSchemas, kept = addOrReplace(slf.clusterSchemas, schema)
	slf.ResolveClusterSlaveServers(kept)
	slf.changed = true
	return kept
}

func (slf *TransMeta) AddOrReplacePartitionSchema(schema *PartitionSchema) *PartitionSchema {
	var kept *PartitionSchema
	slf.partitionSchemas, kept = addOrReplace(slf.partitionSchemas, schema)
	slf.changed = true
	return kept
}

func (slf *TransMeta) AddOrReplaceStep(step *StepMeta) *StepMeta {
	var kept *StepMeta
	slf.steps, kept = addOrReplace(slf.steps, step)
	slf.changed = true
	return kept
}

// ResolveClusterSlaveServers points the schema's slave servers at this
// transformation's own instances, matched by name. Servers the
// transformation does not know are replaced by private copies so a schema
// never references objects of another document.
func (slf *TransMeta) ResolveClusterSlaveServers(schema *ClusterSchema) {
	for i, server := range schema.SlaveServers {
		if server == nil {
			continue
		}
		if own, ok := findByName(slf.slaveServers, server.Name); ok {
			schema.SlaveServers[i] = own
			continue
		}
		schema.SlaveServers[i] = server.Clone()
	}
}

func (slf *TransMeta) RemoveDatabase(db *DatabaseMeta) bool {
	var removed bool
	slf.databases, removed = removeInstance(slf.databases, db)
	slf.changed = slf.changed || removed
	return removed
}

// RemoveSlaveServer removes the server and drops it from the cluster schemas referencing it.
func (slf *TransMeta) RemoveSlaveServer(server *SlaveServer) bool {
	var removed bool
	slf.slaveServers, removed = removeInstance(slf.slaveServers, server)
	if removed {
		for _, schema := range slf.clusterSchemas {
			schema.SlaveServers, _ = removeInstance(schema.SlaveServers, server)
		}
		slf.changed = true
	}
	return removed
}

func (slf *TransMeta) RemoveClusterSchema(schema *ClusterSchema) bool {
	var removed bool
	slf.clusterSchemas, removed = removeInstance(slf.clusterSchemas, schema)
	slf.changed = slf.changed || removed
	return removed
}

func (slf *TransMeta) RemovePartitionSchema(schema *PartitionSchema) bool {
	var removed bool
	slf.partitionSchemas, removed = removeInstance(slf.partitionSchemas, schema)
	slf.changed = slf.changed || removed
	return removed
}

func (slf *TransMeta) RemoveStep(step *StepMeta) bool {
	var removed bool
	slf.steps, removed = removeInstance(slf.steps, step)
	slf.changed = slf.changed || removed
	return removed
}

func (slf *TransMeta) FindDatabase(name string) (*DatabaseMeta, bool) {
	return findByName(slf.databases, name)
}

func (slf *TransMeta) FindSlaveServer(name string) (*SlaveServer, bool) {
	return findByName(slf.slaveServers, name)
}

func (slf *TransMeta) FindClusterSchema(name string) (*ClusterSchema, bool) {
	return findByName(slf.clusterSchemas, name)
}

func (slf *TransMeta) FindPartitionSchema(name string) (*PartitionSchema, bool) {
	return findByName(slf.partitionSchemas, name)
}

func (slf *TransMeta) FindStep(name string) (*StepMeta, bool) {
	return findByName(slf.steps, name)
}

func (slf *TransMeta) SharedObjects() []SharedObject {
	var shared []SharedObject
	shared = appendShared(shared, slf.databases)
	shared = appendShared(shared, slf.slaveServers)
	shared = appendShared(shared, slf.clusterSchemas)
	shared = appendShared(shared, slf.partitionSchemas)
	shared = appendShared(shared, slf.steps)
	return shared
}

func (slf *TransMeta) SaveSharedObjects() error {
	return slf.saveSharedObjects(slf.SharedObjects())
}

// ReloadSharedObjects reads the bound store and merges its content into the
// transformation. Slave servers are loaded before cluster schemas so schema
// references resolve to this transformation's instances.
func (slf *TransMeta) ReloadSharedObjects() error {
	objects, err := slf.loadSharedObjects()
	if err != nil {
		return err
	}
	var schemas []*ClusterSchema
	for _, object := range objects {
		switch obj := object.(type) {
		case *DatabaseMeta:
			slf.AddOrReplaceDatabase(obj)
		case *SlaveServer:
			slf.AddOrReplaceSlaveServer(obj)
		case *ClusterSchema:
			schemas = append(schemas, obj)
		case *PartitionSchema:
			slf.AddOrReplacePartitionSchema(obj)
		case *StepMeta:
			slf.AddOrReplaceStep(obj)
		default:
			return fmt.Errorf("transformation %q: %w: %T", slf.Name, ErrUnknownKind, object)
		}
	}
	for _, schema := range schemas {
		slf.AddOrReplaceClusterSchema(schema)
	}
	return nil
}
