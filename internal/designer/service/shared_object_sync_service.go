package service

import (
	"errors"
	"fmt"
	"sync"

	"studio/internal/designer/models"

	"github.com/rs/zerolog"
)

var ErrUnsupportedKind = errors.New("unsupported shared object kind")

// DocumentProvider exposes the documents currently open in the editor.
type DocumentProvider interface {
	LoadedJobs() []*models.JobMeta
	LoadedTransformations() []*models.TransMeta
	ActiveDocument() models.Document
}

type SyncAction string

const (
	SyncActionUpdate SyncAction = "update"
	SyncActionDelete SyncAction = "delete"
	SyncActionReload SyncAction = "reload"
)

// SyncEvent describes the documents changed by one synchronization.
type SyncEvent struct {
	Action      SyncAction              `json:"action"`
	Kind        models.SharedObjectKind `json:"kind,omitempty"`
	Name        string                  `json:"name,omitempty"`
	DocumentIDs []string                `json:"documentIds"`
}

// SyncListener is told about every synchronization that changed at least
// one document. Implementations must not block.
type SyncListener interface {
	DocumentsSynchronized(event SyncEvent)
}

type SyncResult struct {
	// Updated counts the objects that received new content or were removed.
	Updated     int
	DocumentIDs []string
}

func (slf *SyncResult) touch(doc models.Document) {
	slf.Updated++
	id := doc.DocumentID()
	if n := len(slf.DocumentIDs); n == 0 || slf.DocumentIDs[n-1] != id {
		slf.DocumentIDs = append(slf.DocumentIDs, id)
	}
}

// SharedObjectSyncService keeps the shared objects of every open document
// identical. All public methods are serialized by one mutex, and callers
// that change documents themselves do so through Do.
type SharedObjectSyncService struct {
	mu       sync.Mutex
	docs     DocumentProvider
	logger   zerolog.Logger
	listener SyncListener
}

func NewSharedObjectSyncService(docs DocumentProvider, logger zerolog.Logger) *SharedObjectSyncService {
	return &SharedObjectSyncService{
		docs:   docs,
		logger: logger,
	}
}

// Do runs fn while holding the synchronization lock. fn must not call the
// public methods of the service.
func (slf *SharedObjectSyncService) Do(fn func()) {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	fn()
}

func (slf *SharedObjectSyncService) SetListener(listener SyncListener) {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	slf.listener = listener
}

// SynchronizeConnections copies db onto every shared connection still named
// originalName, then saves the shared objects of the active document.
func (slf *SharedObjectSyncService) SynchronizeConnections(db *models.DatabaseMeta, originalName string) SyncResult {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	return slf.synchronizeConnections(db, originalName)
}

func (slf *SharedObjectSyncService) SynchronizeSlaveServers(server *models.SlaveServer, originalName string) SyncResult {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	return synchronizeByName(slf, slaveServerSync, server, originalName)
}

func (slf *SharedObjectSyncService) SynchronizeClusterSchemas(schema *models.ClusterSchema, originalName string) SyncResult {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	return synchronizeByName(slf, clusterSchemaSync, schema, originalName)
}

func (slf *SharedObjectSyncService) SynchronizePartitionSchemas(schema *models.PartitionSchema, originalName string) SyncResult {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	return synchronizeByName(slf, partitionSchemaSync, schema, originalName)
}

func (slf *SharedObjectSyncService) SynchronizeSteps(step *models.StepMeta, originalName string) SyncResult {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	return synchronizeByName(slf, stepSync, step, originalName)
}

// SynchronizeByName dispatches to the synchronization of the object's kind.
func (slf *SharedObjectSyncService) SynchronizeByName(source models.SharedObject, originalName string) (SyncResult, error) {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	return slf.synchronize(source, originalName)
}

func (slf *SharedObjectSyncService) synchronize(source models.SharedObject, originalName string) (SyncResult, error) {
	switch obj := source.(type) {
	case *models.DatabaseMeta:
		return slf.synchronizeConnections(obj, originalName), nil
	case *models.SlaveServer:
		return synchronizeByName(slf, slaveServerSync, obj, originalName), nil
	case *models.ClusterSchema:
		return synchronizeByName(slf, clusterSchemaSync, obj, originalName), nil
	case *models.PartitionSchema:
		return synchronizeByName(slf, partitionSchemaSync, obj, originalName), nil
	case *models.StepMeta:
		return synchronizeByName(slf, stepSync, obj, originalName), nil
	default:
		return SyncResult{}, fmt.Errorf("%w: %T", ErrUnsupportedKind, source)
	}
}

func (slf *SharedObjectSyncService) SynchronizeConnectionByID(db *models.DatabaseMeta) SyncResult {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	return synchronizeByID(slf, connectionSync, db)
}

func (slf *SharedObjectSyncService) SynchronizeSlaveServerByID(server *models.SlaveServer) SyncResult {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	return synchronizeByID(slf, slaveServerSync, server)
}

func (slf *SharedObjectSyncService) SynchronizeClusterSchemaByID(schema *models.ClusterSchema) SyncResult {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	return synchronizeByID(slf, clusterSchemaSync, schema)
}

func (slf *SharedObjectSyncService) SynchronizePartitionSchemaByID(schema *models.PartitionSchema) SyncResult {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	return synchronizeByID(slf, partitionSchemaSync, schema)
}

// SynchronizeByID refreshes every other instance carrying the same
// repository ID as source. Steps are not synchronized by ID.
func (slf *SharedObjectSyncService) SynchronizeByID(source models.SharedObject) (SyncResult, error) {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	return slf.synchronizeID(source)
}

func (slf *SharedObjectSyncService) synchronizeID(source models.SharedObject) (SyncResult, error) {
	switch obj := source.(type) {
	case *models.DatabaseMeta:
		return synchronizeByID(slf, connectionSync, obj), nil
	case *models.SlaveServer:
		return synchronizeByID(slf, slaveServerSync, obj), nil
	case *models.ClusterSchema:
		return synchronizeByID(slf, clusterSchemaSync, obj), nil
	case *models.PartitionSchema:
		return synchronizeByID(slf, partitionSchemaSync, obj), nil
	default:
		return SyncResult{}, fmt.Errorf("%w for id synchronization: %T", ErrUnsupportedKind, source)
	}
}

func (slf *SharedObjectSyncService) DeleteConnection(db *models.DatabaseMeta) SyncResult {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	return deleteEverywhere(slf, connectionSync, db)
}

func (slf *SharedObjectSyncService) DeleteSlaveServer(server *models.SlaveServer) SyncResult {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	return deleteEverywhere(slf, slaveServerSync, server)
}

func (slf *SharedObjectSyncService) DeleteClusterSchema(schema *models.ClusterSchema) SyncResult {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	return deleteEverywhere(slf, clusterSchemaSync, schema)
}

func (slf *SharedObjectSyncService) DeletePartitionSchema(schema *models.PartitionSchema) SyncResult {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	return deleteEverywhere(slf, partitionSchemaSync, schema)
}

func (slf *SharedObjectSyncService) DeleteStep(step *models.StepMeta) SyncResult {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	return deleteEverywhere(slf, stepSync, step)
}

// Delete removes victim from the kind's collection of every open document.
func (slf *SharedObjectSyncService) Delete(kind models.SharedObjectKind, victim models.SharedObject) (SyncResult, error) {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	return slf.deleteObject(kind, victim)
}

func (slf *SharedObjectSyncService) deleteObject(kind models.SharedObjectKind, victim models.SharedObject) (SyncResult, error) {
	if victim == nil || victim.Kind() != kind {
		return SyncResult{}, fmt.Errorf("%w: cannot delete %T as %s", ErrUnsupportedKind, victim, kind)
	}

	switch obj := victim.(type) {
	case *models.DatabaseMeta:
		return deleteEverywhere(slf, connectionSync, obj), nil
	case *models.SlaveServer:
		return deleteEverywhere(slf, slaveServerSync, obj), nil
	case *models.ClusterSchema:
		return deleteEverywhere(slf, clusterSchemaSync, obj), nil
	case *models.PartitionSchema:
		return deleteEverywhere(slf, partitionSchemaSync, obj), nil
	case *models.StepMeta:
		return deleteEverywhere(slf, stepSync, obj), nil
	default:
		return SyncResult{}, fmt.Errorf("%w: %T", ErrUnsupportedKind, victim)
	}
}

// ReloadSharedObjects rebuilds the active document's shared objects from its
// store. Failures are logged.
func (slf *SharedObjectSyncService) ReloadSharedObjects() {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	slf.reload()
}

func (slf *SharedObjectSyncService) reload() {
	active := slf.docs.ActiveDocument()
	if active == nil {
		return
	}
	if err := active.ReloadSharedObjects(); err != nil {
		slf.logger.Error().Err(err).Str("document", active.GetName()).Msg("Failed to reload shared objects")
		return
	}
	slf.notify(SyncEvent{Action: SyncActionReload, DocumentIDs: []string{active.DocumentID()}})
}

func (slf *SharedObjectSyncService) synchronizeConnections(db *models.DatabaseMeta, originalName string) SyncResult {
	result := synchronizeByName(slf, connectionSync, db, originalName)
	if db.IsShared() {
		slf.saveActiveSharedObjects()
	}
	return result
}

// saveActiveSharedObjects flushes the active document. The in-memory
// synchronization already happened and is kept whatever the outcome.
func (slf *SharedObjectSyncService) saveActiveSharedObjects() {
	active := slf.docs.ActiveDocument()
	if active == nil {
		return
	}
	if err := active.SaveSharedObjects(); err != nil {
		slf.logger.Error().Err(err).Str("document", active.GetName()).Msg("Failed to save shared objects after synchronization")
	}
}

func (slf *SharedObjectSyncService) notify(event SyncEvent) {
	if slf.listener == nil || len(event.DocumentIDs) == 0 {
		return
	}
	slf.listener.DocumentsSynchronized(event)
}

// synchronizeByName copies source onto every other shared object of the same
// kind still named originalName, in jobs first and then transformations.
func synchronizeByName[T sharedObject](slf *SharedObjectSyncService, handler syncHandler[T], source T, originalName string) SyncResult {
	var result SyncResult
	if !source.IsShared() {
		return result
	}

	matches := func(e T) bool {
		return e != source && e.IsShared() && e.GetName() == originalName
	}
	fanOut(slf, handler, source, matches, &result)

	slf.logger.Debug().
		Str("kind", string(handler.kind())).
		Str("name", source.GetName()).
		Str("originalName", originalName).
		Int("updated", result.Updated).
		Msg("Synchronized shared object by name")
	slf.notify(SyncEvent{Action: SyncActionUpdate, Kind: handler.kind(), Name: source.GetName(), DocumentIDs: result.DocumentIDs})
	return result
}

// synchronizeByID copies source onto every other object carrying its
// repository ID, shared or not.
func synchronizeByID[T sharedObject](slf *SharedObjectSyncService, handler syncHandler[T], source T) SyncResult {
	var result SyncResult
	id := source.GetObjectID()
	if id.IsZero() || !handler.syncsByID() {
		return result
	}

	matches := func(e T) bool {
		return e != source && e.GetObjectID() == id
	}
	fanOut(slf, handler, source, matches, &result)

	slf.logger.Debug().
		Str("kind", string(handler.kind())).
		Uint("objectId", uint(id)).
		Int("updated", result.Updated).
		Msg("Synchronized shared object by id")
	slf.notify(SyncEvent{Action: SyncActionUpdate, Kind: handler.kind(), Name: source.GetName(), DocumentIDs: result.DocumentIDs})
	return result
}

func fanOut[T sharedObject](slf *SharedObjectSyncService, handler syncHandler[T], source T, matches func(T) bool, result *SyncResult) {
	for _, job := range slf.docs.LoadedJobs() {
		for _, e := range handler.fromJob(job) {
			if matches(e) {
				handler.replace(source, e, job)
				result.touch(job)
			}
		}
	}
	for _, trans := range slf.docs.LoadedTransformations() {
		for _, e := range handler.fromTrans(trans) {
			if matches(e) {
				handler.replace(source, e, trans)
				result.touch(trans)
			}
		}
	}
}

// deleteEverywhere removes victim from all open documents including the
// active one. When victim is shared, the shared copies carrying its name in
// other documents go with it; unshared objects are left alone.
func deleteEverywhere[T sharedObject](slf *SharedObjectSyncService, handler syncHandler[T], victim T) SyncResult {
	var result SyncResult
	same := func(e T) bool {
		if e == victim {
			return true
		}
		return victim.IsShared() && e.IsShared() && handler.sameName(e.GetName(), victim.GetName())
	}

	for _, job := range slf.docs.LoadedJobs() {
		for _, e := range collect(handler.fromJob(job), same) {
			if handler.removeFromJob(job, e) {
				result.touch(job)
			}
		}
	}
	for _, trans := range slf.docs.LoadedTransformations() {
		for _, e := range collect(handler.fromTrans(trans), same) {
			if handler.removeFromTrans(trans, e) {
				result.touch(trans)
			}
		}
	}

	slf.logger.Debug().
		Str("kind", string(handler.kind())).
		Str("name", victim.GetName()).
		Int("removed", result.Updated).
		Msg("Deleted shared object from open documents")
	slf.notify(SyncEvent{Action: SyncActionDelete, Kind: handler.kind(), Name: victim.GetName(), DocumentIDs: result.DocumentIDs})
	return result
}

// collect copies the matching elements so removal can mutate the source slice.
func collect[T any](list []T, keep func(T) bool) []T {
	var out []T
	for _, e := range list {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
