package service

import (
	"errors"
	"fmt"
	"strings"

	"studio/internal/designer/handler/response"
	"studio/internal/designer/models"

	"github.com/rs/zerolog"
)

var ErrSharedObjectNotFound = errors.New("shared object not found")

type bindable interface {
	models.Document
	BindSharedObjects(store models.SharedObjectsIO, scope string)
	SetChanged(changed bool)
}

// DocumentService implements the editor workflows around open documents.
// Every change to a shared object is handed to the synchronization service.
type DocumentService struct {
	registry *DocumentRegistry
	syncer   *SharedObjectSyncService
	store    models.SharedObjectsIO
	logger   zerolog.Logger
}

func NewDocumentService(registry *DocumentRegistry, syncer *SharedObjectSyncService, store models.SharedObjectsIO, logger zerolog.Logger) *DocumentService {
	return &DocumentService{
		registry: registry,
		syncer:   syncer,
		store:    store,
		logger:   logger,
	}
}

// NewTransformation creates a transformation bound to the shared objects of
// scope, loads them and opens it as the active document.
func (slf *DocumentService) NewTransformation(name string, scope string) (*models.TransMeta, error) {
	trans := models.NewTransMeta(name)
	if err := slf.open(trans, scope); err != nil {
		return nil, err
	}
	return trans, nil
}

func (slf *DocumentService) NewJob(name string, scope string) (*models.JobMeta, error) {
	job := models.NewJobMeta(name)
	if err := slf.open(job, scope); err != nil {
		return nil, err
	}
	return job, nil
}

func (slf *DocumentService) open(doc bindable, scope string) error {
	if slf.store != nil {
		doc.BindSharedObjects(slf.store, scope)
		if err := doc.ReloadSharedObjects(); err != nil {
			return fmt.Errorf("failed to load shared objects of scope %q: %w", scope, err)
		}
	}
	doc.SetChanged(false)
	slf.registry.Open(doc)

	slf.logger.Info().
		Str("documentId", doc.DocumentID()).
		Str("type", string(doc.Type())).
		Str("name", doc.GetName()).
		Str("scope", scope).
		Msg("Document opened")
	return nil
}

func (slf *DocumentService) Documents() []models.Document {
	return slf.registry.Documents()
}

func (slf *DocumentService) Find(docID string) (models.Document, error) {
	return slf.registry.Find(docID)
}

// ActiveDocument returns nil when no document is open.
func (slf *DocumentService) ActiveDocument() models.Document {
	return slf.registry.ActiveDocument()
}

func (slf *DocumentService) owner(docID string) models.Document {
	doc, _ := slf.registry.Find(docID)
	return doc
}

func (slf *DocumentService) Activate(docID string) error {
	return slf.registry.Activate(docID)
}

func (slf *DocumentService) Close(docID string) error {
	doc, err := slf.registry.Close(docID)
	if err != nil {
		return err
	}
	slf.logger.Info().Str("documentId", docID).Str("name", doc.GetName()).Msg("Document closed")
	return nil
}

// View runs fn under the synchronization lock. Readers of document content
// that may be changed by concurrent edits go through View.
func (slf *DocumentService) View(fn func()) {
	slf.syncer.Do(fn)
}

// Add puts obj into the document, replacing the content of an object with
// the same name. The instance held by the document is returned.
func (slf *DocumentService) Add(docID string, obj models.SharedObject) (models.SharedObject, error) {
	doc, err := slf.registry.Find(docID)
	if err != nil {
		return nil, err
	}

	var kept models.SharedObject
	slf.syncer.Do(func() {
		kept = addToDocument(doc, obj)
	})
	if kept == nil {
		return nil, fmt.Errorf("%w: %T in %s", ErrUnsupportedKind, obj, doc.Type())
	}
	return kept, nil
}

func addToDocument(doc models.Document, obj models.SharedObject) models.SharedObject {
	switch d := doc.(type) {
	case *models.JobMeta:
		switch o := obj.(type) {
		case *models.DatabaseMeta:
			return d.AddOrReplaceDatabase(o)
		case *models.SlaveServer:
			return d.AddOrReplaceSlaveServer(o)
		}
	case *models.TransMeta:
		switch o := obj.(type) {
		case *models.DatabaseMeta:
			return d.AddOrReplaceDatabase(o)
		case *models.SlaveServer:
			return d.AddOrReplaceSlaveServer(o)
		case *models.ClusterSchema:
			return d.AddOrReplaceClusterSchema(o)
		case *models.PartitionSchema:
			return d.AddOrReplacePartitionSchema(o)
		case *models.StepMeta:
			return d.AddOrReplaceStep(o)
		}
	}
	return nil
}

// EditConnection applies edit to the connection named originalName and
// synchronizes the result into every open document.
func (slf *DocumentService) EditConnection(docID, originalName string, edit func(*models.DatabaseMeta)) (*models.DatabaseMeta, SyncResult, error) {
	return editObject(slf, docID, models.KindConnection, originalName, edit)
}

func (slf *DocumentService) EditSlaveServer(docID, originalName string, edit func(*models.SlaveServer)) (*models.SlaveServer, SyncResult, error) {
	return editObject(slf, docID, models.KindSlaveServer, originalName, edit)
}

// EditClusterSchema relinks the edited schema to the slave servers of its
// own transformation before synchronizing it.
func (slf *DocumentService) EditClusterSchema(docID, originalName string, edit func(*models.ClusterSchema)) (*models.ClusterSchema, SyncResult, error) {
	return editObject(slf, docID, models.KindClusterSchema, originalName, func(schema *models.ClusterSchema) {
		edit(schema)
		if trans, ok := slf.owner(docID).(*models.TransMeta); ok {
			trans.ResolveClusterSlaveServers(schema)
		}
	})
}

func (slf *DocumentService) EditPartitionSchema(docID, originalName string, edit func(*models.PartitionSchema)) (*models.PartitionSchema, SyncResult, error) {
	return editObject(slf, docID, models.KindPartitionSchema, originalName, edit)
}

func (slf *DocumentService) EditStep(docID, originalName string, edit func(*models.StepMeta)) (*models.StepMeta, SyncResult, error) {
	return editObject(slf, docID, models.KindStep, originalName, edit)
}

// editObject applies edit and the synchronization that follows it as one
// step under the synchronization lock.
func editObject[T sharedObject](slf *DocumentService, docID string, kind models.SharedObjectKind, originalName string, edit func(T)) (T, SyncResult, error) {
	var (
		obj    T
		result SyncResult
		err    error
	)
	slf.syncer.Do(func() {
		if obj, err = findInDocument[T](slf.registry, docID, kind, originalName); err != nil {
			return
		}
		edit(obj)
		result, err = slf.syncer.synchronize(obj, originalName)
	})
	return obj, result, err
}

// Save flushes the document's shared objects. Objects that received their
// first repository ID are then synchronized by ID. The returned count is the
// number of such objects.
func (slf *DocumentService) Save(docID string) (int, error) {
	doc, err := slf.registry.Find(docID)
	if err != nil {
		return 0, err
	}

	assigned := 0
	slf.syncer.Do(func() {
		assigned, err = slf.save(doc)
	})
	if err != nil {
		return assigned, err
	}

	slf.logger.Info().Str("documentId", docID).Int("newIds", assigned).Msg("Document saved")
	return assigned, nil
}

func (slf *DocumentService) save(doc models.Document) (int, error) {
	unsaved := make(map[models.SharedObject]bool)
	for _, obj := range doc.SharedObjects() {
		if obj.GetObjectID().IsZero() {
			unsaved[obj] = true
		}
	}

	if err := doc.SaveSharedObjects(); err != nil {
		slf.logger.Error().Err(err).Str("documentId", doc.DocumentID()).Msg("Failed to save shared objects")
		return 0, fmt.Errorf("failed to save document %q: %w", doc.GetName(), err)
	}
	if d, ok := doc.(bindable); ok {
		d.SetChanged(false)
	}

	assigned := 0
	for _, obj := range doc.SharedObjects() {
		if !unsaved[obj] || obj.GetObjectID().IsZero() {
			continue
		}
		assigned++
		if _, err := slf.syncer.synchronizeID(obj); err != nil && !errors.Is(err, ErrUnsupportedKind) {
			return assigned, err
		}
	}
	return assigned, nil
}

// SetShared toggles the shared flag of an object. Sharing flushes the
// document, unsharing removes the object from the store. In both cases the
// active document is then reloaded from the store.
func (slf *DocumentService) SetShared(docID string, kind models.SharedObjectKind, name string, shared bool) error {
	doc, err := slf.registry.Find(docID)
	if err != nil {
		return err
	}
	slf.syncer.Do(func() {
		err = slf.setShared(doc, kind, name, shared)
	})
	return err
}

func (slf *DocumentService) setShared(doc models.Document, kind models.SharedObjectKind, name string, shared bool) error {
	obj, ok := FindSharedObject(doc, kind, name)
	if !ok {
		return fmt.Errorf("%w: %s %q", ErrSharedObjectNotFound, kind, name)
	}
	if obj.IsShared() == shared {
		return nil
	}

	obj.SetShared(shared)
	if shared {
		if err := doc.SaveSharedObjects(); err != nil {
			obj.SetShared(false)
			return fmt.Errorf("failed to share %s %q: %w", kind, name, err)
		}
	} else if slf.store != nil {
		if err := slf.store.DeleteSharedObject(doc.SharedObjectsScope(), kind, obj.GetName()); err != nil {
			obj.SetShared(true)
			return fmt.Errorf("failed to unshare %s %q: %w", kind, name, err)
		}
	}

	slf.syncer.reload()
	return nil
}

// Delete removes the object from every open document. A shared object is
// also removed from the document's store.
func (slf *DocumentService) Delete(docID string, kind models.SharedObjectKind, name string) (SyncResult, error) {
	doc, err := slf.registry.Find(docID)
	if err != nil {
		return SyncResult{}, err
	}

	var result SyncResult
	slf.syncer.Do(func() {
		obj, ok := FindSharedObject(doc, kind, name)
		if !ok {
			err = fmt.Errorf("%w: %s %q", ErrSharedObjectNotFound, kind, name)
			return
		}
		if result, err = slf.syncer.deleteObject(kind, obj); err != nil {
			return
		}
		if obj.IsShared() && slf.store != nil {
			if err := slf.store.DeleteSharedObject(doc.SharedObjectsScope(), kind, obj.GetName()); err != nil {
				slf.logger.Error().Err(err).Str("kind", string(kind)).Str("name", name).Msg("Failed to delete shared object from store")
			}
		}
	})
	return result, err
}

// TestConnection opens the named connection of the document and pings it.
// The ping runs on a copy so the lock is not held during network calls.
func (slf *DocumentService) TestConnection(docID, name string) (response.TestConnectionResult, error) {
	var (
		db  *models.DatabaseMeta
		err error
	)
	slf.syncer.Do(func() {
		if db, err = findInDocument[*models.DatabaseMeta](slf.registry, docID, models.KindConnection, name); err == nil {
			db = db.Clone()
		}
	})
	if err != nil {
		return response.TestConnectionResult{}, err
	}
	return TestDatabaseConnection(db), nil
}

// FindSharedObject returns the object of the given kind and name held by doc.
// Names are compared case-insensitively.
func FindSharedObject(doc models.Document, kind models.SharedObjectKind, name string) (models.SharedObject, bool) {
	switch kind {
	case models.KindConnection:
		return findNamed(doc.GetDatabases(), name)
	case models.KindSlaveServer:
		return findNamed(doc.GetSlaveServers(), name)
	}

	trans, ok := doc.(*models.TransMeta)
	if !ok {
		return nil, false
	}
	switch kind {
	case models.KindClusterSchema:
		return findNamed(trans.GetClusterSchemas(), name)
	case models.KindPartitionSchema:
		return findNamed(trans.GetPartitionSchemas(), name)
	case models.KindStep:
		return findNamed(trans.GetSteps(), name)
	}
	return nil, false
}

func findNamed[T models.SharedObject](list []T, name string) (models.SharedObject, bool) {
	for _, obj := range list {
		if obj.GetName() == name {
			return obj, true
		}
	}
	for _, obj := range list {
		if strings.EqualFold(obj.GetName(), name) {
			return obj, true
		}
	}
	return nil, false
}

func findInDocument[T models.SharedObject](registry *DocumentRegistry, docID string, kind models.SharedObjectKind, name string) (T, error) {
	var zero T
	doc, err := registry.Find(docID)
	if err != nil {
		return zero, err
	}
	obj, ok := FindSharedObject(doc, kind, name)
	if !ok {
		return zero, fmt.Errorf("%w: %s %q", ErrSharedObjectNotFound, kind, name)
	}
	typed, ok := obj.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T", ErrUnsupportedKind, obj)
	}
	return typed, nil
}
