package models

import (
	"errors"
	"slices"
	"strings"

	"github.com/google/uuid"
)

type DocumentType string

const (
	DocumentTypeJob            DocumentType = "job"
	DocumentTypeTransformation DocumentType = "transformation"
)

// Document is an open job or transformation.
type Document interface {
	DocumentID() string
	GetName() string
	Type() DocumentType
	GetDatabases() []*DatabaseMeta
	GetSlaveServers() []*SlaveServer
	// SharedObjects returns every object of the document flagged as shared.
	SharedObjects() []SharedObject
	SharedObjectsScope() string
	SaveSharedObjects() error
	ReloadSharedObjects() error
	HasChanged() bool
}

var ErrNoSharedObjectsStore = errors.New("document has no shared objects store")

// documentBase holds what jobs and transformations have in common: identity
// and the binding to a shared objects store.
type documentBase struct {
	id       string
	Name     string
	Filename string
	scope    string
	store    SharedObjectsIO
	changed  bool
}

func newDocumentBase(name string) documentBase {
	return documentBase{id: uuid.NewString(), Name: name}
}

func (slf *documentBase) DocumentID() string         { return slf.id }
func (slf *documentBase) GetName() string            { return slf.Name }
func (slf *documentBase) HasChanged() bool           { return slf.changed }
func (slf *documentBase) SetChanged(changed bool)    { slf.changed = changed }
func (slf *documentBase) SharedObjectsScope() string { return slf.scope }

// BindSharedObjects attaches the store the document saves its shared objects to.
func (slf *documentBase) BindSharedObjects(store SharedObjectsIO, scope string) {
	slf.store = store
	slf.scope = scope
}

func (slf *documentBase) saveSharedObjects(objects []SharedObject) error {
	if slf.store == nil {
		return nil
	}
	return slf.store.SaveSharedObjects(slf.scope, objects)
}

func (slf *documentBase) loadSharedObjects() ([]SharedObject, error) {
	if slf.store == nil {
		return nil, ErrNoSharedObjectsStore
	}
	return slf.store.LoadSharedObjects(slf.scope)
}

type replaceable[T any] interface {
	comparable
	SharedObject
	ReplaceMeta(src T)
}

// addOrReplace replaces the content of the element with the same name
// (case-insensitive) or appends obj when there is none.
func addOrReplace[T replaceable[T]](list []T, obj T) ([]T, T) {
	for _, existing := range list {
		if existing == obj {
			return list, existing
		}
		if strings.EqualFold(existing.GetName(), obj.GetName()) {
			existing.ReplaceMeta(obj)
			if existing.GetObjectID().IsZero() {
				existing.SetObjectID(obj.GetObjectID())
			}
			return list, existing
		}
	}
	return append(list, obj), obj
}

// removeInstance removes victim by reference, never by value.
func removeInstance[T comparable](list []T, victim T) ([]T, bool) {
	idx := slices.Index(list, victim)
	if idx < 0 {
		return list, false
	}
	return slices.Delete(list, idx, idx+1), true
}

func findByName[T SharedObject](list []T, name string) (T, bool) {
	for _, obj := range list {
		if strings.EqualFold(obj.GetName(), name) {
			return obj, true
		}
	}
	var zero T
	return zero, false
}

func appendShared[T SharedObject](dst []SharedObject, list []T) []SharedObject {
	for _, obj := range list {
		if obj.IsShared() {
			dst = append(dst, obj)
		}
	}
	return dst
}
