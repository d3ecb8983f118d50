package service

import (
	"bytes"
	"sync"

	"studio/internal/designer/models"

	"github.com/rs/zerolog"
)

type storedObject struct {
	scope   string
	id      models.ObjectID
	kind    models.SharedObjectKind
	name    string
	payload []byte
}

// fakeStore is an in-memory SharedObjectsIO handing out ids the way the
// database repository does.
type fakeStore struct {
	mu      sync.Mutex
	rows    []storedObject
	nextID  models.ObjectID
	saves   int
	saveErr error
	loadErr error
}

func (f *fakeStore) SaveSharedObjects(scope string, objects []models.SharedObject) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	for _, obj := range objects {
		payload, err := models.MarshalSharedObject(obj)
		if err != nil {
			return err
		}
		idx := f.indexOf(scope, obj)
		if idx < 0 {
			f.nextID++
			f.rows = append(f.rows, storedObject{scope: scope, id: f.nextID, kind: obj.Kind()})
			idx = len(f.rows) - 1
		}
		f.rows[idx].name = obj.GetName()
		f.rows[idx].payload = payload
		obj.SetObjectID(f.rows[idx].id)
	}
	return nil
}

func (f *fakeStore) indexOf(scope string, obj models.SharedObject) int {
	for i, row := range f.rows {
		if row.scope == scope && !obj.GetObjectID().IsZero() && row.id == obj.GetObjectID() {
			return i
		}
	}
	for i, row := range f.rows {
		if row.scope == scope && row.kind == obj.Kind() && row.name == obj.GetName() {
			return i
		}
	}
	return -1
}

func (f *fakeStore) LoadSharedObjects(scope string) ([]models.SharedObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loadErr != nil {
		return nil, f.loadErr
	}
	objects := make([]models.SharedObject, 0, len(f.rows))
	for _, row := range f.rows {
		if row.scope != scope {
			continue
		}
		obj, err := models.UnmarshalSharedObject(row.kind, row.payload)
		if err != nil {
			return nil, err
		}
		obj.SetObjectID(row.id)
		objects = append(objects, obj)
	}
	return objects, nil
}

func (f *fakeStore) DeleteSharedObject(scope string, kind models.SharedObjectKind, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, row := range f.rows {
		if row.scope == scope && row.kind == kind && row.name == name {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

// staticDocs is a DocumentProvider over fixed documents.
type staticDocs struct {
	jobs   []*models.JobMeta
	trans  []*models.TransMeta
	active models.Document
}

func (s *staticDocs) LoadedJobs() []*models.JobMeta              { return s.jobs }
func (s *staticDocs) LoadedTransformations() []*models.TransMeta { return s.trans }
func (s *staticDocs) ActiveDocument() models.Document            { return s.active }

type recordingListener struct {
	events []SyncEvent
}

func (r *recordingListener) DocumentsSynchronized(event SyncEvent) {
	r.events = append(r.events, event)
}

// bufferLogger returns a logger writing JSON lines into the returned buffer.
func bufferLogger() (zerolog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return zerolog.New(buf), buf
}

func newShared(name, host string) *models.DatabaseMeta {
	return &models.DatabaseMeta{Name: name, Shared: true, Host: host, Port: 5432}
}
