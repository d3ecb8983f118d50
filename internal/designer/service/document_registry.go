package service

import (
	"errors"
	"slices"
	"sync"

	"studio/internal/designer/models"
)

var ErrDocumentNotFound = errors.New("document not found")

// DocumentRegistry tracks the documents open in the editor session and
// which one is active.
type DocumentRegistry struct {
	mu       sync.RWMutex
	order    []models.Document
	activeID string
}

func NewDocumentRegistry() *DocumentRegistry {
	return &DocumentRegistry{}
}

// Open registers doc and makes it the active document.
func (slf *DocumentRegistry) Open(doc models.Document) {
	slf.mu.Lock()
	defer slf.mu.Unlock()

	if slf.indexOf(doc.DocumentID()) < 0 {
		slf.order = append(slf.order, doc)
	}
	slf.activeID = doc.DocumentID()
}

// Close removes the document. When it was active, the most recently opened
// remaining document becomes active.
func (slf *DocumentRegistry) Close(id string) (models.Document, error) {
	slf.mu.Lock()
	defer slf.mu.Unlock()

	idx := slf.indexOf(id)
	if idx < 0 {
		return nil, ErrDocumentNotFound
	}
	doc := slf.order[idx]
	slf.order = slices.Delete(slf.order, idx, idx+1)

	if slf.activeID == id {
		slf.activeID = ""
		if n := len(slf.order); n > 0 {
			slf.activeID = slf.order[n-1].DocumentID()
		}
	}
	return doc, nil
}

func (slf *DocumentRegistry) Activate(id string) error {
	slf.mu.Lock()
	defer slf.mu.Unlock()

	if slf.indexOf(id) < 0 {
		return ErrDocumentNotFound
	}
	slf.activeID = id
	return nil
}

func (slf *DocumentRegistry) Find(id string) (models.Document, error) {
	slf.mu.RLock()
	defer slf.mu.RUnlock()

	idx := slf.indexOf(id)
	if idx < 0 {
		return nil, ErrDocumentNotFound
	}
	return slf.order[idx], nil
}

// Documents returns every open document in open order.
func (slf *DocumentRegistry) Documents() []models.Document {
	slf.mu.RLock()
	defer slf.mu.RUnlock()
	return slices.Clone(slf.order)
}

func (slf *DocumentRegistry) LoadedJobs() []*models.JobMeta {
	slf.mu.RLock()
	defer slf.mu.RUnlock()

	var jobs []*models.JobMeta
	for _, doc := range slf.order {
		if job, ok := doc.(*models.JobMeta); ok {
			jobs = append(jobs, job)
		}
	}
	return jobs
}

func (slf *DocumentRegistry) LoadedTransformations() []*models.TransMeta {
	slf.mu.RLock()
	defer slf.mu.RUnlock()

	var transformations []*models.TransMeta
	for _, doc := range slf.order {
		if trans, ok := doc.(*models.TransMeta); ok {
			transformations = append(transformations, trans)
		}
	}
	return transformations
}

// ActiveDocument returns nil when no document is open.
func (slf *DocumentRegistry) ActiveDocument() models.Document {
	slf.mu.RLock()
	defer slf.mu.RUnlock()

	idx := slf.indexOf(slf.activeID)
	if idx < 0 {
		return nil
	}
	return slf.order[idx]
}

func (slf *DocumentRegistry) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(slf.order, func(doc models.Document) bool {
		return doc.DocumentID() == id
	})
}
