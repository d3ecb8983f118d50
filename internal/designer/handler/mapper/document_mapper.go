package mapper

import (
	"studio/internal/designer/handler/response"
	"studio/internal/designer/models"
	"studio/internal/designer/service"
)

// DocumentMapper handles mapping between open documents and DTOs
type DocumentMapper interface {
	ToDocumentSummary(doc models.Document, active models.Document) response.DocumentSummary
	ToDocumentSummaries(docs []models.Document, active models.Document) []response.DocumentSummary
	ToDocumentWithObjects(doc models.Document, active models.Document) response.DocumentWithObjects
	ToSharedObject(obj models.SharedObject) response.SharedObject
	ToSyncResult(result service.SyncResult) response.SyncResult
}

type DocumentMapperImpl struct{}

func NewDocumentMapper() DocumentMapper {
	return &DocumentMapperImpl{}
}

func (m *DocumentMapperImpl) ToDocumentSummary(doc models.Document, active models.Document) response.DocumentSummary {
	return response.DocumentSummary{
		ID:            doc.DocumentID(),
		Name:          doc.GetName(),
		Type:          string(doc.Type()),
		Scope:         doc.SharedObjectsScope(),
		Active:        active != nil && active.DocumentID() == doc.DocumentID(),
		Changed:       doc.HasChanged(),
		SharedObjects: len(doc.SharedObjects()),
	}
}

func (m *DocumentMapperImpl) ToDocumentSummaries(docs []models.Document, active models.Document) []response.DocumentSummary {
	result := make([]response.DocumentSummary, len(docs))
	for i, doc := range docs {
		result[i] = m.ToDocumentSummary(doc, active)
	}
	return result
}

// ToDocumentWithObjects lists every shared capable object of the document,
// shared or not, grouped by kind.
func (m *DocumentMapperImpl) ToDocumentWithObjects(doc models.Document, active models.Document) response.DocumentWithObjects {
	objects := make([]response.SharedObject, 0)
	objects = appendObjects(m, objects, doc.GetDatabases())
	objects = appendObjects(m, objects, doc.GetSlaveServers())
	if trans, ok := doc.(*models.TransMeta); ok {
		objects = appendObjects(m, objects, trans.GetClusterSchemas())
		objects = appendObjects(m, objects, trans.GetPartitionSchemas())
		objects = appendObjects(m, objects, trans.GetSteps())
	}

	return response.DocumentWithObjects{
		DocumentSummary: m.ToDocumentSummary(doc, active),
		Objects:         objects,
	}
}

func (m *DocumentMapperImpl) ToSharedObject(obj models.SharedObject) response.SharedObject {
	return response.SharedObject{
		Kind:     string(obj.Kind()),
		Name:     obj.GetName(),
		Shared:   obj.IsShared(),
		ObjectID: uint(obj.GetObjectID()),
		Content:  snapshot(obj),
	}
}

// snapshot copies obj so the response can be encoded after the document
// lock is released.
func snapshot(obj models.SharedObject) any {
	switch o := obj.(type) {
	case *models.DatabaseMeta:
		return o.Clone()
	case *models.SlaveServer:
		return o.Clone()
	case *models.ClusterSchema:
		clone := o.Clone()
		for i, server := range clone.SlaveServers {
			if server != nil {
				clone.SlaveServers[i] = server.Clone()
			}
		}
		return clone
	case *models.PartitionSchema:
		return o.Clone()
	case *models.StepMeta:
		return o.Clone()
	}
	return obj
}

func (m *DocumentMapperImpl) ToSyncResult(result service.SyncResult) response.SyncResult {
	ids := result.DocumentIDs
	if ids == nil {
		ids = []string{}
	}
	return response.SyncResult{
		Updated:     result.Updated,
		DocumentIDs: ids,
	}
}

func appendObjects[T models.SharedObject](m DocumentMapper, dst []response.SharedObject, list []T) []response.SharedObject {
	for _, obj := range list {
		dst = append(dst, m.ToSharedObject(obj))
	}
	return dst
}
