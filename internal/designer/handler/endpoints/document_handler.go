package endpoints

import (
	"errors"
	"net/http"

	"studio"
	"studio/internal/designer/handler/mapper"
	"studio/internal/designer/handler/request"
	"studio/internal/designer/handler/response"
	"studio/internal/designer/models"
	"studio/internal/designer/service"
	"studio/pkg"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type documentHandler struct {
	documents *service.DocumentService
	syncer    *service.SharedObjectSyncService
	mapper    mapper.DocumentMapper
	logger    zerolog.Logger
	config    studio.AppConfig
}

func newDocumentHandler(documents *service.DocumentService, syncer *service.SharedObjectSyncService) *documentHandler {
	return &documentHandler{
		documents: documents,
		syncer:    syncer,
		mapper:    mapper.NewDocumentMapper(),
		logger:    studio.Logger,
		config:    studio.GetConfig(),
	}
}

// DocumentHandler sets up the open documents routes
func DocumentHandler(router gin.IRouter, documents *service.DocumentService, syncer *service.SharedObjectSyncService) {
	h := newDocumentHandler(documents, syncer)

	routes := router.Group("/api/v1")
	{
		routes.GET("/documents", h.getAll)
		routes.POST("/documents", h.create)
		routes.GET("/documents/:id", h.getByID)
		routes.DELETE("/documents/:id", h.close)
		routes.POST("/documents/:id/activate", h.activate)
		routes.POST("/documents/:id/save", h.save)
		routes.POST("/shared-objects/reload", h.reload)
	}
}

func (slf *documentHandler) getAll(c *gin.Context) {
	var summaries []response.DocumentSummary
	slf.documents.View(func() {
		summaries = slf.mapper.ToDocumentSummaries(slf.documents.Documents(), slf.documents.ActiveDocument())
	})
	c.JSON(http.StatusOK, summaries)
}

// create opens a new job or transformation bound to a shared objects scope
func (slf *documentHandler) create(c *gin.Context) {
	var req request.CreateDocument
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		slf.logger.Error().Err(err).Msg("Failed to parse create document request")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	scope := req.Scope
	if scope == "" {
		scope = slf.config.SharedObjects.Scope
	}

	var (
		doc models.Document
		err error
	)
	switch models.DocumentType(req.Type) {
	case models.DocumentTypeJob:
		doc, err = slf.documents.NewJob(req.Name, scope)
	default:
		doc, err = slf.documents.NewTransformation(req.Name, scope)
	}
	if err != nil {
		slf.logger.Error().Err(err).Str("name", req.Name).Msg("Failed to open document")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to open document"})
		return
	}

	c.JSON(http.StatusCreated, slf.render(doc))
}

func (slf *documentHandler) getByID(c *gin.Context) {
	doc, err := slf.documents.Find(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.APIError{Message: "Document not found"})
		return
	}
	c.JSON(http.StatusOK, slf.render(doc))
}

func (slf *documentHandler) render(doc models.Document) response.DocumentWithObjects {
	var out response.DocumentWithObjects
	slf.documents.View(func() {
		out = slf.mapper.ToDocumentWithObjects(doc, slf.documents.ActiveDocument())
	})
	return out
}

func (slf *documentHandler) close(c *gin.Context) {
	if err := slf.documents.Close(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, response.APIError{Message: "Document not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (slf *documentHandler) activate(c *gin.Context) {
	if err := slf.documents.Activate(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, response.APIError{Message: "Document not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// save flushes the shared objects of the document to the store
func (slf *documentHandler) save(c *gin.Context) {
	id := c.Param("id")
	assigned, err := slf.documents.Save(id)
	if err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, response.APIError{Message: "Document not found"})
			return
		}
		slf.logger.Error().Err(err).Str("documentId", id).Msg("Failed to save document")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to save document"})
		return
	}

	c.JSON(http.StatusOK, response.SaveResult{DocumentID: id, NewObjectIDs: assigned})
}

// reload rebuilds the shared objects of the active document from its store
func (slf *documentHandler) reload(c *gin.Context) {
	slf.syncer.ReloadSharedObjects()
	c.Status(http.StatusNoContent)
}
