package endpoints

import (
	"errors"
	"fmt"
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

type sharedObjectHandler struct {
	documents      *service.DocumentService
	documentMapper mapper.DocumentMapper
	objectMapper   mapper.SharedObjectMapper
	logger         zerolog.Logger
}

func newSharedObjectHandler(documents *service.DocumentService) *sharedObjectHandler {
	return &sharedObjectHandler{
		documents:      documents,
		documentMapper: mapper.NewDocumentMapper(),
		objectMapper:   mapper.NewSharedObjectMapper(),
		logger:         studio.Logger,
	}
}

// SharedObjectHandler sets up the routes editing the shared capable objects
// of an open document
func SharedObjectHandler(router gin.IRouter, documents *service.DocumentService) {
	h := newSharedObjectHandler(documents)

	routes := router.Group("/api/v1/documents/:id")
	{
		routes.POST("/objects/:kind", h.create)
		routes.PATCH("/:kind/:name/shared", h.setShared)
		routes.DELETE("/:kind/:name", h.delete)

		routes.PUT("/connections/:name", h.updateConnection)
		routes.POST("/connections/:name/test", h.testConnection)
		routes.PUT("/slave-servers/:name", h.updateSlaveServer)
		routes.PUT("/cluster-schemas/:name", h.updateClusterSchema)
		routes.PUT("/partition-schemas/:name", h.updatePartitionSchema)
		routes.PUT("/steps/:name", h.updateStep)
	}
}

// create adds an object to the document. The body is the object itself.
func (slf *sharedObjectHandler) create(c *gin.Context) {
	kind, err := models.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}
	obj, err := models.UnmarshalSharedObject(kind, payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}
	if obj.GetName() == "" {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "name is required"})
		return
	}

	kept, err := slf.documents.Add(c.Param("id"), obj)
	if err != nil {
		slf.renderError(c, err, "Failed to add shared object")
		return
	}
	c.JSON(http.StatusCreated, slf.toSharedObject(kept))
}

func (slf *sharedObjectHandler) updateConnection(c *gin.Context) {
	var req request.UpdateConnection
	if !slf.parse(c, &req) {
		return
	}
	db, result, err := slf.documents.EditConnection(c.Param("id"), c.Param("name"), func(db *models.DatabaseMeta) {
		slf.objectMapper.PatchConnection(req, db)
	})
	slf.renderEdit(c, db, result, err)
}

func (slf *sharedObjectHandler) updateSlaveServer(c *gin.Context) {
	var req request.UpdateSlaveServer
	if !slf.parse(c, &req) {
		return
	}
	server, result, err := slf.documents.EditSlaveServer(c.Param("id"), c.Param("name"), func(server *models.SlaveServer) {
		slf.objectMapper.PatchSlaveServer(req, server)
	})
	slf.renderEdit(c, server, result, err)
}

func (slf *sharedObjectHandler) updateClusterSchema(c *gin.Context) {
	var req request.UpdateClusterSchema
	if !slf.parse(c, &req) {
		return
	}

	var servers []*models.SlaveServer
	if req.SlaveServers != nil {
		var err error
		if servers, err = slf.resolveSlaveServers(c.Param("id"), req.SlaveServers); err != nil {
			slf.renderError(c, err, "Failed to resolve slave servers")
			return
		}
	}

	schema, result, err := slf.documents.EditClusterSchema(c.Param("id"), c.Param("name"), func(schema *models.ClusterSchema) {
		slf.objectMapper.PatchClusterSchema(req, servers, schema)
	})
	slf.renderEdit(c, schema, result, err)
}

func (slf *sharedObjectHandler) updatePartitionSchema(c *gin.Context) {
	var req request.UpdatePartitionSchema
	if !slf.parse(c, &req) {
		return
	}
	schema, result, err := slf.documents.EditPartitionSchema(c.Param("id"), c.Param("name"), func(schema *models.PartitionSchema) {
		slf.objectMapper.PatchPartitionSchema(req, schema)
	})
	slf.renderEdit(c, schema, result, err)
}

func (slf *sharedObjectHandler) updateStep(c *gin.Context) {
	var req request.UpdateStep
	if !slf.parse(c, &req) {
		return
	}
	step, result, err := slf.documents.EditStep(c.Param("id"), c.Param("name"), func(step *models.StepMeta) {
		slf.objectMapper.PatchStep(req, step)
	})
	slf.renderEdit(c, step, result, err)
}

// setShared shares or unshares an object
func (slf *sharedObjectHandler) setShared(c *gin.Context) {
	kind, err := models.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}
	var req request.SetShared
	if !slf.parse(c, &req) {
		return
	}

	if err := slf.documents.SetShared(c.Param("id"), kind, c.Param("name"), *req.Shared); err != nil {
		slf.renderError(c, err, "Failed to change shared flag")
		return
	}
	c.Status(http.StatusNoContent)
}

// delete removes the object from every open document
func (slf *sharedObjectHandler) delete(c *gin.Context) {
	kind, err := models.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	result, err := slf.documents.Delete(c.Param("id"), kind, c.Param("name"))
	if err != nil {
		slf.renderError(c, err, "Failed to delete shared object")
		return
	}
	c.JSON(http.StatusOK, slf.documentMapper.ToSyncResult(result))
}

func (slf *sharedObjectHandler) testConnection(c *gin.Context) {
	result, err := slf.documents.TestConnection(c.Param("id"), c.Param("name"))
	if err != nil {
		slf.renderError(c, err, "Failed to test connection")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (slf *sharedObjectHandler) resolveSlaveServers(docID string, names []string) ([]*models.SlaveServer, error) {
	doc, err := slf.documents.Find(docID)
	if err != nil {
		return nil, err
	}
	servers := make([]*models.SlaveServer, 0, len(names))
	slf.documents.View(func() {
		for _, name := range names {
			obj, ok := service.FindSharedObject(doc, models.KindSlaveServer, name)
			if !ok {
				err = fmt.Errorf("%w: slave server %q", service.ErrSharedObjectNotFound, name)
				return
			}
			servers = append(servers, obj.(*models.SlaveServer))
		}
	})
	if err != nil {
		return nil, err
	}
	return servers, nil
}

func (slf *sharedObjectHandler) toSharedObject(obj models.SharedObject) response.SharedObject {
	var out response.SharedObject
	slf.documents.View(func() {
		out = slf.documentMapper.ToSharedObject(obj)
	})
	return out
}

func (slf *sharedObjectHandler) parse(c *gin.Context, req any) bool {
	if err := pkg.ParseAndValidate(c, req); err != nil {
		slf.logger.Error().Err(err).Str("path", c.FullPath()).Msg("Failed to parse request")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return false
	}
	return true
}

func (slf *sharedObjectHandler) renderEdit(c *gin.Context, obj models.SharedObject, result service.SyncResult, err error) {
	if err != nil {
		slf.renderError(c, err, "Failed to update shared object")
		return
	}
	c.JSON(http.StatusOK, response.EditResult{
		Object: slf.toSharedObject(obj),
		Sync:   slf.documentMapper.ToSyncResult(result),
	})
}

func (slf *sharedObjectHandler) renderError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrDocumentNotFound), errors.Is(err, service.ErrSharedObjectNotFound):
		c.JSON(http.StatusNotFound, response.APIError{Message: err.Error()})
	case errors.Is(err, service.ErrUnsupportedKind), errors.Is(err, models.ErrUnknownKind):
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
	default:
		slf.logger.Error().Err(err).Str("documentId", c.Param("id")).Msg(message)
		c.JSON(http.StatusInternalServerError, response.APIError{Message: message})
	}
}
