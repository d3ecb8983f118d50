package mapper

import (
	"bytes"
	"maps"

	"studio/internal/designer/handler/request"
	"studio/internal/designer/models"
	"studio/pkg"
)

// SharedObjectMapper applies edit requests onto shared capable objects.
type SharedObjectMapper interface {
	PatchConnection(req request.UpdateConnection, db *models.DatabaseMeta)
	PatchSlaveServer(req request.UpdateSlaveServer, server *models.SlaveServer)
	// PatchClusterSchema replaces the slave servers of the schema with servers
	// when the request lists any.
	PatchClusterSchema(req request.UpdateClusterSchema, servers []*models.SlaveServer, schema *models.ClusterSchema)
	PatchPartitionSchema(req request.UpdatePartitionSchema, schema *models.PartitionSchema)
	PatchStep(req request.UpdateStep, step *models.StepMeta)
}

type SharedObjectMapperImpl struct{}

func NewSharedObjectMapper() SharedObjectMapper {
	return &SharedObjectMapperImpl{}
}

func (m *SharedObjectMapperImpl) PatchConnection(req request.UpdateConnection, db *models.DatabaseMeta) {
	pkg.SetIfPresent(&db.Name, req.Name)
	pkg.SetIfPresent(&db.Shared, req.Shared)
	if req.Type != nil {
		db.Type = models.DBType(*req.Type)
	}
	pkg.SetIfPresent(&db.Host, req.Host)
	pkg.SetIfPresent(&db.Port, req.Port)
	pkg.SetIfPresent(&db.DatabaseName, req.DatabaseName)
	pkg.SetIfPresent(&db.User, req.User)
	pkg.SetIfPresent(&db.Password, req.Password)
	pkg.SetIfPresent(&db.SSLMode, req.SSLMode)
	pkg.SetIfPresent(&db.Extra, req.Extra)
	if req.Attributes != nil {
		db.Attributes = maps.Clone(req.Attributes)
	}
	db.SetChanged(true)
}

func (m *SharedObjectMapperImpl) PatchSlaveServer(req request.UpdateSlaveServer, server *models.SlaveServer) {
	pkg.SetIfPresent(&server.Name, req.Name)
	pkg.SetIfPresent(&server.Shared, req.Shared)
	pkg.SetIfPresent(&server.Hostname, req.Hostname)
	pkg.SetIfPresent(&server.Port, req.Port)
	pkg.SetIfPresent(&server.WebAppName, req.WebAppName)
	pkg.SetIfPresent(&server.Username, req.Username)
	pkg.SetIfPresent(&server.Password, req.Password)
	pkg.SetIfPresent(&server.ProxyHostname, req.ProxyHostname)
	pkg.SetIfPresent(&server.ProxyPort, req.ProxyPort)
	pkg.SetIfPresent(&server.NonProxyHosts, req.NonProxyHosts)
	pkg.SetIfPresent(&server.Master, req.Master)
	pkg.SetIfPresent(&server.SSLMode, req.SSLMode)
}

func (m *SharedObjectMapperImpl) PatchClusterSchema(req request.UpdateClusterSchema, servers []*models.SlaveServer, schema *models.ClusterSchema) {
	pkg.SetIfPresent(&schema.Name, req.Name)
	pkg.SetIfPresent(&schema.Shared, req.Shared)
	pkg.SetIfPresent(&schema.BasePort, req.BasePort)
	pkg.SetIfPresent(&schema.SocketsBufferSize, req.SocketsBufferSize)
	pkg.SetIfPresent(&schema.SocketsFlushInterval, req.SocketsFlushInterval)
	pkg.SetIfPresent(&schema.SocketsCompressed, req.SocketsCompressed)
	pkg.SetIfPresent(&schema.Dynamic, req.Dynamic)
	if req.SlaveServers != nil {
		schema.SlaveServers = servers
	}
}

func (m *SharedObjectMapperImpl) PatchPartitionSchema(req request.UpdatePartitionSchema, schema *models.PartitionSchema) {
	pkg.SetIfPresent(&schema.Name, req.Name)
	pkg.SetIfPresent(&schema.Shared, req.Shared)
	if req.PartitionIDs != nil {
		schema.PartitionIDs = append([]string(nil), req.PartitionIDs...)
	}
	pkg.SetIfPresent(&schema.Dynamic, req.Dynamic)
	pkg.SetIfPresent(&schema.PartitionsPerSlave, req.PartitionsPerSlave)
}

func (m *SharedObjectMapperImpl) PatchStep(req request.UpdateStep, step *models.StepMeta) {
	pkg.SetIfPresent(&step.Name, req.Name)
	pkg.SetIfPresent(&step.Shared, req.Shared)
	if req.StepType != nil {
		step.StepType = models.StepType(*req.StepType)
	}
	pkg.SetIfPresent(&step.Description, req.Description)
	pkg.SetIfPresent(&step.Copies, req.Copies)
	pkg.SetIfPresent(&step.Distributes, req.Distributes)
	pkg.SetIfPresent(&step.Xpos, req.Xpos)
	pkg.SetIfPresent(&step.Ypos, req.Ypos)
	if req.Data != nil {
		step.Data = models.StepData(bytes.Clone(req.Data))
	}
}
