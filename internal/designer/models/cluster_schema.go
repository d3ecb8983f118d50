package models

import (
	"slices"
)

// ClusterSchema groups slave servers a transformation can be clustered over.
type ClusterSchema struct {
	ObjectID             ObjectID `json:"-"`
	Name                 string   `json:"name"`
	Shared               bool     `json:"shared"`
	BasePort             string   `json:"basePort"`
	SocketsBufferSize    string   `json:"socketsBufferSize"`
	SocketsFlushInterval string   `json:"socketsFlushInterval"`
	SocketsCompressed    bool     `json:"socketsCompressed"`
	Dynamic              bool     `json:"dynamic"`
	// SlaveServers are references into the owning transformation's slave servers.
	SlaveServers []*SlaveServer `json:"slaveServers"`

	changed bool
}

func (slf *ClusterSchema) GetName() string         { return slf.Name }
func (slf *ClusterSchema) IsShared() bool          { return slf.Shared }
func (slf *ClusterSchema) SetShared(shared bool)   { slf.Shared = shared }
func (slf *ClusterSchema) GetObjectID() ObjectID   { return slf.ObjectID }
func (slf *ClusterSchema) SetObjectID(id ObjectID) { slf.ObjectID = id }
func (slf *ClusterSchema) Kind() SharedObjectKind  { return KindClusterSchema }
func (slf *ClusterSchema) HasChanged() bool        { return slf.changed }

func (slf *ClusterSchema) ReplaceMeta(src *ClusterSchema) {
	slf.Name = src.Name
	slf.Shared = src.Shared
	slf.BasePort = src.BasePort
	slf.SocketsBufferSize = src.SocketsBufferSize
	slf.SocketsFlushInterval = src.SocketsFlushInterval
	slf.SocketsCompressed = src.SocketsCompressed
	slf.Dynamic = src.Dynamic
	slf.SlaveServers = slices.Clone(src.SlaveServers)
	slf.changed = true
}

func (slf *ClusterSchema) Clone() *ClusterSchema {
	clone := &ClusterSchema{}
	clone.ReplaceMeta(slf)
	clone.changed = false
	return clone
}

// FindMaster returns the first master slave server of the schema.
func (slf *ClusterSchema) FindMaster() *SlaveServer {
	for _, server := range slf.SlaveServers {
		if server.Master {
			return server
		}
	}
	return nil
}

// SlaveServerNames lists the names of the referenced slave servers in order.
func (slf *ClusterSchema) SlaveServerNames() []string {
	names := make([]string, 0, len(slf.SlaveServers))
	for _, server := range slf.SlaveServers {
		names = append(names, server.Name)
	}
	return names
}
