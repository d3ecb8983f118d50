package request

import "encoding/json"

// Shared object edit DTOs. Nil fields are left untouched.

type UpdateConnection struct {
	Name         *string           `json:"name,omitempty" validate:"omitempty,min=1"`
	Shared       *bool             `json:"shared,omitempty"`
	Type         *string           `json:"type,omitempty" validate:"omitempty,oneof=postgres mysql sqlserver"`
	Host         *string           `json:"host,omitempty"`
	Port         *int              `json:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	DatabaseName *string           `json:"databaseName,omitempty"`
	User         *string           `json:"user,omitempty"`
	Password     *string           `json:"password,omitempty"`
	SSLMode      *string           `json:"sslMode,omitempty"`
	Extra        *string           `json:"extra,omitempty"`
	Attributes   map[string]string `json:"attributes,omitempty"`
}

type UpdateSlaveServer struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Shared        *bool   `json:"shared,omitempty"`
	Hostname      *string `json:"hostname,omitempty"`
	Port          *string `json:"port,omitempty" validate:"omitempty,numeric"`
	WebAppName    *string `json:"webAppName,omitempty"`
	Username      *string `json:"username,omitempty"`
	Password      *string `json:"password,omitempty"`
	ProxyHostname *string `json:"proxyHostname,omitempty"`
	ProxyPort     *string `json:"proxyPort,omitempty" validate:"omitempty,numeric"`
	NonProxyHosts *string `json:"nonProxyHosts,omitempty"`
	Master        *bool   `json:"master,omitempty"`
	SSLMode       *bool   `json:"sslMode,omitempty"`
}

type UpdateClusterSchema struct {
	Name                 *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Shared               *bool   `json:"shared,omitempty"`
	BasePort             *string `json:"basePort,omitempty" validate:"omitempty,numeric"`
	SocketsBufferSize    *string `json:"socketsBufferSize,omitempty"`
	SocketsFlushInterval *string `json:"socketsFlushInterval,omitempty"`
	SocketsCompressed    *bool   `json:"socketsCompressed,omitempty"`
	Dynamic              *bool   `json:"dynamic,omitempty"`
	// SlaveServers lists slave server names of the same transformation
	SlaveServers []string `json:"slaveServers,omitempty" validate:"omitempty,dive,required"`
}

type UpdatePartitionSchema struct {
	Name               *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	Shared             *bool    `json:"shared,omitempty"`
	PartitionIDs       []string `json:"partitionIds,omitempty" validate:"omitempty,dive,required"`
	Dynamic            *bool    `json:"dynamic,omitempty"`
	PartitionsPerSlave *string  `json:"partitionsPerSlave,omitempty"`
}

type UpdateStep struct {
	Name        *string         `json:"name,omitempty" validate:"omitempty,min=1"`
	Shared      *bool           `json:"shared,omitempty"`
	StepType    *string         `json:"stepType,omitempty" validate:"omitempty,oneof=table_input table_output map log"`
	Description *string         `json:"description,omitempty"`
	Copies      *int            `json:"copies,omitempty" validate:"omitempty,min=1"`
	Distributes *bool           `json:"distributes,omitempty"`
	Xpos        *float32        `json:"xpos,omitempty"`
	Ypos        *float32        `json:"ypos,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
}
