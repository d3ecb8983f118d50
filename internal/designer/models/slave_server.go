package models

import (
	"fmt"
)

// SlaveServer is a remote execution server a transformation or job can run on.
type SlaveServer struct {
	ObjectID      ObjectID `json:"-"`
	Name          string   `json:"name"`
	Shared        bool     `json:"shared"`
	Hostname      string   `json:"hostname"`
	Port          string   `json:"port"`
	WebAppName    string   `json:"webAppName"`
	Username      string   `json:"username"`
	Password      string   `json:"password"`
	ProxyHostname string   `json:"proxyHostname"`
	ProxyPort     string   `json:"proxyPort"`
	NonProxyHosts string   `json:"nonProxyHosts"`
	Master        bool     `json:"master"`
	SSLMode       bool     `json:"sslMode"`

	changed bool
}

func (slf *SlaveServer) GetName() string         { return slf.Name }
func (slf *SlaveServer) IsShared() bool          { return slf.Shared }
func (slf *SlaveServer) SetShared(shared bool)   { slf.Shared = shared }
func (slf *SlaveServer) GetObjectID() ObjectID   { return slf.ObjectID }
func (slf *SlaveServer) SetObjectID(id ObjectID) { slf.ObjectID = id }
func (slf *SlaveServer) Kind() SharedObjectKind  { return KindSlaveServer }
func (slf *SlaveServer) HasChanged() bool        { return slf.changed }

func (slf *SlaveServer) ReplaceMeta(src *SlaveServer) {
	slf.Name = src.Name
	slf.Shared = src.Shared
	slf.Hostname = src.Hostname
	slf.Port = src.Port
	slf.WebAppName = src.WebAppName
	slf.Username = src.Username
	slf.Password = src.Password
	slf.ProxyHostname = src.ProxyHostname
	slf.ProxyPort = src.ProxyPort
	slf.NonProxyHosts = src.NonProxyHosts
	slf.Master = src.Master
	slf.SSLMode = src.SSLMode
	slf.changed = true
}

func (slf *SlaveServer) Clone() *SlaveServer {
	clone := &SlaveServer{}
	clone.ReplaceMeta(slf)
	clone.changed = false
	return clone
}

// ServerAndPort returns "hostname:port", or the hostname alone when no port is set.
func (slf *SlaveServer) ServerAndPort() string {
	if slf.Port == "" {
		return slf.Hostname
	}
	return fmt.Sprintf("%s:%s", slf.Hostname, slf.Port)
}

func (slf *SlaveServer) String() string {
	return slf.Name
}
