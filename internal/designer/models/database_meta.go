package models

import (
	"fmt"
	"maps"
	"net/url"
)

type DBType string

const (
	DBTypePostgres  DBType = "postgres"
	DBTypeMySQL     DBType = "mysql"
	DBTypeSQLServer DBType = "sqlserver"
)

// DatabaseMeta describes a database connection.
type DatabaseMeta struct {
	ObjectID     ObjectID          `json:"-"`
	Name         string            `json:"name"`
	Shared       bool              `json:"shared"`
	Type         DBType            `json:"type"`
	Host         string            `json:"host"`
	Port         int               `json:"port"`
	DatabaseName string            `json:"databaseName"`
	User         string            `json:"user"`
	Password     string            `json:"password"`
	SSLMode      string            `json:"sslMode"`
	Extra        string            `json:"extra"`
	Attributes   map[string]string `json:"attributes,omitempty"`

	changed bool
}

func (slf *DatabaseMeta) GetName() string         { return slf.Name }
func (slf *DatabaseMeta) IsShared() bool          { return slf.Shared }
func (slf *DatabaseMeta) SetShared(shared bool)   { slf.Shared = shared }
func (slf *DatabaseMeta) GetObjectID() ObjectID   { return slf.ObjectID }
func (slf *DatabaseMeta) SetObjectID(id ObjectID) { slf.ObjectID = id }
func (slf *DatabaseMeta) Kind() SharedObjectKind  { return KindConnection }
func (slf *DatabaseMeta) HasChanged() bool        { return slf.changed }
func (slf *DatabaseMeta) SetChanged(changed bool) { slf.changed = changed }

// ReplaceMeta copies the content of src onto slf. The object ID of slf is kept.
func (slf *DatabaseMeta) ReplaceMeta(src *DatabaseMeta) {
	slf.Name = src.Name
	slf.Shared = src.Shared
	slf.Type = src.Type
	slf.Host = src.Host
	slf.Port = src.Port
	slf.DatabaseName = src.DatabaseName
	slf.User = src.User
	slf.Password = src.Password
	slf.SSLMode = src.SSLMode
	slf.Extra = src.Extra
	slf.Attributes = maps.Clone(src.Attributes)
	slf.changed = true
}

// Clone returns an unsaved copy.
func (slf *DatabaseMeta) Clone() *DatabaseMeta {
	clone := &DatabaseMeta{}
	clone.ReplaceMeta(slf)
	clone.changed = false
	return clone
}

func (slf *DatabaseMeta) GetDriverName() string {
	switch slf.Type {
	case DBTypeMySQL:
		return "mysql"
	case DBTypeSQLServer:
		return "sqlserver"
	default:
		return "postgres"
	}
}

func (slf *DatabaseMeta) BuildConnectionString() string {
	switch slf.Type {
	case DBTypeMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
			slf.User, slf.Password, slf.Host, slf.Port, slf.DatabaseName)
	case DBTypeSQLServer:
		query := url.Values{}
		query.Set("database", slf.DatabaseName)
		u := &url.URL{
			Scheme:   "sqlserver",
			User:     url.UserPassword(slf.User, slf.Password),
			Host:     fmt.Sprintf("%s:%d", slf.Host, slf.Port),
			RawQuery: query.Encode(),
		}
		return u.String()
	default:
		sslMode := slf.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			slf.Host, slf.Port, slf.User, slf.Password, slf.DatabaseName, sslMode)
	}
}
