package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	cases := map[string]SharedObjectKind{
		"connection":        KindConnection,
		"connections":       KindConnection,
		"slave-servers":     KindSlaveServer,
		"cluster_schema":    KindClusterSchema,
		"partition-schemas": KindPartitionSchema,
		"steps":             KindStep,
	}
	for raw, expected := range cases {
		kind, err := ParseKind(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, expected, kind, raw)
	}

	_, err := ParseKind("notes")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestDatabaseMeta_ReplaceMetaKeepsObjectID(t *testing.T) {
	target := &DatabaseMeta{ObjectID: 7, Name: "DEV", Host: "old"}
	source := &DatabaseMeta{
		ObjectID:   9,
		Name:       "DEV2",
		Shared:     true,
		Type:       DBTypeMySQL,
		Host:       "new",
		Port:       3306,
		Attributes: map[string]string{"charset": "utf8"},
	}

	target.ReplaceMeta(source)

	assert.Equal(t, ObjectID(7), target.ObjectID)
	assert.Equal(t, "DEV2", target.Name)
	assert.True(t, target.Shared)
	assert.Equal(t, "new", target.Host)
	assert.Equal(t, 3306, target.Port)
	assert.True(t, target.HasChanged())

	source.Attributes["charset"] = "latin1"
	assert.Equal(t, "utf8", target.Attributes["charset"], "attributes must not be aliased")
}

func TestDatabaseMeta_BuildConnectionString(t *testing.T) {
	db := &DatabaseMeta{Host: "localhost", Port: 5432, User: "u", Password: "p", DatabaseName: "etl"}
	assert.Equal(t, "postgres", db.GetDriverName())
	assert.Equal(t, "host=localhost port=5432 user=u password=p dbname=etl sslmode=disable", db.BuildConnectionString())

	db.Type = DBTypeMySQL
	assert.Equal(t, "mysql", db.GetDriverName())
	assert.Equal(t, "u:p@tcp(localhost:5432)/etl?parseTime=true", db.BuildConnectionString())

	db.Type = DBTypeSQLServer
	assert.Equal(t, "sqlserver", db.GetDriverName())
	assert.Equal(t, "sqlserver://u:p@localhost:5432?database=etl", db.BuildConnectionString())
}

func TestClusterSchema_ReplaceMetaCopiesServerList(t *testing.T) {
	a := &SlaveServer{Name: "a"}
	b := &SlaveServer{Name: "b"}
	source := &ClusterSchema{Name: "cluster", BasePort: "40000", SlaveServers: []*SlaveServer{a, b}}
	target := &ClusterSchema{ObjectID: 3}

	target.ReplaceMeta(source)
	source.SlaveServers[0] = b

	assert.Equal(t, ObjectID(3), target.ObjectID)
	assert.Equal(t, []string{"a", "b"}, target.SlaveServerNames())
	assert.Equal(t, "40000", target.BasePort)
}

func TestStepMeta_ReplaceMetaClonesData(t *testing.T) {
	source := &StepMeta{Name: "read", StepType: StepTypeTableInput}
	require.NoError(t, source.SetData(map[string]string{"query": "select 1"}))

	target := &StepMeta{ObjectID: 4}
	target.ReplaceMeta(source)
	source.Data[0] = '['

	var data map[string]string
	require.NoError(t, target.GetData(&data))
	assert.Equal(t, "select 1", data["query"])
	assert.Equal(t, ObjectID(4), target.ObjectID)
}

func TestUnmarshalSharedObject(t *testing.T) {
	payload, err := MarshalSharedObject(&SlaveServer{ObjectID: 12, Name: "carte", Hostname: "host", Port: "8080", Shared: true})
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "12", "object id is not part of the payload")

	obj, err := UnmarshalSharedObject(KindSlaveServer, payload)
	require.NoError(t, err)
	server, ok := obj.(*SlaveServer)
	require.True(t, ok)
	assert.Equal(t, "carte", server.Name)
	assert.Equal(t, "host:8080", server.ServerAndPort())
	assert.True(t, server.Shared)
	assert.True(t, server.ObjectID.IsZero())

	_, err = UnmarshalSharedObject("notes", payload)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestSharedObjectRecord_Decode(t *testing.T) {
	record := SharedObjectRecord{
		ID:      21,
		Kind:    KindPartitionSchema,
		Name:    "parts",
		Payload: `{"name":"parts","shared":true,"partitionIds":["p1","p2"]}`,
	}

	obj, err := record.Decode()
	require.NoError(t, err)
	schema := obj.(*PartitionSchema)
	assert.Equal(t, ObjectID(21), schema.ObjectID)
	assert.Equal(t, []string{"p1", "p2"}, schema.PartitionIDs)
}
