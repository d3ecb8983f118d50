package service

import (
	"errors"
	"testing"

	"studio/internal/designer/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocumentService(store models.SharedObjectsIO) (*DocumentService, *DocumentRegistry, *recordingListener) {
	registry := NewDocumentRegistry()
	syncer := NewSharedObjectSyncService(registry, zerolog.Nop())
	listener := &recordingListener{}
	syncer.SetListener(listener)
	return NewDocumentService(registry, syncer, store, zerolog.Nop()), registry, listener
}

func TestDocumentService_NewTransformationLoadsSharedObjects(t *testing.T) {
	store := &fakeStore{}
	require.NoError(t, store.SaveSharedObjects("team", []models.SharedObject{
		newShared("DEV", "db.local"),
		&models.StepMeta{Name: "read", Shared: true},
	}))
	documents, registry, _ := newTestDocumentService(store)

	trans, err := documents.NewTransformation("load", "team")
	require.NoError(t, err)

	assert.Same(t, trans, registry.ActiveDocument())
	assert.Equal(t, "team", trans.SharedObjectsScope())
	assert.False(t, trans.HasChanged())
	require.Len(t, trans.GetDatabases(), 1)
	assert.Equal(t, models.ObjectID(1), trans.GetDatabases()[0].ObjectID)
	assert.Len(t, trans.GetSteps(), 1)
}

func TestDocumentService_NewJobLoadFailure(t *testing.T) {
	documents, registry, _ := newTestDocumentService(&fakeStore{loadErr: errors.New("offline")})

	_, err := documents.NewJob("nightly", "team")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline")
	assert.Empty(t, registry.Documents())
}

func TestDocumentService_EditConnectionSynchronizes(t *testing.T) {
	store := &fakeStore{}
	require.NoError(t, store.SaveSharedObjects("team", []models.SharedObject{newShared("DEV", "a")}))
	documents, _, listener := newTestDocumentService(store)

	job, err := documents.NewJob("nightly", "team")
	require.NoError(t, err)
	trans, err := documents.NewTransformation("load", "team")
	require.NoError(t, err)
	saves := store.saveCount()

	db, result, err := documents.EditConnection(trans.DocumentID(), "DEV", func(db *models.DatabaseMeta) {
		db.Name = "DEV2"
		db.Host = "b"
	})
	require.NoError(t, err)

	assert.Equal(t, "DEV2", db.Name)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, []string{job.DocumentID()}, result.DocumentIDs)
	assert.Equal(t, "DEV2", job.GetDatabases()[0].Name)
	assert.Equal(t, "b", job.GetDatabases()[0].Host)
	assert.Equal(t, saves+1, store.saveCount())
	assert.NotEmpty(t, listener.events)

	_, _, err = documents.EditConnection(trans.DocumentID(), "DEV", func(*models.DatabaseMeta) {})
	assert.ErrorIs(t, err, ErrSharedObjectNotFound)
}

func TestDocumentService_EditOtherKinds(t *testing.T) {
	documents, _, _ := newTestDocumentService(nil)

	first, err := documents.NewTransformation("first", "team")
	require.NoError(t, err)
	second, err := documents.NewTransformation("second", "team")
	require.NoError(t, err)

	for _, trans := range []*models.TransMeta{first, second} {
		trans.AddOrReplaceSlaveServer(&models.SlaveServer{Name: "s1", Shared: true})
		trans.AddOrReplaceClusterSchema(&models.ClusterSchema{Name: "c", Shared: true})
		trans.AddOrReplacePartitionSchema(&models.PartitionSchema{Name: "p", Shared: true})
		trans.AddOrReplaceStep(&models.StepMeta{Name: "read", Shared: true})
	}

	_, result, err := documents.EditSlaveServer(second.DocumentID(), "s1", func(server *models.SlaveServer) {
		server.Hostname = "carte"
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, "carte", first.GetSlaveServers()[0].Hostname)

	ownServer := second.GetSlaveServers()[0]
	schema, result, err := documents.EditClusterSchema(second.DocumentID(), "c", func(schema *models.ClusterSchema) {
		schema.SlaveServers = []*models.SlaveServer{ownServer}
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Same(t, ownServer, schema.SlaveServers[0])
	assert.Same(t, first.GetSlaveServers()[0], first.GetClusterSchemas()[0].SlaveServers[0])

	_, result, err = documents.EditPartitionSchema(second.DocumentID(), "p", func(schema *models.PartitionSchema) {
		schema.PartitionIDs = []string{"p1"}
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, []string{"p1"}, first.GetPartitionSchemas()[0].PartitionIDs)

	_, result, err = documents.EditStep(second.DocumentID(), "read", func(step *models.StepMeta) {
		step.Name = "read-orders"
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, "read-orders", first.GetSteps()[0].Name)
}

func TestDocumentService_SaveSynchronizesNewIDs(t *testing.T) {
	store := &fakeStore{}
	require.NoError(t, store.SaveSharedObjects("team", []models.SharedObject{newShared("DEV", "a")}))
	documents, _, _ := newTestDocumentService(store)

	loaded, err := documents.NewTransformation("loaded", "team")
	require.NoError(t, err)
	fresh, err := documents.NewTransformation("fresh", "")
	require.NoError(t, err)

	// created locally, never saved
	local := fresh.AddOrReplaceDatabase(&models.DatabaseMeta{Name: "DEV", Shared: true, Host: "b"})
	require.True(t, local.ObjectID.IsZero())

	fresh.BindSharedObjects(store, "team")
	assigned, err := documents.Save(fresh.DocumentID())
	require.NoError(t, err)

	assert.Equal(t, 1, assigned)
	assert.Equal(t, models.ObjectID(1), local.ObjectID)
	assert.Equal(t, "b", loaded.GetDatabases()[0].Host, "the other instance with the same id is refreshed")
	assert.False(t, fresh.HasChanged())

	assigned, err = documents.Save(fresh.DocumentID())
	require.NoError(t, err)
	assert.Zero(t, assigned)
}

func TestDocumentService_SaveReturnsStoreError(t *testing.T) {
	store := &fakeStore{}
	documents, _, _ := newTestDocumentService(store)
	trans, err := documents.NewTransformation("load", "team")
	require.NoError(t, err)
	trans.AddOrReplaceDatabase(newShared("DEV", "a"))

	store.saveErr = errors.New("read only")
	_, err = documents.Save(trans.DocumentID())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read only")

	_, err = documents.Save("missing")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDocumentService_SetShared(t *testing.T) {
	store := &fakeStore{}
	documents, _, listener := newTestDocumentService(store)
	trans, err := documents.NewTransformation("load", "team")
	require.NoError(t, err)
	db := trans.AddOrReplaceDatabase(&models.DatabaseMeta{Name: "DEV", Host: "a"})

	require.NoError(t, documents.SetShared(trans.DocumentID(), models.KindConnection, "DEV", true))
	assert.True(t, db.Shared)
	assert.False(t, db.ObjectID.IsZero())
	assert.Len(t, store.rows, 1)
	require.NotEmpty(t, listener.events)
	assert.Equal(t, SyncActionReload, listener.events[len(listener.events)-1].Action)

	require.NoError(t, documents.SetShared(trans.DocumentID(), models.KindConnection, "DEV", false))
	assert.False(t, db.Shared)
	assert.Empty(t, store.rows)
	assert.Empty(t, trans.SharedObjects())

	err = documents.SetShared(trans.DocumentID(), models.KindStep, "DEV", true)
	assert.ErrorIs(t, err, ErrSharedObjectNotFound)
}

func TestDocumentService_SetSharedRollsBackOnFailure(t *testing.T) {
	store := &fakeStore{}
	documents, _, _ := newTestDocumentService(store)
	trans, err := documents.NewTransformation("load", "team")
	require.NoError(t, err)
	server := trans.AddOrReplaceSlaveServer(&models.SlaveServer{Name: "carte"})

	store.saveErr = errors.New("denied")
	err = documents.SetShared(trans.DocumentID(), models.KindSlaveServer, "carte", true)
	require.Error(t, err)
	assert.False(t, server.Shared)
}

func TestDocumentService_DeleteRemovesEverywhere(t *testing.T) {
	store := &fakeStore{}
	require.NoError(t, store.SaveSharedObjects("team", []models.SharedObject{newShared("DEV", "a")}))
	documents, _, _ := newTestDocumentService(store)

	job, err := documents.NewJob("nightly", "team")
	require.NoError(t, err)
	trans, err := documents.NewTransformation("load", "team")
	require.NoError(t, err)

	result, err := documents.Delete(trans.DocumentID(), models.KindConnection, "dev")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Updated)
	assert.Empty(t, job.GetDatabases())
	assert.Empty(t, trans.GetDatabases())
	assert.Empty(t, store.rows)

	_, err = documents.Delete(trans.DocumentID(), models.KindConnection, "DEV")
	assert.ErrorIs(t, err, ErrSharedObjectNotFound)
}

func TestDocumentService_Add(t *testing.T) {
	documents, _, _ := newTestDocumentService(nil)
	job, err := documents.NewJob("nightly", "team")
	require.NoError(t, err)
	trans, err := documents.NewTransformation("load", "team")
	require.NoError(t, err)

	kept, err := documents.Add(trans.DocumentID(), &models.PartitionSchema{Name: "p"})
	require.NoError(t, err)
	assert.Same(t, trans.GetPartitionSchemas()[0], kept)

	_, err = documents.Add(job.DocumentID(), &models.StepMeta{Name: "read"})
	assert.ErrorIs(t, err, ErrUnsupportedKind)

	kept, err = documents.Add(job.DocumentID(), &models.SlaveServer{Name: "carte"})
	require.NoError(t, err)
	assert.Same(t, job.GetSlaveServers()[0], kept)
}

func TestDocumentService_CloseAndActivate(t *testing.T) {
	documents, _, _ := newTestDocumentService(nil)
	first, err := documents.NewTransformation("first", "team")
	require.NoError(t, err)
	second, err := documents.NewJob("second", "team")
	require.NoError(t, err)

	require.NoError(t, documents.Activate(first.DocumentID()))
	assert.Same(t, first, documents.ActiveDocument())

	require.NoError(t, documents.Close(first.DocumentID()))
	assert.Same(t, second, documents.ActiveDocument())
	assert.ErrorIs(t, documents.Close(first.DocumentID()), ErrDocumentNotFound)
}

func TestFindSharedObject(t *testing.T) {
	job := models.NewJobMeta("nightly")
	job.AddOrReplaceDatabase(&models.DatabaseMeta{Name: "dev"})
	exact := job.AddOrReplaceSlaveServer(&models.SlaveServer{Name: "Carte"})

	obj, ok := FindSharedObject(job, models.KindConnection, "DEV")
	require.True(t, ok)
	assert.Equal(t, "dev", obj.GetName())

	obj, ok = FindSharedObject(job, models.KindSlaveServer, "Carte")
	require.True(t, ok)
	assert.Same(t, exact, obj)

	_, ok = FindSharedObject(job, models.KindStep, "read")
	assert.False(t, ok, "jobs have no steps")
}
