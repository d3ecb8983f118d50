package repo

import (
	"testing"
	"time"

	"studio/internal/designer/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCachedRepository(t *testing.T) (*CachedSharedObjectRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repository := NewCachedSharedObjectRepository(NewSharedObjectRepository(setupTestDB(t)), client, "", time.Minute, zerolog.Nop())
	return repository, mr
}

func TestCachedSharedObjectRepository_LoadPopulatesCache(t *testing.T) {
	repository, mr := setupCachedRepository(t)

	db := &models.DatabaseMeta{Name: "DEV", Shared: true, Host: "localhost"}
	require.NoError(t, repository.SaveSharedObjects("team", []models.SharedObject{db}))
	assert.False(t, mr.Exists("shared-objects:team"))

	loaded, err := repository.LoadSharedObjects("team")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.True(t, mr.Exists("shared-objects:team"))
	assert.Equal(t, time.Minute, mr.TTL("shared-objects:team"))

	// served from the cache once the row is gone from the database
	require.NoError(t, repository.Db.Db.Where("1 = 1").Delete(&models.SharedObjectRecord{}).Error)
	cached, err := repository.LoadSharedObjects("team")
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, db.ObjectID, cached[0].GetObjectID())
	assert.Equal(t, "localhost", cached[0].(*models.DatabaseMeta).Host)
}

func TestCachedSharedObjectRepository_WritesInvalidate(t *testing.T) {
	repository, mr := setupCachedRepository(t)

	require.NoError(t, repository.SaveSharedObjects("team", []models.SharedObject{&models.DatabaseMeta{Name: "DEV", Shared: true}}))
	_, err := repository.LoadSharedObjects("team")
	require.NoError(t, err)
	require.True(t, mr.Exists("shared-objects:team"))

	require.NoError(t, repository.SaveSharedObjects("team", []models.SharedObject{&models.SlaveServer{Name: "carte", Shared: true}}))
	assert.False(t, mr.Exists("shared-objects:team"))

	loaded, err := repository.LoadSharedObjects("team")
	require.NoError(t, err)
	assert.Len(t, loaded, 2)

	require.NoError(t, repository.DeleteSharedObject("team", models.KindSlaveServer, "carte"))
	assert.False(t, mr.Exists("shared-objects:team"))

	loaded, err = repository.LoadSharedObjects("team")
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestCachedSharedObjectRepository_FallsBackWhenRedisIsDown(t *testing.T) {
	repository, mr := setupCachedRepository(t)

	require.NoError(t, repository.SaveSharedObjects("team", []models.SharedObject{&models.DatabaseMeta{Name: "DEV", Shared: true}}))
	mr.Close()

	loaded, err := repository.LoadSharedObjects("team")
	require.NoError(t, err)
	assert.Len(t, loaded, 1)

	assert.NoError(t, repository.SaveSharedObjects("team", []models.SharedObject{&models.DatabaseMeta{Name: "QA", Shared: true}}))
}

func TestCachedSharedObjectRepository_DiscardsCorruptEntry(t *testing.T) {
	repository, mr := setupCachedRepository(t)

	require.NoError(t, repository.SaveSharedObjects("team", []models.SharedObject{&models.DatabaseMeta{Name: "DEV", Shared: true}}))
	require.NoError(t, mr.Set("shared-objects:team", "not json"))

	loaded, err := repository.LoadSharedObjects("team")
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}
