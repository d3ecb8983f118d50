package repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"studio/internal/designer/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const cacheTimeout = 5 * time.Second

// CachedSharedObjectRepository keeps a JSON copy of each scope's rows in
// Redis. The database stays the source of truth: writes go to it first and
// then drop the cached scope. Redis failures are logged and never returned.
type CachedSharedObjectRepository struct {
	Db     *SharedObjectRepository
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger zerolog.Logger
}

func NewCachedSharedObjectRepository(db *SharedObjectRepository, client *redis.Client, prefix string, ttl time.Duration, logger zerolog.Logger) *CachedSharedObjectRepository {
	if prefix == "" {
		prefix = "shared-objects:"
	}
	return &CachedSharedObjectRepository{
		Db:     db,
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

func (slf *CachedSharedObjectRepository) key(scope string) string {
	return slf.prefix + scope
}

func (slf *CachedSharedObjectRepository) LoadSharedObjects(scope string) ([]models.SharedObject, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	data, err := slf.client.Get(ctx, slf.key(scope)).Bytes()
	switch {
	case err == nil:
		var records []models.SharedObjectRecord
		if err := json.Unmarshal(data, &records); err == nil {
			return decodeRecords(records)
		}
		slf.logger.Warn().Err(err).Str("scope", scope).Msg("Discarding unreadable shared objects cache entry")
	case !errors.Is(err, redis.Nil):
		slf.logger.Warn().Err(err).Str("scope", scope).Msg("Shared objects cache unavailable, reading database")
	}

	records, err := slf.Db.FindRecords(scope)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(records); err == nil {
		if err := slf.client.Set(ctx, slf.key(scope), data, slf.ttl).Err(); err != nil {
			slf.logger.Warn().Err(err).Str("scope", scope).Msg("Failed to cache shared objects")
		}
	}
	return decodeRecords(records)
}

func (slf *CachedSharedObjectRepository) SaveSharedObjects(scope string, objects []models.SharedObject) error {
	if err := slf.Db.SaveSharedObjects(scope, objects); err != nil {
		return err
	}
	slf.invalidate(scope)
	return nil
}

func (slf *CachedSharedObjectRepository) DeleteSharedObject(scope string, kind models.SharedObjectKind, name string) error {
	if err := slf.Db.DeleteSharedObject(scope, kind, name); err != nil {
		return err
	}
	slf.invalidate(scope)
	return nil
}

func (slf *CachedSharedObjectRepository) invalidate(scope string) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	if err := slf.client.Del(ctx, slf.key(scope)).Err(); err != nil {
		slf.logger.Warn().Err(err).Str("scope", scope).Msg("Failed to invalidate shared objects cache")
	}
}
