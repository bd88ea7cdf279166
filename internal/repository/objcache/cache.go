// Package objcache is a read-through cache in front of generic object lookups.
package objcache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	dbredis "github.com/SWGEvolve/swg-graphql/internal/db/redis"
	"github.com/SWGEvolve/swg-graphql/internal/domain/object"
	"github.com/SWGEvolve/swg-graphql/internal/metrics"
)

const keyPrefix = "swg:object:"

// KV is the consumer interface for the cache backend.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ObjectGetter looks up a generic object from the authoritative store.
type ObjectGetter interface {
	GetObject(ctx context.Context, id string) (*object.ServerObject, error)
}

// Cache decorates an ObjectGetter with a TTL'd read-through cache. Hot game
// objects get looked up on nearly every search page, so positive results are
// cached; not-found is never cached. Backend failures degrade to the
// underlying store, they do not fail the lookup.
type Cache struct {
	next   ObjectGetter
	kv     KV
	ttl    time.Duration
	logger *zap.Logger
}

// New creates an object lookup cache.
func New(next ObjectGetter, kv KV, ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{next: next, kv: kv, ttl: ttl, logger: logger}
}

// GetObject implements ObjectGetter.
func (c *Cache) GetObject(ctx context.Context, id string) (*object.ServerObject, error) {
	key := keyPrefix + id

	data, err := c.kv.Get(ctx, key)
	if err == nil {
		var obj object.ServerObject
		if jsonErr := json.Unmarshal(data, &obj); jsonErr == nil {
			metrics.ObjectCacheTotal.WithLabelValues("hit").Inc()
			return &obj, nil
		}
		c.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
	} else if !errors.Is(err, dbredis.ErrKeyNotFound) {
		c.logger.Warn("object cache read failed", zap.String("key", key), zap.Error(err))
	}
	metrics.ObjectCacheTotal.WithLabelValues("miss").Inc()

	obj, err := c.next.GetObject(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(obj); err == nil {
		if err := c.kv.SetWithTTL(ctx, key, data, c.ttl); err != nil {
			c.logger.Warn("object cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return obj, nil
}
