package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"garagio/models"
	"garagio/remote"
	"garagio/utils"

	"github.com/go-redis/redis/v8"
)

const resultCacheTTL = 90 * time.Second

// ResultCache keeps the last variant payload for a query fingerprint so a
// retry with identical parameters can be served warm. Strictly best-effort:
// cache trouble never fails a fetch.
type ResultCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewResultCache builds a cache over the shared catalog Redis client.
func NewResultCache() *ResultCache {
	return &ResultCache{Client: utils.GetCatalogCacheClient(), TTL: resultCacheTTL}
}

func cacheKey(q remote.VariantQuery) string {
	data, err := json.Marshal(q)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return "catalog:variants:" + hex.EncodeToString(sum[:16])
}

// Get returns the cached records for the query, if present.
func (c *ResultCache) Get(ctx context.Context, q remote.VariantQuery) ([]models.VariantRecord, bool) {
	if c == nil || c.Client == nil {
		return nil, false
	}
	key := cacheKey(q)
	if key == "" {
		return nil, false
	}
	data, err := c.Client.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var records []models.VariantRecord
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, false
	}
	return records, true
}

// Put stores the records under the query fingerprint.
func (c *ResultCache) Put(ctx context.Context, q remote.VariantQuery, records []models.VariantRecord) {
	if c == nil || c.Client == nil {
		return
	}
	key := cacheKey(q)
	if key == "" {
		return
	}
	data, err := json.Marshal(records)
	if err != nil {
		return
	}
	c.Client.Set(ctx, key, data, c.TTL)
}
