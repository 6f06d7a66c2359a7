// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"garagio/config"

	"github.com/go-redis/redis/v8"
)

var (
	// SessionCacheClient holds in-flight booking sessions.
	SessionCacheClient *redis.Client
	// CatalogCacheClient holds short-lived catalog fetch results.
	CatalogCacheClient *redis.Client
)

// InitSessionCache initializes the Redis client backing booking sessions.
func InitSessionCache() {
	SessionCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := SessionCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Session Cache): %v", err)
	}
}

// GetSessionCacheClient returns the booking session cache client.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		InitSessionCache()
	}
	return SessionCacheClient
}

// InitCatalogCache initializes the Redis client for catalog result caching.
func InitCatalogCache() {
	CatalogCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCatalogDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CatalogCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Catalog Cache): %v", err)
	}
}

// GetCatalogCacheClient returns the catalog cache client.
func GetCatalogCacheClient() *redis.Client {
	if CatalogCacheClient == nil {
		InitCatalogCache()
	}
	return CatalogCacheClient
}
