package characters

import (
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces vault keys when no prefix is configured
const DefaultKeyPrefix = "vault"

// NewRedis creates a new Redis-backed snapshot repository with the default prefix
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{
		Client:    client,
		KeyPrefix: DefaultKeyPrefix,
	})
}
