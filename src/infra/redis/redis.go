package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisClient struct {
	client            *redis.ClusterClient
	defaultTTLSeconds time.Duration
}

func NewRedisClient(addrs string, poolSize int, defaultTTLSeconds time.Duration) *RedisClient {
	client := redis.NewClusterClient(&redis.ClusterOptions{
		Addrs: strings.Split(addrs, ","),

		// Pool settings para alta concorrência
		PoolSize:     poolSize,
		MinIdleConns: 10,

		// Cluster específico
		MaxRedirects: 3,

		// Timeouts otimizados para cache
		DialTimeout:  5 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,

		// Retry e circuit breaker
		MaxRetries:      3,
		MinRetryBackoff: 50 * time.Millisecond,
		MaxRetryBackoff: 500 * time.Millisecond,
	})

	return &RedisClient{
		client:            client,
		defaultTTLSeconds: defaultTTLSeconds,
	}
}

func (rc *RedisClient) Get(ctx context.Context, key string) (string, bool, error) {
	result := rc.client.HGet(ctx, key, "data")

	// Cache miss
	if result.Err() == redis.Nil {
		return "", false, nil
	}
	if result.Err() != nil {
		return "", false, result.Err()
	}

	return result.Val(), true, nil
}

// SetWithRegistry grava a entrada e a registra nos sets de registry, para que
// a invalidação por conta consiga derrubar todas as chaves dependentes.
func (rc *RedisClient) SetWithRegistry(ctx context.Context, cacheKey string, cacheValue string, registryKeys []string) error {
	pipe := rc.client.Pipeline()

	fields := map[string]interface{}{
		"data":      cacheValue,
		"cached_at": time.Now().Unix(),
	}
	pipe.HSet(ctx, cacheKey, fields)
	pipe.Expire(ctx, cacheKey, rc.defaultTTLSeconds)

	for _, registryKey := range registryKeys {
		pipe.SAdd(ctx, registryKey, cacheKey)
		pipe.Expire(ctx, registryKey, rc.defaultTTLSeconds)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// Invalidação em cluster requer cuidado especial
func (rc *RedisClient) InvalidateKeys(ctx context.Context, keys []string) error {
	var errors []string

	for _, key := range keys {
		if err := rc.client.Del(ctx, key).Err(); err != nil {
			errors = append(errors, fmt.Sprintf("key %s: %v", key, err))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("invalidation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// InvalidateByRegistry lê os sets de registry e deleta, além dos próprios
// registries, toda chave de cache registrada sob eles.
func (rc *RedisClient) InvalidateByRegistry(ctx context.Context, registryKeys []string) error {
	allKeysToDelete := make(map[string]bool)

	for _, registryKey := range registryKeys {
		members, err := rc.client.SMembers(ctx, registryKey).Result()
		if err != nil && err != redis.Nil {
			return fmt.Errorf("failed to get registry members for %s: %w", registryKey, err)
		}

		allKeysToDelete[registryKey] = true
		for _, member := range members {
			allKeysToDelete[member] = true
		}
	}

	keysToDelete := make([]string, 0, len(allKeysToDelete))
	for key := range allKeysToDelete {
		keysToDelete = append(keysToDelete, key)
	}

	if len(keysToDelete) == 0 {
		return nil
	}

	return rc.InvalidateKeys(ctx, keysToDelete)
}

// DeleteByPrefix varre o cluster com SCAN e deleta toda chave com o prefixo.
// Caro por construção; é o fallback conservador de invalidação total.
func (rc *RedisClient) DeleteByPrefix(ctx context.Context, prefix string) error {
	pattern := prefix + "*"

	return rc.client.ForEachMaster(ctx, func(ctx context.Context, master *redis.Client) error {
		iter := master.Scan(ctx, 0, pattern, 100).Iterator()

		for iter.Next(ctx) {
			if err := master.Del(ctx, iter.Val()).Err(); err != nil {
				return fmt.Errorf("failed to delete key %s: %w", iter.Val(), err)
			}
		}

		return iter.Err()
	})
}

// Health check para o cluster
func (rc *RedisClient) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

func (rc *RedisClient) Close() error {
	return rc.client.Close()
}
