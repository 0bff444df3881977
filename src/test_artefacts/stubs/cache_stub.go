package stubs

import (
	"context"
	"strings"
	"sync"
)

// CacheStub implementa o contrato de cache em memória, com os mesmos sets de
// registry da implementação redis, para testar o protocolo de invalidação
// sem infraestrutura.
type CacheStub struct {
	mu         sync.RWMutex
	entries    map[string]string
	registries map[string]map[string]bool
}

func NewCacheStub() *CacheStub {
	return &CacheStub{
		entries:    make(map[string]string),
		registries: make(map[string]map[string]bool),
	}
}

func (c *CacheStub) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.entries[key]
	return value, ok, nil
}

func (c *CacheStub) SetWithRegistry(ctx context.Context, key string, value string, registryKeys []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = value

	for _, registryKey := range registryKeys {
		if c.registries[registryKey] == nil {
			c.registries[registryKey] = make(map[string]bool)
		}
		c.registries[registryKey][key] = true
	}

	return nil
}

func (c *CacheStub) InvalidateKeys(ctx context.Context, keys []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		delete(c.entries, key)
	}

	return nil
}

func (c *CacheStub) InvalidateByRegistry(ctx context.Context, registryKeys []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, registryKey := range registryKeys {
		for member := range c.registries[registryKey] {
			delete(c.entries, member)
		}
		delete(c.registries, registryKey)
	}

	return nil
}

func (c *CacheStub) DeleteByPrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}

	return nil
}

// Len expõe o número de entradas vivas, para asserções de invalidação.
func (c *CacheStub) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Has informa se uma chave específica está viva.
func (c *CacheStub) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.entries[key]
	return ok
}
