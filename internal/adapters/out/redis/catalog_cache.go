// Package redis caches catalog lookups used for cart price snapshots.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eshop/internal/core/domain/model/kernel"
	"eshop/internal/core/domain/model/product"
	"eshop/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "eshop:catalog:product:"

// Client is the subset of *goredis.Client the cache needs.
type Client interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
}

type cachedProduct struct {
	ID             kernel.UUID  `json:"id"`
	Name           string       `json:"name"`
	Price          kernel.Money `json:"price"`
	AvailableStock int          `json:"available_stock"`
}

// CachedCatalog is a read-through decorator over another catalog. Cache
// failures degrade to the wrapped catalog and are logged, never returned.
// Stock figures served from the cache may be stale; the stock ledger is
// the only authority on availability.
type CachedCatalog struct {
	next   ports.Catalog
	client Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedCatalog(next ports.Catalog, client Client, ttl time.Duration, logger *zap.Logger) *CachedCatalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedCatalog{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedCatalog) FindProduct(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	key := productKey(id)

	raw, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		p, decodeErr := decode(raw)
		if decodeErr == nil {
			return p, nil
		}
		c.logger.Warn("discarding undecodable catalog cache entry",
			zap.String("key", key), zap.Error(decodeErr))
	case !errors.Is(err, goredis.Nil):
		c.logger.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
	}

	p, err := c.next.FindProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, p)
	return p, nil
}

func (c *CachedCatalog) store(ctx context.Context, key string, p *product.Product) {
	payload, err := json.Marshal(cachedProduct{
		ID:             p.ID(),
		Name:           p.Name(),
		Price:          p.Price(),
		AvailableStock: p.AvailableStock(),
	})
	if err != nil {
		c.logger.Warn("encoding catalog cache entry failed", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func decode(raw string) (*product.Product, error) {
	var entry cachedProduct
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, err
	}
	p, err := product.NewProduct(entry.ID, entry.Name, entry.Price, entry.AvailableStock)
	if err != nil {
		return nil, fmt.Errorf("restore cached product: %w", err)
	}
	return p, nil
}

func productKey(id kernel.UUID) string {
	return keyPrefix + id.String()
}
