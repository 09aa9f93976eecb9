package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/oksasatya/storefront-api/internal/application"
	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/pkg/helpers"
)

// ProductCache keeps JSON snapshots of products under product:<id>
type ProductCache struct {
	rdb goredis.Cmdable
	ttl time.Duration
}

func NewProductCache(rdb goredis.Cmdable, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ProductCache{rdb: rdb, ttl: ttl}
}

func productKey(id string) string { return "product:" + id }

func (c *ProductCache) Get(ctx context.Context, id string) (*entity.Product, bool, error) {
	var p entity.Product
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, productKey(id), &p)
	if err != nil || !ok {
		return nil, false, err
	}
	return &p, true, nil
}

func (c *ProductCache) Set(ctx context.Context, p *entity.Product) error {
	return helpers.RedisSetJSON(ctx, c.rdb, productKey(p.ID.Hex()), p, c.ttl)
}

func (c *ProductCache) Delete(ctx context.Context, id string) error {
	return helpers.RedisDel(ctx, c.rdb, productKey(id))
}

var _ application.ProductCache = (*ProductCache)(nil)
