package redis

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unreachableClient() *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr: "cache.invalid:6379",
		Dialer: func(context.Context, string, string) (net.Conn, error) {
			return nil, errors.New("redis unavailable")
		},
		MaxRetries: -1,
	})
}

func TestProductKey(t *testing.T) {
	assert.Equal(t, "product:665f1c2b9b1e8a0012345678", productKey("665f1c2b9b1e8a0012345678"))
}

func TestNewProductCacheDefaultsTTL(t *testing.T) {
	c := NewProductCache(unreachableClient(), 0)
	assert.Equal(t, 5*time.Minute, c.ttl)
}

func TestProductCacheSurfacesConnectionErrors(t *testing.T) {
	rdb := unreachableClient()
	defer func() { _ = rdb.Close() }()
	c := NewProductCache(rdb, time.Minute)

	p, ok, err := c.Get(context.Background(), "665f1c2b9b1e8a0012345678")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Nil(t, p)

	assert.Error(t, c.Delete(context.Background(), "665f1c2b9b1e8a0012345678"))
}
