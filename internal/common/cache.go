package common

import (
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

type Cache struct {
	*cache.Cache
}

func NewCache(expirationTime, cleanupTime time.Duration) *Cache {
	return &Cache{cache.New(expirationTime, cleanupTime)}
}

func (c *Cache) Set(key string, value interface{}, expiration ...time.Duration) {
	if len(expiration) > 0 {
		c.Cache.Set(key, value, expiration[0])
		return
	}
	c.Cache.Set(key, value, cache.DefaultExpiration)
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.Cache.Get(key)
}

func (c *Cache) Flush() {
	c.Cache.Flush()
}

func CacheKeyPost(id int) string {
	return "post:" + strconv.Itoa(id)
}

func CacheKeyPostBySlug(slug string) string {
	return "post_by_slug:" + slug
}

func CacheKeyPosts(limit, offset int) string {
	return "posts:" + strconv.Itoa(limit) + ":" + strconv.Itoa(offset)
}
