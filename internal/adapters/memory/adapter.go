package memory

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/the127/keyv/internal/keyv"
)

// Adapter keeps raw values in a go-cache instance. Items never expire inside
// go-cache and there is no janitor, keyv expires entries when they are read.
type Adapter struct {
	cache *cache.Cache
}

func New() *Adapter {
	return &Adapter{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func Factory(string) (keyv.Adapter, error) {
	return New(), nil
}

func (a *Adapter) Get(_ context.Context, key string) (any, bool, error) {
	value, ok := a.cache.Get(key)
	return value, ok, nil
}

func (a *Adapter) Set(_ context.Context, key string, value any, _ time.Duration) error {
	a.cache.Set(key, value, cache.NoExpiration)
	return nil
}

func (a *Adapter) Delete(_ context.Context, key string) (bool, error) {
	_, ok := a.cache.Get(key)
	a.cache.Delete(key)
	return ok, nil
}

func (a *Adapter) Clear(_ context.Context) error {
	a.cache.Flush()
	return nil
}

func (a *Adapter) ClearNamespace(_ context.Context, namespace string) error {
	prefix := keyv.NamespacePrefix(namespace)
	for key := range a.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			a.cache.Delete(key)
		}
	}
	return nil
}

func (a *Adapter) Len() int {
	return a.cache.ItemCount()
}
