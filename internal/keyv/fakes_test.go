package keyv

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
	"time"
)

// fakeStore is a map backed Adapter that records what it was asked to do.
type fakeStore struct {
	mu      sync.Mutex
	data    map[string]any
	ttls    map[string]time.Duration
	deletes []string
	clears  int
	jitter  bool
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		data: make(map[string]any),
		ttls: make(map[string]time.Duration),
	}
}

// delay makes results for different keys complete in scrambled order.
func (f *fakeStore) delay(key string) {
	if !f.jitter {
		return
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	time.Sleep(time.Duration(h.Sum32()%7) * time.Millisecond)
}

func (f *fakeStore) Get(_ context.Context, key string) (any, bool, error) {
	f.delay(key)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, false, f.err
	}
	value, ok := f.data[key]
	return value, ok, nil
}

func (f *fakeStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	f.delay(key)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.data[key] = value
	f.ttls[key] = ttl
	return nil
}

func (f *fakeStore) Delete(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	f.deletes = append(f.deletes, key)
	_, ok := f.data[key]
	delete(f.data, key)
	return ok, nil
}

func (f *fakeStore) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.clears++
	f.data = make(map[string]any)
	return nil
}

func (f *fakeStore) raw(key string) (any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.data[key]
	return value, ok
}

func (f *fakeStore) put(key string, value any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
}

func (f *fakeStore) deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deletes...)
}

// batchStore adds native batch reads and writes to fakeStore.
type batchStore struct {
	*fakeStore
	getManyCalls int
	setManyCalls int
	lastOptions  BatchOptions
}

func (b *batchStore) GetMany(ctx context.Context, keys []string, opts BatchOptions) ([]any, error) {
	b.getManyCalls++
	b.lastOptions = opts
	values := make([]any, len(keys))
	for i, key := range keys {
		value, ok, err := b.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			values[i] = value
		}
	}
	return values, nil
}

func (b *batchStore) SetMany(ctx context.Context, keys []string, values []any, ttl time.Duration, opts BatchOptions) error {
	b.setManyCalls++
	b.lastOptions = opts
	for i, key := range keys {
		err := b.Set(ctx, key, values[i], ttl)
		if err != nil {
			return err
		}
	}
	return nil
}

// shortBatchStore returns too few values from GetMany.
type shortBatchStore struct {
	*fakeStore
}

func (s *shortBatchStore) GetMany(context.Context, []string, BatchOptions) ([]any, error) {
	return []any{}, nil
}

type observableStore struct {
	*fakeStore
	ErrorEmitter
}

type namespacedStore struct {
	*fakeStore
	clearedNamespaces []string
}

func (n *namespacedStore) ClearNamespace(_ context.Context, namespace string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.clearedNamespaces = append(n.clearedNamespaces, namespace)
	for key := range n.data {
		if strings.HasPrefix(key, NamespacePrefix(namespace)) {
			delete(n.data, key)
		}
	}
	return nil
}

type closableStore struct {
	*fakeStore
	closed bool
}

func (c *closableStore) Close() error {
	c.closed = true
	return nil
}
