package keyv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/the127/keyv/internal/mapper"
	"github.com/the127/keyv/internal/services/clock"
)

var (
	ErrUnknownAdapter = errors.New("unknown adapter")
	ErrSerializerType = errors.New("serializer does not match value type")
	ErrUnsupportedRaw = errors.New("unsupported stored value")
	ErrDecode         = errors.New("decoding entry")
	ErrInvalidTTL     = errors.New("invalid ttl")
	ErrLengthMismatch = errors.New("keys and values differ in length")
	ErrBatchLength    = errors.New("adapter returned wrong number of values")
)

// Keyv namespaces, serializes and lazily expires values kept in an Adapter.
type Keyv[V any] struct {
	ErrorEmitter

	namespace   string
	store       Adapter
	codec       codec[V]
	clock       clock.Service
	concurrency int
}

// Result is one value of a batch read.
type Result[V any] struct {
	Value V
	Found bool
}

func New[V any](opts ...Option) (*Keyv[V], error) {
	options := newOptions(opts)

	serializer := Serializer[V](JSONSerializer[V]{})
	if options.Serializer != nil {
		typed, ok := options.Serializer.(Serializer[V])
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrSerializerType, options.Serializer)
		}
		serializer = typed
	}

	if options.TTL < 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTTL, options.TTL)
	}

	store := options.Store
	if store == nil {
		var err error
		store, err = options.Registry.Resolve(options.Adapter, options.URI)
		if err != nil {
			return nil, err
		}
	}

	k := &Keyv[V]{
		namespace: options.Namespace,
		store:     store,
		codec: codec[V]{
			serializer: serializer,
			defaultTTL: options.TTL,
			clock:      options.Clock,
		},
		clock:       options.Clock,
		concurrency: options.Concurrency,
	}

	if observable, ok := store.(Observable); ok {
		observable.OnError(k.Emit)
	}

	return k, nil
}

func (k *Keyv[V]) Namespace() string {
	return k.namespace
}

func (k *Keyv[V]) Store() Adapter {
	return k.store
}

func (k *Keyv[V]) Get(ctx context.Context, key string) (V, bool, error) {
	entry, err := k.GetRaw(ctx, key)
	if err != nil || entry == nil {
		var zero V
		return zero, false, err
	}
	return entry.Value, true, nil
}

// GetRaw returns the whole entry, nil on a miss.
func (k *Keyv[V]) GetRaw(ctx context.Context, key string) (*Entry[V], error) {
	raw, ok, err := k.store.Get(ctx, PhysicalKey(k.namespace, key))
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", key, err)
	}
	return k.expire(ctx, key, raw, ok)
}

func (k *Keyv[V]) Has(ctx context.Context, key string) (bool, error) {
	entry, err := k.GetRaw(ctx, key)
	if err != nil {
		return false, err
	}
	return entry != nil, nil
}

func (k *Keyv[V]) MGet(ctx context.Context, keys []string, opts ...CallOption) ([]Result[V], error) {
	entries, err := k.MGetRaw(ctx, keys, opts...)
	if err != nil {
		return nil, err
	}

	results := make([]Result[V], len(entries))
	for i, entry := range entries {
		if entry != nil {
			results[i] = Result[V]{Value: entry.Value, Found: true}
		}
	}
	return results, nil
}

// MGetRaw returns one entry per key in key order, nil for misses.
func (k *Keyv[V]) MGetRaw(ctx context.Context, keys []string, opts ...CallOption) ([]*Entry[V], error) {
	concurrency := k.batchConcurrency(newCallOptions(opts))
	physical := k.physicalKeys(keys)

	var raws []any
	var err error

	if batch, ok := k.store.(BatchReadable); ok {
		raws, err = batch.GetMany(ctx, physical, BatchOptions{Concurrency: concurrency})
		if err == nil && len(raws) != len(keys) {
			err = fmt.Errorf("%w: %d for %d keys", ErrBatchLength, len(raws), len(keys))
		}
	} else {
		raws, err = mapper.Map(ctx, physical, func(ctx context.Context, key string, _ int) (any, error) {
			raw, ok, err := k.store.Get(ctx, key)
			if err != nil || !ok {
				return nil, err
			}
			return raw, nil
		}, mapper.WithConcurrency(concurrency))
	}
	if err != nil {
		return nil, fmt.Errorf("getting %d keys: %w", len(keys), err)
	}

	return mapper.Map(ctx, raws, func(ctx context.Context, raw any, i int) (*Entry[V], error) {
		return k.expire(ctx, keys[i], raw, raw != nil)
	}, mapper.WithConcurrency(concurrency))
}

func (k *Keyv[V]) Set(ctx context.Context, key string, value V, opts ...CallOption) (bool, error) {
	ttl, err := k.codec.ttl(newCallOptions(opts).Expiration)
	if err != nil {
		return false, err
	}

	data, err := k.codec.encode(value, ttl)
	if err != nil {
		return false, err
	}

	err = k.store.Set(ctx, PhysicalKey(k.namespace, key), data, ttl)
	if err != nil {
		return false, fmt.Errorf("setting %s: %w", key, err)
	}
	return true, nil
}

// MSet writes values[i] under keys[i]. All entries share one ttl.
func (k *Keyv[V]) MSet(ctx context.Context, keys []string, values []V, opts ...CallOption) (bool, error) {
	if len(keys) != len(values) {
		return false, fmt.Errorf("%w: %d keys, %d values", ErrLengthMismatch, len(keys), len(values))
	}

	callOptions := newCallOptions(opts)
	concurrency := k.batchConcurrency(callOptions)

	ttl, err := k.codec.ttl(callOptions.Expiration)
	if err != nil {
		return false, err
	}

	raws := make([]any, len(values))
	for i, value := range values {
		raws[i], err = k.codec.encode(value, ttl)
		if err != nil {
			return false, fmt.Errorf("encoding %s: %w", keys[i], err)
		}
	}

	physical := k.physicalKeys(keys)

	if batch, ok := k.store.(BatchWritable); ok {
		err = batch.SetMany(ctx, physical, raws, ttl, BatchOptions{Concurrency: concurrency})
	} else {
		_, err = mapper.Map(ctx, physical, func(ctx context.Context, key string, i int) (struct{}, error) {
			return struct{}{}, k.store.Set(ctx, key, raws[i], ttl)
		}, mapper.WithConcurrency(concurrency))
	}
	if err != nil {
		return false, fmt.Errorf("setting %d keys: %w", len(keys), err)
	}
	return true, nil
}

// MSetMap is MSet for a map, entries are written in sorted key order.
func (k *Keyv[V]) MSetMap(ctx context.Context, values map[string]V, opts ...CallOption) (bool, error) {
	keys := slices.Sorted(maps.Keys(values))

	ordered := make([]V, len(keys))
	for i, key := range keys {
		ordered[i] = values[key]
	}

	return k.MSet(ctx, keys, ordered, opts...)
}

func (k *Keyv[V]) Delete(ctx context.Context, key string) (bool, error) {
	deleted, err := k.store.Delete(ctx, PhysicalKey(k.namespace, key))
	if err != nil {
		return false, fmt.Errorf("deleting %s: %w", key, err)
	}
	return deleted, nil
}

// Clear removes this namespace when the adapter can scope a clear, and
// everything the adapter holds otherwise.
func (k *Keyv[V]) Clear(ctx context.Context) error {
	var err error
	if clearer, ok := k.store.(NamespaceClearer); ok {
		err = clearer.ClearNamespace(ctx, k.namespace)
	} else {
		err = k.store.Clear(ctx)
	}
	if err != nil {
		return fmt.Errorf("clearing %s: %w", k.namespace, err)
	}
	return nil
}

// Close releases the adapter if it holds resources.
func (k *Keyv[V]) Close() error {
	if closer, ok := k.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (k *Keyv[V]) batchConcurrency(opts CallOptions) int {
	if opts.Concurrency != nil {
		return *opts.Concurrency
	}
	return k.concurrency
}
