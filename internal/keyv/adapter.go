package keyv

import (
	"context"
	"sync"
	"time"
)

// Adapter is the storage a Keyv delegates to. Keys handed to an adapter are
// already namespaced. A ttl of zero means the adapter should keep the value
// until it is overwritten or deleted.
type Adapter interface {
	Get(ctx context.Context, key string) (value any, ok bool, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context) error
}

type BatchOptions struct {
	Concurrency int
}

// BatchReadable adapters read many keys in one call. The result has one
// element per key in key order, nil for absent keys.
type BatchReadable interface {
	GetMany(ctx context.Context, keys []string, opts BatchOptions) ([]any, error)
}

type BatchWritable interface {
	SetMany(ctx context.Context, keys []string, values []any, ttl time.Duration, opts BatchOptions) error
}

// Observable adapters report errors that happen outside of any call.
type Observable interface {
	OnError(handler func(error))
}

// NamespaceClearer adapters can drop every key below "namespace:" without
// touching other namespaces sharing the same storage.
type NamespaceClearer interface {
	ClearNamespace(ctx context.Context, namespace string) error
}

// ErrorEmitter fans errors out to registered handlers. Adapters embed it to
// become Observable.
type ErrorEmitter struct {
	mu       sync.RWMutex
	handlers []func(error)
}

func (e *ErrorEmitter) OnError(handler func(error)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
}

func (e *ErrorEmitter) Emit(err error) {
	e.mu.RLock()
	handlers := make([]func(error), len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	for _, handler := range handlers {
		handler(err)
	}
}
