package keyv

import (
	"time"

	"github.com/the127/keyv/internal/services/clock"
)

type Options struct {
	Namespace   string
	TTL         time.Duration
	Concurrency int

	// Serializer must implement Serializer[V] for the V of the Keyv being built.
	Serializer any

	Store    Adapter
	Adapter  string
	URI      string
	Registry *Registry
	Clock    clock.Service
}

type Option func(*Options)

func WithNamespace(namespace string) Option {
	return func(o *Options) {
		o.Namespace = namespace
	}
}

// WithTTL sets the default time to live of written entries.
func WithTTL(ttl time.Duration) Option {
	return func(o *Options) {
		o.TTL = ttl
	}
}

// WithConcurrency sets the default fan-out bound of batch calls.
func WithConcurrency(concurrency int) Option {
	return func(o *Options) {
		o.Concurrency = concurrency
	}
}

func WithSerializer[V any](serializer Serializer[V]) Option {
	return func(o *Options) {
		o.Serializer = serializer
	}
}

func WithStore(store Adapter) Option {
	return func(o *Options) {
		o.Store = store
	}
}

// WithAdapter selects a registered adapter by name, overriding the URI scheme.
func WithAdapter(name string) Option {
	return func(o *Options) {
		o.Adapter = name
	}
}

func WithURI(uri string) Option {
	return func(o *Options) {
		o.URI = uri
	}
}

func WithRegistry(registry *Registry) Option {
	return func(o *Options) {
		o.Registry = registry
	}
}

func WithClock(c clock.Service) Option {
	return func(o *Options) {
		o.Clock = c
	}
}

func newOptions(opts []Option) Options {
	options := Options{}
	for _, opt := range opts {
		opt(&options)
	}

	if options.Namespace == "" {
		options.Namespace = DefaultNamespace
	}

	if options.Registry == nil {
		options.Registry = DefaultRegistry
	}

	if options.Clock == nil {
		options.Clock = clock.NewClockService()
	}

	return options
}

type CallOptions struct {
	Expiration  *time.Duration
	Concurrency *int
}

type CallOption func(*CallOptions)

// WithExpiration overrides the default TTL for one write. Zero stores the
// entry without expiry.
func WithExpiration(expiration time.Duration) CallOption {
	return func(o *CallOptions) {
		o.Expiration = &expiration
	}
}

// WithBatchConcurrency overrides the configured fan-out bound for one batch call.
func WithBatchConcurrency(concurrency int) CallOption {
	return func(o *CallOptions) {
		o.Concurrency = &concurrency
	}
}

func newCallOptions(opts []CallOption) CallOptions {
	options := CallOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
