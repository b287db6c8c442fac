package namespaces

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/the127/keyv/internal/keyv"
	"github.com/the127/keyv/internal/logging"
)

var ErrInvalidNamespace = errors.New("invalid namespace")

// Store is the facade served over http, values are kept as raw json documents.
type Store = keyv.Keyv[json.RawMessage]

type Provider interface {
	// For returns the store of a namespace, creating it on first use.
	For(namespace string) (*Store, error)
	Namespaces() []string
	io.Closer
}

type provider struct {
	adapter keyv.Adapter
	opts    []keyv.Option

	mu     sync.Mutex
	stores map[string]*Store
}

// NewProvider builds stores on top of one shared adapter. The options apply to
// every namespace, a namespace option among them is overridden.
func NewProvider(adapter keyv.Adapter, opts ...keyv.Option) Provider {
	if observable, ok := adapter.(keyv.Observable); ok {
		observable.OnError(func(err error) {
			logging.Logger.Errorf("store error: %s", err)
		})
	}

	return &provider{
		adapter: adapter,
		opts:    opts,
		stores:  make(map[string]*Store),
	}
}

func (p *provider) For(namespace string) (*Store, error) {
	if namespace == "" || strings.Contains(namespace, ":") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNamespace, namespace)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if store, ok := p.stores[namespace]; ok {
		return store, nil
	}

	opts := append([]keyv.Option{}, p.opts...)
	opts = append(opts, keyv.WithStore(p.adapter), keyv.WithNamespace(namespace))

	store, err := keyv.New[json.RawMessage](opts...)
	if err != nil {
		return nil, fmt.Errorf("creating store for namespace %s: %w", namespace, err)
	}

	logging.Logger.Debugf("Created store for namespace %s", namespace)
	p.stores[namespace] = store
	return store, nil
}

func (p *provider) Namespaces() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	namespaces := make([]string, 0, len(p.stores))
	for namespace := range p.stores {
		namespaces = append(namespaces, namespace)
	}
	return namespaces
}

// Close releases the shared adapter. All stores share it, so it is closed once.
func (p *provider) Close() error {
	if closer, ok := p.adapter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
