package commands

import (
	"context"
	"time"

	"github.com/The127/ioc"
	"github.com/the127/keyv/internal/keyv"
	"github.com/the127/keyv/internal/middlewares"
	"github.com/the127/keyv/internal/services/namespaces"
)

func getStore(ctx context.Context, namespace string) (*namespaces.Store, error) {
	scope := middlewares.GetScope(ctx)
	provider := ioc.GetDependency[namespaces.Provider](scope)
	return provider.For(namespace)
}

func callOptions(ttl *time.Duration, concurrency *int) []keyv.CallOption {
	var opts []keyv.CallOption
	if ttl != nil {
		opts = append(opts, keyv.WithExpiration(*ttl))
	}
	if concurrency != nil {
		opts = append(opts, keyv.WithBatchConcurrency(*concurrency))
	}
	return opts
}
