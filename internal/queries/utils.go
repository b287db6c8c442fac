package queries

import (
	"context"

	"github.com/The127/ioc"
	"github.com/the127/keyv/internal/middlewares"
	"github.com/the127/keyv/internal/services/namespaces"
)

func getStore(ctx context.Context, namespace string) (*namespaces.Store, error) {
	scope := middlewares.GetScope(ctx)
	provider := ioc.GetDependency[namespaces.Provider](scope)
	return provider.For(namespace)
}
