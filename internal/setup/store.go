package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/The127/ioc"
	"github.com/avast/retry-go"
	"github.com/the127/keyv/internal/adapters"
	"github.com/the127/keyv/internal/config"
	"github.com/the127/keyv/internal/keyv"
	"github.com/the127/keyv/internal/logging"
	"github.com/the127/keyv/internal/services/clock"
	"github.com/the127/keyv/internal/services/namespaces"
)

type migrator interface {
	Migrate() error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Store connects the configured adapter, waits until it is usable and
// registers the namespace provider built on top of it.
func Store(dc *ioc.DependencyCollection, c config.StoreConfig, clockService clock.Service) namespaces.Provider {
	adapter, err := adapters.NewRegistry().Resolve(c.Adapter, c.Uri)
	if err != nil {
		logging.Logger.Panicf("failed to create store adapter: %s", err)
	}

	logging.Logger.Infof("Using %s adapter", adapterName(c))

	err = waitUntilReady(adapter)
	if err != nil {
		logging.Logger.Panicf("store is not ready: %s", err)
	}

	opts := []keyv.Option{
		keyv.WithTTL(c.Ttl),
		keyv.WithConcurrency(c.Concurrency),
		keyv.WithClock(clockService),
	}
	if c.Namespace != "" {
		opts = append(opts, keyv.WithNamespace(c.Namespace))
	}

	provider := namespaces.NewProvider(adapter, opts...)

	ioc.RegisterSingleton(dc, func(_ *ioc.DependencyProvider) keyv.Adapter {
		return adapter
	})
	ioc.RegisterSingleton(dc, func(_ *ioc.DependencyProvider) namespaces.Provider {
		return provider
	})

	return provider
}

func adapterName(c config.StoreConfig) string {
	if c.Adapter != "" {
		return c.Adapter
	}
	return keyv.AdapterName(c.Uri)
}

func waitUntilReady(adapter keyv.Adapter, opts ...retry.Option) error {
	opts = append([]retry.Option{
		retry.Attempts(5),
		retry.Delay(time.Second * 5),
		retry.DelayType(retry.FixedDelay),
		retry.OnRetry(func(n uint, err error) {
			logging.Logger.Warnf("store not ready: %s, retrying", err)
		}),
	}, opts...)

	if p, ok := adapter.(pinger); ok {
		err := retry.Do(
			func() error {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return p.Ping(ctx)
			},
			opts...,
		)
		if err != nil {
			return fmt.Errorf("pinging store: %w", err)
		}
	}

	if m, ok := adapter.(migrator); ok {
		err := retry.Do(m.Migrate, opts...)
		if err != nil {
			return fmt.Errorf("migrating store: %w", err)
		}
	}

	return nil
}
