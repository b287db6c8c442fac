package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/the127/keyv/internal/keyv"
	"github.com/the127/keyv/internal/logging"
)

const scanBatchSize = 100

// Adapter stores raw values as redis strings. Expiry is also handed to redis
// so entries nobody reads again do not stay around forever. Failed dials are
// reported to OnError handlers as well as to the call that triggered them.
type Adapter struct {
	keyv.ErrorEmitter
	client *redis.Client
}

func New(options *redis.Options) *Adapter {
	a := &Adapter{
		client: redis.NewClient(options),
	}
	a.client.AddHook(errorHook{adapter: a})
	return a
}

// NewFromURI accepts redis:// and rediss:// urls.
func NewFromURI(uri string) (*Adapter, error) {
	options, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	return New(options), nil
}

func Factory(uri string) (keyv.Adapter, error) {
	return NewFromURI(uri)
}

func (a *Adapter) Ping(ctx context.Context) error {
	return a.client.Ping(ctx).Err()
}

func (a *Adapter) Get(ctx context.Context, key string) (any, bool, error) {
	result, err := a.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return result, true, nil
}

func (a *Adapter) GetMany(ctx context.Context, keys []string, _ keyv.BatchOptions) ([]any, error) {
	if len(keys) == 0 {
		return []any{}, nil
	}

	values, err := a.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	return values, nil
}

func (a *Adapter) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return a.client.Set(ctx, key, value, ttl).Err()
}

func (a *Adapter) SetMany(ctx context.Context, keys []string, values []any, ttl time.Duration, _ keyv.BatchOptions) error {
	_, err := a.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, key := range keys {
			pipe.Set(ctx, key, values[i], ttl)
		}
		return nil
	})
	return err
}

func (a *Adapter) Delete(ctx context.Context, key string) (bool, error) {
	removed, err := a.client.Del(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return removed > 0, nil
}

// Clear flushes the selected redis database.
func (a *Adapter) Clear(ctx context.Context) error {
	return a.client.FlushDB(ctx).Err()
}

func (a *Adapter) ClearNamespace(ctx context.Context, namespace string) error {
	iterator := a.client.Scan(ctx, 0, keyv.NamespacePrefix(namespace)+"*", scanBatchSize).Iterator()

	batch := make([]string, 0, scanBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := a.client.Del(ctx, batch...).Err()
		batch = batch[:0]
		return err
	}

	for iterator.Next(ctx) {
		batch = append(batch, iterator.Val())
		if len(batch) == scanBatchSize {
			err := flush()
			if err != nil {
				return err
			}
		}
	}
	if err := iterator.Err(); err != nil {
		return err
	}

	return flush()
}

func (a *Adapter) Close() error {
	return a.client.Close()
}

type errorHook struct {
	adapter *Adapter
}

func (h errorHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			logging.Logger.Warnf("failed to connect to redis at %s: %s", addr, err)
			h.adapter.Emit(fmt.Errorf("connecting to redis at %s: %w", addr, err))
		}
		return conn, err
	}
}

func (h errorHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return next
}

func (h errorHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}
