package queries

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/the127/keyv/internal/keyv"
)

type GetValues struct {
	Namespace   string
	Keys        []string
	Concurrency *int
}

type GetValuesResponse struct {
	Items []GetValuesResponseItem
}

type GetValuesResponseItem struct {
	Key   string
	Found bool
	Value json.RawMessage
}

func HandleGetValues(ctx context.Context, query GetValues) (*GetValuesResponse, error) {
	store, err := getStore(ctx, query.Namespace)
	if err != nil {
		return nil, fmt.Errorf("getting store: %w", err)
	}

	var opts []keyv.CallOption
	if query.Concurrency != nil {
		opts = append(opts, keyv.WithBatchConcurrency(*query.Concurrency))
	}

	results, err := store.MGet(ctx, query.Keys, opts...)
	if err != nil {
		return nil, fmt.Errorf("getting values: %w", err)
	}

	items := make([]GetValuesResponseItem, len(results))
	for i, result := range results {
		items[i] = GetValuesResponseItem{
			Key:   query.Keys[i],
			Found: result.Found,
			Value: result.Value,
		}
	}

	return &GetValuesResponse{
		Items: items,
	}, nil
}
