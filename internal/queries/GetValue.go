package queries

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type GetValue struct {
	Namespace string
	Key       string
}

type GetValueResponse struct {
	Found     bool
	Value     json.RawMessage
	ExpiresAt *time.Time
}

func HandleGetValue(ctx context.Context, query GetValue) (*GetValueResponse, error) {
	store, err := getStore(ctx, query.Namespace)
	if err != nil {
		return nil, fmt.Errorf("getting store: %w", err)
	}

	entry, err := store.GetRaw(ctx, query.Key)
	if err != nil {
		return nil, fmt.Errorf("getting value: %w", err)
	}
	if entry == nil {
		return &GetValueResponse{}, nil
	}

	response := &GetValueResponse{
		Found: true,
		Value: entry.Value,
	}
	if expiresAt, ok := entry.ExpiresAt(); ok {
		response.ExpiresAt = &expiresAt
	}
	return response, nil
}
