package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type SetValues struct {
	Namespace string
	Keys      []string
	Values    []json.RawMessage

	Ttl         *time.Duration
	Concurrency *int
}

type SetValuesResponse struct {
	Stored bool
}

func HandleSetValues(ctx context.Context, command SetValues) (*SetValuesResponse, error) {
	store, err := getStore(ctx, command.Namespace)
	if err != nil {
		return nil, fmt.Errorf("getting store: %w", err)
	}

	stored, err := store.MSet(ctx, command.Keys, command.Values, callOptions(command.Ttl, command.Concurrency)...)
	if err != nil {
		return nil, fmt.Errorf("setting values: %w", err)
	}

	return &SetValuesResponse{
		Stored: stored,
	}, nil
}
