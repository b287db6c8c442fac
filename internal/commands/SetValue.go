package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type SetValue struct {
	Namespace string
	Key       string
	Value     json.RawMessage

	// Ttl overrides the store default, zero keeps the value forever.
	Ttl *time.Duration
}

type SetValueResponse struct {
	Stored bool
}

func HandleSetValue(ctx context.Context, command SetValue) (*SetValueResponse, error) {
	store, err := getStore(ctx, command.Namespace)
	if err != nil {
		return nil, fmt.Errorf("getting store: %w", err)
	}

	stored, err := store.Set(ctx, command.Key, command.Value, callOptions(command.Ttl, nil)...)
	if err != nil {
		return nil, fmt.Errorf("setting value: %w", err)
	}

	return &SetValueResponse{
		Stored: stored,
	}, nil
}
