package commands

import (
	"context"
	"fmt"
)

// ClearValues removes every value of a namespace. Adapters without scoped
// clearing drop the whole store.
type ClearValues struct {
	Namespace string
}

type ClearValuesResponse struct{}

func HandleClearValues(ctx context.Context, command ClearValues) (*ClearValuesResponse, error) {
	store, err := getStore(ctx, command.Namespace)
	if err != nil {
		return nil, fmt.Errorf("getting store: %w", err)
	}

	err = store.Clear(ctx)
	if err != nil {
		return nil, fmt.Errorf("clearing values: %w", err)
	}

	return &ClearValuesResponse{}, nil
}
