package commands

import (
	"context"
	"fmt"
)

type DeleteValue struct {
	Namespace string
	Key       string
}

type DeleteValueResponse struct {
	Deleted bool
}

func HandleDeleteValue(ctx context.Context, command DeleteValue) (*DeleteValueResponse, error) {
	store, err := getStore(ctx, command.Namespace)
	if err != nil {
		return nil, fmt.Errorf("getting store: %w", err)
	}

	deleted, err := store.Delete(ctx, command.Key)
	if err != nil {
		return nil, fmt.Errorf("deleting value: %w", err)
	}

	return &DeleteValueResponse{
		Deleted: deleted,
	}, nil
}
