package memdb

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-memdb"
	"github.com/the127/keyv/internal/keyv"
)

const table = "entries"

type record struct {
	Key   string
	Value any
}

var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		table: {
			Name: table,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "Key"},
				},
			},
		},
	},
}

// Adapter stores raw values in a go-memdb table. Batch writes run in a single
// write transaction so they become visible together. Values carry no native
// expiry; keyv expires them when they are read.
type Adapter struct {
	db *memdb.MemDB
}

func New() (*Adapter, error) {
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory database: %w", err)
	}

	return &Adapter{
		db: db,
	}, nil
}

func Factory(string) (keyv.Adapter, error) {
	return New()
}

func (a *Adapter) Get(_ context.Context, key string) (any, bool, error) {
	txn := a.db.Txn(false)
	defer txn.Abort()

	return get(txn, key)
}

func (a *Adapter) GetMany(_ context.Context, keys []string, _ keyv.BatchOptions) ([]any, error) {
	txn := a.db.Txn(false)
	defer txn.Abort()

	values := make([]any, len(keys))
	for i, key := range keys {
		value, _, err := get(txn, key)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}

func (a *Adapter) Set(_ context.Context, key string, value any, _ time.Duration) error {
	txn := a.db.Txn(true)
	defer txn.Abort()

	err := txn.Insert(table, &record{Key: key, Value: value})
	if err != nil {
		return fmt.Errorf("failed to insert %s: %w", key, err)
	}

	txn.Commit()
	return nil
}

func (a *Adapter) SetMany(_ context.Context, keys []string, values []any, _ time.Duration, _ keyv.BatchOptions) error {
	txn := a.db.Txn(true)
	defer txn.Abort()

	for i, key := range keys {
		err := txn.Insert(table, &record{Key: key, Value: values[i]})
		if err != nil {
			return fmt.Errorf("failed to insert %s: %w", key, err)
		}
	}

	txn.Commit()
	return nil
}

func (a *Adapter) Delete(_ context.Context, key string) (bool, error) {
	txn := a.db.Txn(true)
	defer txn.Abort()

	obj, err := txn.First(table, "id", key)
	if err != nil {
		return false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	if obj == nil {
		return false, nil
	}

	err = txn.Delete(table, obj)
	if err != nil {
		return false, fmt.Errorf("failed to delete %s: %w", key, err)
	}

	txn.Commit()
	return true, nil
}

func (a *Adapter) Clear(_ context.Context) error {
	txn := a.db.Txn(true)
	defer txn.Abort()

	_, err := txn.DeleteAll(table, "id")
	if err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}

	txn.Commit()
	return nil
}

func (a *Adapter) ClearNamespace(_ context.Context, namespace string) error {
	txn := a.db.Txn(true)
	defer txn.Abort()

	_, err := txn.DeletePrefix(table, "id_prefix", keyv.NamespacePrefix(namespace))
	if err != nil {
		return fmt.Errorf("failed to clear namespace %s: %w", namespace, err)
	}

	txn.Commit()
	return nil
}

func get(txn *memdb.Txn, key string) (any, bool, error) {
	obj, err := txn.First(table, "id", key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	if obj == nil {
		return nil, false, nil
	}

	return obj.(*record).Value, true, nil
}
