package bolt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/the127/keyv/internal/keyv"
	"github.com/the127/keyv/internal/logging"

	bolt "go.etcd.io/bbolt"
)

const defaultBucket = "keyv"

var ErrNotBytes = errors.New("bolt adapter stores text or byte values only")

// Adapter keeps raw values in a single bbolt bucket. Bolt allows one writer at
// a time, batch writes share one update transaction.
type Adapter struct {
	db     *bolt.DB
	bucket []byte
}

// Open opens or creates the database file at path.
func Open(path string, bucket string) (*Adapter, error) {
	if bucket == "" {
		bucket = defaultBucket
	}

	logging.Logger.Infof("Opening bolt database %s", path)

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating bucket %s: %w", bucket, err)
	}

	return &Adapter{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

// Factory accepts bolt:///path/to/file.db and file:///path/to/file.db.
func Factory(uri string) (keyv.Adapter, error) {
	_, path, found := strings.Cut(uri, "://")
	if !found || path == "" {
		return nil, fmt.Errorf("bolt uri %q has no path", uri)
	}
	return Open(path, "")
}

func (a *Adapter) Get(_ context.Context, key string) (any, bool, error) {
	var value []byte
	err := a.db.View(func(tx *bolt.Tx) error {
		value = copyOf(tx.Bucket(a.bucket).Get([]byte(key)))
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if value == nil {
		return nil, false, nil
	}
	return value, true, nil
}

func (a *Adapter) GetMany(_ context.Context, keys []string, _ keyv.BatchOptions) ([]any, error) {
	values := make([]any, len(keys))
	err := a.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(a.bucket)
		for i, key := range keys {
			if value := copyOf(b.Get([]byte(key))); value != nil {
				values[i] = value
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

func (a *Adapter) Set(_ context.Context, key string, value any, _ time.Duration) error {
	data, err := asBytes(value)
	if err != nil {
		return err
	}

	return a.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(a.bucket).Put([]byte(key), data)
	})
}

func (a *Adapter) SetMany(_ context.Context, keys []string, values []any, _ time.Duration, _ keyv.BatchOptions) error {
	return a.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(a.bucket)
		for i, key := range keys {
			data, err := asBytes(values[i])
			if err != nil {
				return err
			}

			err = b.Put([]byte(key), data)
			if err != nil {
				return fmt.Errorf("putting %s: %w", key, err)
			}
		}
		return nil
	})
}

func (a *Adapter) Delete(_ context.Context, key string) (bool, error) {
	existed := false
	err := a.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(a.bucket)
		existed = b.Get([]byte(key)) != nil
		return b.Delete([]byte(key))
	})
	return existed, err
}

func (a *Adapter) Clear(_ context.Context) error {
	return a.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket(a.bucket)
		if err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err = tx.CreateBucket(a.bucket)
		return err
	})
}

func (a *Adapter) ClearNamespace(_ context.Context, namespace string) error {
	prefix := []byte(keyv.NamespacePrefix(namespace))

	return a.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket(a.bucket).Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Seek(prefix) {
			err := c.Delete()
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (a *Adapter) Close() error {
	return a.db.Close()
}

// copyOf detaches a value from the transaction it was read in.
func copyOf(value []byte) []byte {
	if value == nil {
		return nil
	}
	return append([]byte{}, value...)
}

func asBytes(value any) ([]byte, error) {
	switch typed := value.(type) {
	case string:
		return []byte(typed), nil
	case []byte:
		return typed, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrNotBytes, value)
	}
}
