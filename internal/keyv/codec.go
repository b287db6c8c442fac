package keyv

import (
	"fmt"
	"time"

	"github.com/the127/keyv/internal/services/clock"
)

type codec[V any] struct {
	serializer Serializer[V]
	defaultTTL time.Duration
	clock      clock.Service
}

// ttl picks the override when given, the default otherwise. An override of
// zero disables expiry even when a default is configured.
func (c codec[V]) ttl(override *time.Duration) (time.Duration, error) {
	if override == nil {
		return c.defaultTTL, nil
	}
	if *override < 0 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidTTL, *override)
	}
	return *override, nil
}

func (c codec[V]) encode(value V, ttl time.Duration) (string, error) {
	entry := Entry[V]{Value: value}
	if ttl > 0 {
		expires := clock.Millis(c.clock) + ttl.Milliseconds()
		entry.Expires = &expires
	}

	data, err := c.serializer.Serialize(entry)
	if err != nil {
		return "", fmt.Errorf("serializing entry: %w", err)
	}
	return data, nil
}

// decode only runs the serializer on textual raws, entries an adapter kept
// in structured form are used as they are.
func (c codec[V]) decode(raw any) (*Entry[V], error) {
	var text string

	switch typed := raw.(type) {
	case string:
		text = typed
	case []byte:
		text = string(typed)
	case Entry[V]:
		return &typed, nil
	case *Entry[V]:
		return typed, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedRaw, raw)
	}

	entry, err := c.serializer.Deserialize(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return &entry, nil
}
