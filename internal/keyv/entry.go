package keyv

import (
	"encoding/json"
	"time"
)

// Entry is what gets stored: the value and its absolute expiry in unix
// milliseconds. A nil Expires never expires.
type Entry[V any] struct {
	Value   V      `json:"value"`
	Expires *int64 `json:"expires"`
}

func (e *Entry[V]) expiredAt(now time.Time) bool {
	return e.Expires != nil && now.UnixMilli() > *e.Expires
}

// ExpiresAt returns the expiry as time, ok is false for entries without one.
func (e *Entry[V]) ExpiresAt() (time.Time, bool) {
	if e.Expires == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*e.Expires), true
}

type Serializer[V any] interface {
	Serialize(entry Entry[V]) (string, error)
	Deserialize(data string) (Entry[V], error)
}

// JSONSerializer is the default serializer. Values come back as V, so a
// []byte V or a []byte struct field survives the round trip. With V = any
// there is no type to decode into: a byte slice comes back as its base64
// string, numbers as float64 and objects as map[string]any. Use a typed V or
// a custom Serializer to keep binary values.
type JSONSerializer[V any] struct{}

func (JSONSerializer[V]) Serialize(entry Entry[V]) (string, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (JSONSerializer[V]) Deserialize(data string) (Entry[V], error) {
	var entry Entry[V]
	err := json.Unmarshal([]byte(data), &entry)
	return entry, err
}
