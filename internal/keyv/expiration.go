package keyv

import (
	"context"

	"github.com/the127/keyv/internal/logging"
)

// expire applies lazy expiration to a value read for key. Expired entries are
// deleted before the miss is reported.
func (k *Keyv[V]) expire(ctx context.Context, key string, raw any, ok bool) (*Entry[V], error) {
	if !ok {
		return nil, nil
	}

	entry, err := k.codec.decode(raw)
	if err != nil {
		return nil, err
	}

	if entry.expiredAt(k.clock.Now()) {
		logging.Logger.Debugf("entry %s expired, deleting", PhysicalKey(k.namespace, key))

		_, err := k.Delete(ctx, key)
		if err != nil {
			return nil, err
		}
		return nil, nil
	}

	return entry, nil
}
