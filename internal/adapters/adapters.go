package adapters

import (
	"github.com/the127/keyv/internal/adapters/bolt"
	"github.com/the127/keyv/internal/adapters/memdb"
	"github.com/the127/keyv/internal/adapters/memory"
	"github.com/the127/keyv/internal/adapters/postgres"
	"github.com/the127/keyv/internal/adapters/redis"
	"github.com/the127/keyv/internal/keyv"
)

const (
	Memory   = keyv.MemoryAdapter
	MemDb    = "memdb"
	Redis    = "redis"
	Postgres = "postgres"
	Bolt     = "bolt"
)

// Register adds every bundled adapter to the registry.
func Register(r *keyv.Registry) {
	r.Register(Memory, memory.Factory)
	r.Register(MemDb, memdb.Factory)
	r.Register(Redis, redis.Factory)
	r.Register(Postgres, postgres.Factory)
	r.Register(Bolt, bolt.Factory)
}

func NewRegistry() *keyv.Registry {
	r := keyv.NewRegistry()
	Register(r)
	return r
}
