package keyv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

type RegistryTestSuite struct {
	suite.Suite
}

func TestRegistryTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(RegistryTestSuite))
}

func (s *RegistryTestSuite) TestAdapterName() {
	cases := map[string]string{
		"":                              MemoryAdapter,
		"localhost:6379":                MemoryAdapter,
		"redis://localhost:6379":        "redis",
		"rediss://cache:6380/1":         "redis",
		"postgres://user@db/keyv":       "postgres",
		"postgresql://user@db/keyv":     "postgres",
		"bolt:///var/lib/keyv/store.db": "bolt",
		"file:///var/lib/keyv/store.db": "bolt",
		"MEMDB://":                      "memdb",
	}

	for uri, expected := range cases {
		s.Equal(expected, AdapterName(uri), uri)
	}
}

func (s *RegistryTestSuite) TestExplicitNameWins() {
	// arrange
	registry := NewRegistry()
	store := newFakeStore()
	registry.Register("Memdb", func(string) (Adapter, error) {
		return store, nil
	})

	// act
	adapter, err := registry.Resolve("memdb", "redis://localhost")

	// assert
	s.Require().NoError(err)
	s.Equal(store, adapter)
	s.Equal([]string{"memdb"}, registry.Names())
}

func (s *RegistryTestSuite) TestFactoryError() {
	// arrange
	registry := NewRegistry()
	boom := errors.New("boom")
	registry.Register("redis", func(string) (Adapter, error) {
		return nil, boom
	})

	// act
	_, err := registry.Resolve("", "redis://localhost")

	// assert
	s.ErrorIs(err, boom)
}

func (s *RegistryTestSuite) TestUnknown() {
	// act
	_, err := NewRegistry().Resolve("", "mongodb://localhost")

	// assert
	s.ErrorIs(err, ErrUnknownAdapter)
}

func (s *RegistryTestSuite) TestPhysicalKey() {
	s.Equal("keyv:foo", PhysicalKey(DefaultNamespace, "foo"))
	s.Equal("users:42", PhysicalKey("users", "42"))
	s.Equal("a:", NamespacePrefix("a"))
}

func (s *RegistryTestSuite) TestDefaultRegistryHasMemory() {
	// act
	adapter, err := DefaultRegistry.Resolve("", "")

	// assert
	s.Require().NoError(err)
	s.Contains(DefaultRegistry.Names(), MemoryAdapter)
	s.IsType(&MapStore{}, adapter)
}
