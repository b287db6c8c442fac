package memdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/the127/keyv/internal/keyv"
	"github.com/the127/keyv/internal/services/clock"
)

type AdapterTestSuite struct {
	suite.Suite
	ctx     context.Context
	adapter *Adapter
}

func TestAdapterTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(AdapterTestSuite))
}

func (s *AdapterTestSuite) SetupTest() {
	s.ctx = context.Background()

	adapter, err := New()
	s.Require().NoError(err)
	s.adapter = adapter
}

func (s *AdapterTestSuite) TestSetOverwrites() {
	// arrange
	s.Require().NoError(s.adapter.Set(s.ctx, "keyv:a", "first", 0))

	// act
	err := s.adapter.Set(s.ctx, "keyv:a", "second", 0)
	s.Require().NoError(err)
	value, ok, err := s.adapter.Get(s.ctx, "keyv:a")

	// assert
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("second", value)
}

func (s *AdapterTestSuite) TestDelete() {
	// arrange
	s.Require().NoError(s.adapter.Set(s.ctx, "keyv:a", "raw", 0))

	// act
	deleted, err := s.adapter.Delete(s.ctx, "keyv:a")
	s.Require().NoError(err)
	deletedAgain, err := s.adapter.Delete(s.ctx, "keyv:a")
	s.Require().NoError(err)

	// assert
	s.True(deleted)
	s.False(deletedAgain)
}

func (s *AdapterTestSuite) TestBatch() {
	// arrange
	err := s.adapter.SetMany(s.ctx, []string{"keyv:a", "keyv:b"}, []any{"1", "2"}, 0, keyv.BatchOptions{})
	s.Require().NoError(err)

	// act
	values, err := s.adapter.GetMany(s.ctx, []string{"keyv:b", "keyv:missing", "keyv:a"}, keyv.BatchOptions{})

	// assert
	s.Require().NoError(err)
	s.Equal([]any{"2", nil, "1"}, values)
}

func (s *AdapterTestSuite) TestClearNamespace() {
	// arrange
	s.Require().NoError(s.adapter.Set(s.ctx, "a:x", "1", 0))
	s.Require().NoError(s.adapter.Set(s.ctx, "ab:x", "2", 0))

	// act
	err := s.adapter.ClearNamespace(s.ctx, "a")

	// assert
	s.Require().NoError(err)
	_, okA, _ := s.adapter.Get(s.ctx, "a:x")
	_, okAB, _ := s.adapter.Get(s.ctx, "ab:x")
	s.False(okA)
	s.True(okAB)
}

func (s *AdapterTestSuite) TestClear() {
	// arrange
	s.Require().NoError(s.adapter.Set(s.ctx, "a:x", "1", 0))

	// act
	err := s.adapter.Clear(s.ctx)

	// assert
	s.Require().NoError(err)
	_, ok, _ := s.adapter.Get(s.ctx, "a:x")
	s.False(ok)
}

func (s *AdapterTestSuite) TestLazyExpirationBehindKeyv() {
	// arrange
	now := time.UnixMilli(1_700_000_000_000)
	mockClock, setTime := clock.NewMockService(now)
	k, err := keyv.New[string](keyv.WithStore(s.adapter), keyv.WithClock(mockClock))
	s.Require().NoError(err)
	_, err = k.Set(s.ctx, "session", "token", keyv.WithExpiration(5*time.Millisecond))
	s.Require().NoError(err)

	// act
	setTime(now.Add(10 * time.Millisecond))
	_, found, err := k.Get(s.ctx, "session")

	// assert
	s.Require().NoError(err)
	s.False(found)
	_, stored, _ := s.adapter.Get(s.ctx, "keyv:session")
	s.False(stored)
}
