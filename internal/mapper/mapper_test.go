package mapper

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type MapTestSuite struct {
	suite.Suite
}

func TestMapTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(MapTestSuite))
}

// slowDouble finishes later for earlier items so completion order is reversed.
func slowDouble(ctx context.Context, item int, _ int) (int, error) {
	time.Sleep(time.Duration(10-item) * time.Millisecond)
	return item * 2, nil
}

func (s *MapTestSuite) TestUnboundedKeepsOrder() {
	// arrange
	items := []int{1, 2, 3, 4, 5}

	// act
	actual, err := Map(context.Background(), items, slowDouble)

	// assert
	s.Require().NoError(err)
	s.Equal([]int{2, 4, 6, 8, 10}, actual)
}

func (s *MapTestSuite) TestBoundedKeepsOrder() {
	for _, concurrency := range []int{1, 2, 5, 10} {
		// arrange
		items := []int{1, 2, 3, 4, 5}

		// act
		actual, err := Map(context.Background(), items, slowDouble, WithConcurrency(concurrency))

		// assert
		s.Require().NoError(err)
		s.Equal([]int{2, 4, 6, 8, 10}, actual, "concurrency %d", concurrency)
	}
}

func (s *MapTestSuite) TestBoundedMatchesUnbounded() {
	// arrange
	items := []int{5, 3, 1, 4, 2}

	// act
	bounded, err := Map(context.Background(), items, slowDouble, WithConcurrency(2))
	s.Require().NoError(err)
	unbounded, err := Map(context.Background(), items, slowDouble)
	s.Require().NoError(err)

	// assert
	s.Len(bounded, 5)
	s.Equal(unbounded, bounded)
}

func (s *MapTestSuite) TestBoundedLimitsInFlight() {
	// arrange
	var inFlight, peak atomic.Int32
	fn := func(_ context.Context, item int, _ int) (int, error) {
		current := inFlight.Add(1)
		for {
			old := peak.Load()
			if current <= old || peak.CompareAndSwap(old, current) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return item, nil
	}

	// act
	_, err := Map(context.Background(), make([]int, 12), fn, WithConcurrency(3))

	// assert
	s.Require().NoError(err)
	s.LessOrEqual(peak.Load(), int32(3))
}

func (s *MapTestSuite) TestEmptyInput() {
	// arrange
	called := false
	fn := func(_ context.Context, item int, _ int) (int, error) {
		called = true
		return item, nil
	}

	// act
	unbounded, err := Map(context.Background(), []int{}, fn)
	s.Require().NoError(err)
	bounded, err := Map(context.Background(), []int{}, fn, WithConcurrency(4))
	s.Require().NoError(err)

	// assert
	s.NotNil(unbounded)
	s.Empty(unbounded)
	s.NotNil(bounded)
	s.Empty(bounded)
	s.False(called)
}

func (s *MapTestSuite) TestFirstErrorIsReported() {
	// arrange
	boom := errors.New("boom")
	fn := func(_ context.Context, item int, _ int) (int, error) {
		if item == 3 {
			return 0, boom
		}
		return item, nil
	}

	// act
	unbounded, unboundedErr := Map(context.Background(), []int{1, 2, 3, 4}, fn)
	bounded, boundedErr := Map(context.Background(), []int{1, 2, 3, 4}, fn, WithConcurrency(2))

	// assert
	s.ErrorIs(unboundedErr, boom)
	s.Nil(unbounded)
	s.ErrorIs(boundedErr, boom)
	s.Nil(bounded)
}

func (s *MapTestSuite) TestBoundedStopsClaimingAfterFailure() {
	// arrange
	boom := errors.New("boom")
	var calls atomic.Int32
	fn := func(_ context.Context, item int, index int) (int, error) {
		calls.Add(1)
		if index == 0 {
			return 0, boom
		}
		return item, nil
	}

	// act
	_, err := Map(context.Background(), make([]int, 100), fn, WithConcurrency(1))

	// assert
	s.ErrorIs(err, boom)
	s.Equal(int32(1), calls.Load())
}

func (s *MapTestSuite) TestPendingItemsAreAwaited() {
	// arrange
	items := make([]Pending[int], 5)
	for i := range items {
		items[i] = func(context.Context) (int, error) {
			time.Sleep(time.Duration(5-i) * time.Millisecond)
			return i + 1, nil
		}
	}
	fn := func(_ context.Context, item int, index int) (int, error) {
		return item * 10, nil
	}

	// act
	actual, err := MapPending(context.Background(), items, fn, WithConcurrency(2))

	// assert
	s.Require().NoError(err)
	s.Equal([]int{10, 20, 30, 40, 50}, actual)
}

func (s *MapTestSuite) TestPendingFailureIsReported() {
	// arrange
	boom := errors.New("boom")
	items := []Pending[int]{
		func(context.Context) (int, error) { return 1, nil },
		func(context.Context) (int, error) { return 0, boom },
	}
	fn := func(_ context.Context, item int, _ int) (int, error) {
		return item, nil
	}

	// act
	_, err := MapPending(context.Background(), items, fn)

	// assert
	s.ErrorIs(err, boom)
}

func (s *MapTestSuite) TestCancelledContext() {
	// arrange
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fn := func(ctx context.Context, item int, _ int) (int, error) {
		return item, nil
	}

	// act
	_, err := Map(ctx, []int{1, 2, 3}, fn, WithConcurrency(2))

	// assert
	s.ErrorIs(err, context.Canceled)
}

func (s *MapTestSuite) TestUnboundedFailureCancelsRunningCalls() {
	// arrange
	boom := errors.New("boom")
	var cancelled atomic.Int64
	fn := func(ctx context.Context, item int, _ int) (int, error) {
		if item == 0 {
			return 0, boom
		}

		select {
		case <-ctx.Done():
			cancelled.Add(1)
			return 0, ctx.Err()
		case <-time.After(5 * time.Second):
			return item, nil
		}
	}

	// act
	started := time.Now()
	_, err := Map(context.Background(), []int{0, 1, 2}, fn)

	// assert
	s.ErrorIs(err, boom)
	s.Equal(int64(2), cancelled.Load())
	s.Less(time.Since(started), time.Second)
}
