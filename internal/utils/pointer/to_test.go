package pointer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ToTestSuite struct {
	suite.Suite
}

func TestToTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ToTestSuite))
}

func (s *ToTestSuite) TestDuration() {
	// act
	actual := To(1500 * time.Millisecond)

	// assert
	s.Require().NotNil(actual)
	s.Equal(1500*time.Millisecond, *actual)
}

func (s *ToTestSuite) TestZero() {
	// act
	actual := To(time.Duration(0))

	// assert
	s.Require().NotNil(actual)
	s.Zero(*actual)
}

func (s *ToTestSuite) TestPointsToCopy() {
	// arrange
	v := 1

	// act
	actual := To(v)
	v = 2

	// assert
	s.Equal(1, *actual)
}
