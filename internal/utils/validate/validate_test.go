package validate

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/the127/keyv/internal/utils/apiError"
)

type ValidateTestSuite struct {
	suite.Suite
}

func TestValidateTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ValidateTestSuite))
}

type request struct {
	Keys        []string `validate:"required,min=1,dive,required"`
	Concurrency *int     `validate:"omitnil,gte=0"`
}

func (s *ValidateTestSuite) TestValid() {
	// act
	err := Validate(request{Keys: []string{"a"}})

	// assert
	s.NoError(err)
}

func (s *ValidateTestSuite) TestInvalidNamesFields() {
	// arrange
	concurrency := -1

	// act
	err := Validate(request{Keys: []string{""}, Concurrency: &concurrency})

	// assert
	s.ErrorIs(err, apiError.ErrApiBadRequest)
	s.Contains(err.Error(), "request.Keys[0] failed required")
	s.Contains(err.Error(), "request.Concurrency failed gte")
}
