package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smilemakc/gegraph/internal/domain"
)

func TestDomainError_ErrorIncludesWrappedCause(t *testing.T) {
	cause := errors.New("boom")
	err := domain.NewDomainError(domain.ErrCodeRuntime, "process failed", cause)
	assert.Contains(t, err.Error(), "RUNTIME")
	assert.Contains(t, err.Error(), "process failed")
	assert.Contains(t, err.Error(), "boom")
	assert.Same(t, cause, errors.Unwrap(err))
}

func TestDomainError_ErrorWithoutCause(t *testing.T) {
	err := domain.NewDomainError(domain.ErrCodeStructural, "missing pad", nil)
	assert.Equal(t, "STRUCTURAL: missing pad", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestIsCode_MatchesOnlyMatchingCode(t *testing.T) {
	err := domain.NewDomainError(domain.ErrCodePreparation, "bad format", nil)
	assert.True(t, domain.IsCode(err, domain.ErrCodePreparation))
	assert.False(t, domain.IsCode(err, domain.ErrCodeRuntime))
}

func TestIsCode_FalseForNonDomainError(t *testing.T) {
	assert.False(t, domain.IsCode(errors.New("plain"), domain.ErrCodeStructural))
}
