package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smilemakc/gegraph/internal/utils"
)

func TestDefaultValue_ReturnsFallbackOnZeroValue(t *testing.T) {
	assert.Equal(t, "fallback", utils.DefaultValue("", "fallback"))
	assert.Equal(t, 4, utils.DefaultValue(0, 4))
}

func TestDefaultValue_ReturnsValueWhenNonZero(t *testing.T) {
	assert.Equal(t, "set", utils.DefaultValue("set", "fallback"))
	assert.Equal(t, 9, utils.DefaultValue(9, 4))
}
