package models

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestULIDGenerator(t *testing.T) {
	generator := ULIDGenerator{}

	first, err := generator.ID()
	require.NoError(t, err)
	second, err := generator.ID()
	require.NoError(t, err)

	assert.Len(t, first, 26)
	assert.NotEqual(t, first, second)
}

func TestRandomGenerator(t *testing.T) {
	generator := NewRandomGenerator(24)

	id, err := generator.ID()
	require.NoError(t, err)

	decoded, err := base64.RawURLEncoding.DecodeString(id)
	require.NoError(t, err)
	assert.Len(t, decoded, 24)
}
