package util

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	id := NewID("mint")

	rest, ok := strings.CutPrefix(id, "mint_")
	require.True(t, ok, id)
	_, err := uuid.Parse(rest)
	assert.NoError(t, err)
	assert.NotEqual(t, id, NewID("mint"))
}
