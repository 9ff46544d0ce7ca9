package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for i := 0; i < count; i++ {
		v, err := Generate(ReelPrefix)
		require.NoError(t, err)
		assert.False(t, ids[v], "ID should be unique: %s", v)
		ids[v] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	v, err := Generate("reel")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(v, "reel-"))
	// prefix + dash + 21 char nanoid
	assert.Len(t, v, len("reel-")+21)
}
