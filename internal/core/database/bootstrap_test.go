package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitScriptDefaultDimension(t *testing.T) {
	for _, dim := range []int{0, defaultEmbedDim} {
		script, err := initScript(dim)
		require.NoError(t, err)
		assert.Contains(t, script, "vector(768)")
	}
}

func TestInitScriptCustomDimension(t *testing.T) {
	script, err := initScript(1536)
	require.NoError(t, err)
	assert.Contains(t, script, "vector(1536)")
	assert.NotContains(t, script, "vector(768)")
}
