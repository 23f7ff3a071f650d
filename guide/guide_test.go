package guide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	main, err := Get("")
	require.NoError(t, err)
	assert.Contains(t, main, "# beamtime")

	queue, err := Get("Queue")
	require.NoError(t, err)
	assert.Contains(t, queue, "create_update_queue")

	_, err = Get("nope")
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	names, err := List()
	require.NoError(t, err)
	assert.NotContains(t, names, "guide")
	assert.Subset(t, names, []string{"config", "paths", "queue", "seed", "serve"})
	assert.IsNonDecreasing(t, names)
}
