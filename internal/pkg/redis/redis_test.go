package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectDisabled(t *testing.T) {
	c, err := Connect(context.Background(), "  ")
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Nil(t, c.Raw())
	assert.NoError(t, c.Close())
}

func TestConnectInvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), "http://not-redis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid redis url")
}
