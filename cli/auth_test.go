package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestServerToken_CreatesOnceAndRotates(t *testing.T) {
	keyring.MockInit()

	empty, err := storedToken()
	require.NoError(t, err)
	assert.Empty(t, empty)

	first, err := serverToken(false)
	require.NoError(t, err)
	assert.Len(t, first, tokenBytes*2)

	again, err := serverToken(false)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	rotated, err := serverToken(true)
	require.NoError(t, err)
	assert.NotEqual(t, first, rotated)

	stored, err := storedToken()
	require.NoError(t, err)
	assert.Equal(t, rotated, stored)
}

func TestListenAddress(t *testing.T) {
	assert.Equal(t, ":12000", listenAddress("12000"))
	assert.Equal(t, "localhost:12000", listenAddress("localhost:12000"))
}
