package persist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreFirstLoginRegisters(t *testing.T) {
	s := NewMemStore(false)
	ctx := context.Background()

	ok, created, err := s.Authenticate(ctx, "alice", "hunter2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, created)

	ok, created, err = s.Authenticate(ctx, "alice", "hunter2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, created)

	ok, _, err = s.Authenticate(ctx, "alice", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemStoreRequireKnown(t *testing.T) {
	s := NewMemStore(true)
	ok, created, err := s.Authenticate(context.Background(), "stranger", "pw")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, created)
}
