package repo

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/content_api/internal/apperr"
)

func TestGetUserByEmail(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := createTestUser(t, r, "alice", "alice@example.com")

	got, err := r.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = r.GetUserByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := createTestUser(t, r, "alice", "alice@example.com")

	require.NoError(t, r.DeleteUser(ctx, user.ID))

	_, err := r.GetUserByID(ctx, user.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.ErrorIs(t, r.DeleteUser(ctx, uuid.New()), apperr.ErrNotFound)
}
