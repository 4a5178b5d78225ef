package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/content_api/internal/apperr"
	"github.com/Skotchmaster/content_api/internal/models"
)

func TestCreatePost_DuplicateSlugConflict(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := createTestUser(t, r, "alice", "alice@example.com")

	first := &models.Post{Title: "First", Slug: "my-post", Content: "a", Status: models.StatusDraft, UserID: user.ID}
	require.NoError(t, r.CreatePost(ctx, first))

	second := &models.Post{Title: "Second", Slug: "my-post", Content: "b", Status: models.StatusDraft, UserID: user.ID}
	err := r.CreatePost(ctx, second)
	require.ErrorIs(t, err, apperr.ErrConflict)
	assert.Contains(t, err.Error(), "slug")

	// no partial record left behind
	var count int64
	require.NoError(t, r.DB.Model(&models.Post{}).Where("slug = ?", "my-post").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetPostBySlug_NotFound(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	_, err := r.GetPostBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGetPosts_FiltersByStatusNewestFirst(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := createTestUser(t, r, "bob", "bob@example.com")

	base := time.Now().Add(-time.Hour)
	posts := []models.Post{
		{Title: "old", Slug: "old", Content: "x", Status: models.StatusActive, UserID: user.ID, CreatedAt: base},
		{Title: "new", Slug: "new", Content: "x", Status: models.StatusActive, UserID: user.ID, CreatedAt: base.Add(10 * time.Minute)},
		{Title: "hidden", Slug: "hidden", Content: "x", Status: models.StatusDraft, UserID: user.ID, CreatedAt: base.Add(20 * time.Minute)},
	}
	for i := range posts {
		require.NoError(t, r.CreatePost(ctx, &posts[i]))
	}

	total, items, err := r.GetPosts(ctx, models.StatusActive, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "new", items[0].Slug)
	assert.Equal(t, "old", items[1].Slug)
}

func TestDeletePost_MissingIsNotFound(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := createTestUser(t, r, "carol", "carol@example.com")

	post := &models.Post{Title: "p", Slug: "p", Content: "x", Status: models.StatusDraft, UserID: user.ID}
	require.NoError(t, r.CreatePost(ctx, post))

	require.NoError(t, r.DeletePost(ctx, post.ID))
	assert.ErrorIs(t, r.DeletePost(ctx, post.ID), apperr.ErrNotFound)
}

func TestCreateUser_DuplicateNamesField(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	createTestUser(t, r, "dave", "dave@example.com")

	err := r.CreateUser(ctx, &models.User{Username: "dave", Email: "other@example.com", PasswordHash: "x"})
	require.ErrorIs(t, err, apperr.ErrConflict)
	assert.Contains(t, err.Error(), "username")

	err = r.CreateUser(ctx, &models.User{Username: "dave2", Email: "dave@example.com", PasswordHash: "x"})
	require.ErrorIs(t, err, apperr.ErrConflict)
	assert.Contains(t, err.Error(), "email")

	// when both columns clash the username wins
	err = r.CreateUser(ctx, &models.User{Username: "dave", Email: "dave@example.com", PasswordHash: "x"})
	require.ErrorIs(t, err, apperr.ErrConflict)
	assert.Contains(t, err.Error(), "username")
}

func TestSavePost_DoesNotWriteAssociatedUser(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := createTestUser(t, r, "erin", "erin@example.com")

	post := &models.Post{Title: "p", Slug: "p", Content: "x", Status: models.StatusDraft, UserID: user.ID}
	require.NoError(t, r.CreatePost(ctx, post))

	// GetPostBySlug preloads the owner; saving the post back must not
	// upsert the user row alongside it
	loaded, err := r.GetPostBySlug(ctx, "p")
	require.NoError(t, err)
	require.NotNil(t, loaded.User)

	loaded.Title = "renamed"
	loaded.User.Username = "tampered"
	require.NoError(t, r.SavePost(ctx, loaded))

	saved, err := r.GetPostBySlug(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "renamed", saved.Title)

	owner, err := r.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "erin", owner.Username)
}
