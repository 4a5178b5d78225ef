package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/content_api/internal/models"
	"github.com/Skotchmaster/content_api/internal/repo"
	"github.com/Skotchmaster/content_api/internal/search"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))

	return &repo.GormRepo{DB: db}
}

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()

	r := newTestRepo(t)
	return &AuthService{
		Users:            r,
		Tokens:           r,
		JWTAccessSecret:  []byte("test-jwt-secret"),
		JWTRefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:        15 * time.Minute,
		RefreshTTL:       24 * time.Hour,
	}
}

type publishedEvent struct {
	Key   string
	Event any
}

type fakePublisher struct {
	events  []publishedEvent
	failErr error
}

func (f *fakePublisher) PublishEvent(_ context.Context, key string, event any) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.events = append(f.events, publishedEvent{Key: key, Event: event})
	return nil
}

func (f *fakePublisher) types() []string {
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		if m, ok := e.Event.(map[string]any); ok {
			out = append(out, fmt.Sprint(m["type"]))
		}
	}
	return out
}

type fakeIndexer struct {
	indexed   map[uuid.UUID]search.PostDoc
	queries   []string
	docs      []search.PostDoc
	total     int64
	indexErr  error
	removeErr error
	searchErr error
}

func newFakeIndexer() *fakeIndexer {
	return &fakeIndexer{indexed: make(map[uuid.UUID]search.PostDoc)}
}

func (f *fakeIndexer) IndexPost(_ context.Context, post *models.Post) error {
	if f.indexErr != nil {
		return f.indexErr
	}
	f.indexed[post.ID] = search.PostDoc{
		ID:      post.ID.String(),
		Title:   post.Title,
		Slug:    post.Slug,
		Content: post.Content,
		Status:  post.Status,
	}
	return nil
}

func (f *fakeIndexer) RemovePost(_ context.Context, id uuid.UUID) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.indexed, id)
	return nil
}

func (f *fakeIndexer) SearchPosts(_ context.Context, query string, _, _ int) ([]search.PostDoc, int64, error) {
	if f.searchErr != nil {
		return nil, 0, f.searchErr
	}
	f.queries = append(f.queries, query)
	return f.docs, f.total, nil
}
