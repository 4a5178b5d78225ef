package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/content_api/internal/apperr"
	"github.com/Skotchmaster/content_api/internal/events"
	"github.com/Skotchmaster/content_api/internal/logging"
	"github.com/Skotchmaster/content_api/internal/models"
	"github.com/Skotchmaster/content_api/internal/policy"
	"github.com/Skotchmaster/content_api/internal/repo"
	"github.com/Skotchmaster/content_api/internal/search"
	"github.com/Skotchmaster/content_api/internal/transport"
)

type PostService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Search search.Indexer
}

func validStatus(status string) bool {
	switch status {
	case models.StatusActive, models.StatusInactive, models.StatusDraft:
		return true
	}
	return false
}

// List returns posts filtered by status, newest first. An empty status
// means the caller supplied no filter and gets active posts only.
func (s *PostService) List(ctx context.Context, status string, offset, limit int) (int64, []models.Post, error) {
	if status == "" {
		status = models.StatusActive
	}
	if !validStatus(status) {
		return 0, nil, apperr.Validationf("status must be one of active, inactive, draft")
	}
	return s.Repo.GetPosts(ctx, status, offset, limit)
}

func (s *PostService) Get(ctx context.Context, slug string) (*models.Post, error) {
	return s.Repo.GetPostBySlug(ctx, slug)
}

// Create sets the owner from the authenticated caller; any owner supplied
// in the payload is ignored.
func (s *PostService) Create(ctx context.Context, callerID uuid.UUID, req transport.CreatePostRequest) (*models.Post, error) {
	l := logging.FromContext(ctx).With("svc", "post.create", "user_id", callerID)

	status := req.Status
	if status == "" {
		status = models.StatusDraft
	}

	post := &models.Post{
		Title:         req.Title,
		Slug:          req.Slug,
		Content:       req.Content,
		FeaturedImage: req.FeaturedImage,
		Status:        status,
		UserID:        callerID,
	}

	if err := s.Repo.CreatePost(ctx, post); err != nil {
		l.Warn("post_create_failed", "slug", req.Slug, "error", err)
		return nil, err
	}

	s.syncIndex(ctx, post)
	s.publish(ctx, post.ID.String(), map[string]any{
		"type":    "post_created",
		"post_id": post.ID,
		"slug":    post.Slug,
		"user_id": post.UserID,
	})

	l.Info("post_created", "post_id", post.ID, "slug", post.Slug)
	return post, nil
}

// Update mutates title/content/image/status. Slug and owner are immutable.
// A non-owner gets not-found, never forbidden, so post existence is not
// leaked to other users.
func (s *PostService) Update(ctx context.Context, callerID uuid.UUID, slug string, req transport.UpdatePostRequest) (*models.Post, error) {
	l := logging.FromContext(ctx).With("svc", "post.update", "user_id", callerID, "slug", slug)

	post, err := s.Repo.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if !policy.Allowed(callerID, post, policy.OpUpdate) {
		l.Warn("post_update_denied", "owner_id", post.UserID)
		return nil, apperr.ErrNotFound
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.FeaturedImage != nil {
		post.FeaturedImage = *req.FeaturedImage
	}
	if req.Status != nil {
		post.Status = *req.Status
	}

	if err := s.Repo.SavePost(ctx, post); err != nil {
		l.Error("post_update_failed", "error", err)
		return nil, err
	}

	s.syncIndex(ctx, post)
	s.publish(ctx, post.ID.String(), map[string]any{
		"type":    "post_updated",
		"post_id": post.ID,
		"slug":    post.Slug,
		"user_id": post.UserID,
	})

	l.Info("post_updated", "post_id", post.ID)
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, callerID uuid.UUID, slug string) error {
	l := logging.FromContext(ctx).With("svc", "post.delete", "user_id", callerID, "slug", slug)

	post, err := s.Repo.GetPostBySlug(ctx, slug)
	if err != nil {
		return err
	}

	if !policy.Allowed(callerID, post, policy.OpDelete) {
		l.Warn("post_delete_denied", "owner_id", post.UserID)
		return apperr.ErrNotFound
	}

	if err := s.Repo.DeletePost(ctx, post.ID); err != nil {
		l.Error("post_delete_failed", "error", err)
		return err
	}

	if s.Search != nil {
		if err := s.Search.RemovePost(ctx, post.ID); err != nil {
			l.Error("index_remove_failed", "post_id", post.ID, "error", err)
		}
	}
	s.publish(ctx, post.ID.String(), map[string]any{
		"type":    "post_deleted",
		"post_id": post.ID,
		"slug":    post.Slug,
		"user_id": post.UserID,
	})

	l.Info("post_deleted", "post_id", post.ID)
	return nil
}

func (s *PostService) SearchPosts(ctx context.Context, query string, from, size int) ([]search.PostDoc, int64, error) {
	if s.Search == nil {
		return nil, 0, apperr.Validationf("search is not configured")
	}
	return s.Search.SearchPosts(ctx, query, from, size)
}

// Index and event sync are best effort: a search or broker outage must not
// fail the write that already committed.
func (s *PostService) syncIndex(ctx context.Context, post *models.Post) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexPost(ctx, post); err != nil {
		logging.FromContext(ctx).Error("index_sync_failed", "post_id", post.ID, "error", err)
	}
}

func (s *PostService) publish(ctx context.Context, key string, event map[string]any) {
	if s.Events == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Events.PublishEvent(pubCtx, key, event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "type", event["type"], "error", err)
	}
}
