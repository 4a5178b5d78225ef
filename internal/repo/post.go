package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/content_api/internal/apperr"
	"github.com/Skotchmaster/content_api/internal/models"
)

// CreatePost relies on the unique index on slug; concurrent creators of
// the same slug race at the database, not in application code.
func (r *GormRepo) CreatePost(ctx context.Context, post *models.Post) error {
	if err := r.DB.WithContext(ctx).Create(post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("slug")
		}
		return err
	}
	return nil
}

func (r *GormRepo) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := r.DB.WithContext(ctx).Preload("User").Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetPosts returns posts with the given status, newest first.
func (r *GormRepo) GetPosts(ctx context.Context, status string, offset, limit int) (int64, []models.Post, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Post{}).
		Where("status = ?", status).
		Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Post, 0, limit)
	if err := r.DB.WithContext(ctx).
		Preload("User").
		Where("status = ?", status).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

// SavePost writes the post row only; a preloaded User association is
// never written back.
func (r *GormRepo) SavePost(ctx context.Context, post *models.Post) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Save(post).Error
}

func (r *GormRepo) DeletePost(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.Post{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
