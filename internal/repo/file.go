package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/content_api/internal/apperr"
	"github.com/Skotchmaster/content_api/internal/models"
)

func (r *GormRepo) CreateFileUpload(ctx context.Context, f *models.FileUpload) error {
	return r.DB.WithContext(ctx).Create(f).Error
}

func (r *GormRepo) GetFileUpload(ctx context.Context, id uuid.UUID) (*models.FileUpload, error) {
	var file models.FileUpload
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &file, nil
}

func (r *GormRepo) DeleteFileUpload(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.FileUpload{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
