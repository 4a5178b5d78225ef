package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/content_api/internal/apperr"
	"github.com/Skotchmaster/content_api/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict(duplicatedUserField(ctx, r.DB, u))
		}
		return err
	}
	return nil
}

// duplicatedUserField names the conflicting column so the API can report
// which of username/email is already taken. TranslateError strips the
// constraint name from the driver error, so the clashing row is re-read
// in one query; attribution is best effort and defaults to email when the
// row vanished under a concurrent delete. When both columns clash the
// username wins.
func duplicatedUserField(ctx context.Context, db *gorm.DB, u *models.User) string {
	var clashing []models.User
	if err := db.WithContext(ctx).
		Where("username = ? OR email = ?", u.Username, u.Email).
		Limit(2).
		Find(&clashing).Error; err != nil {
		return "email"
	}
	for _, existing := range clashing {
		if existing.Username == u.Username {
			return "username"
		}
	}
	return "email"
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) DeleteUser(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
