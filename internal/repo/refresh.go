package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/content_api/internal/apperr"
	"github.com/Skotchmaster/content_api/internal/models"
	"github.com/Skotchmaster/content_api/internal/tokens"
)

func (r *GormRepo) AddRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *GormRepo) FindRefreshByJTI(ctx context.Context, jti string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func refreshExpiredOrRevoked(db *gorm.DB, jti string) (bool, error) {
	var refresh models.RefreshToken
	if err := db.Where("jti = ?", jti).First(&refresh).Error; err != nil {
		return false, err
	}
	if refresh.ExpiresAt < time.Now().Unix() || refresh.Revoked {
		return true, nil
	}
	return false, nil
}

// RevokeRefreshToken marks the stored token revoked. Zero matching rows is
// not an error so logout stays idempotent.
func (r *GormRepo) RevokeRefreshToken(ctx context.Context, rawToken string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", tokens.Sha256Hex(rawToken)).
		Update("revoked", true).Error
}

// RotateRefreshToken atomically retires the old token and records the new
// one. A token that is already expired or revoked cannot be rotated.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI string, newToken *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dead, err := refreshExpiredOrRevoked(tx, oldJTI)
		if err != nil {
			// only an unknown JTI means the token is bad; a storage
			// failure must not masquerade as a 401
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrInvalidToken
			}
			return err
		}
		if dead {
			return apperr.ErrInvalidToken
		}

		if err := tx.Model(&models.RefreshToken{}).
			Where("jti = ?", oldJTI).
			Update("revoked", true).Error; err != nil {
			return err
		}

		return tx.Create(newToken).Error
	})
}
