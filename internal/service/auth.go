package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/content_api/internal/apperr"
	"github.com/Skotchmaster/content_api/internal/events"
	"github.com/Skotchmaster/content_api/internal/hash"
	"github.com/Skotchmaster/content_api/internal/logging"
	"github.com/Skotchmaster/content_api/internal/models"
	"github.com/Skotchmaster/content_api/internal/tokens"
	"github.com/Skotchmaster/content_api/internal/transport"
)

// UserStore and RefreshTokenStore are the slices of the repository the
// auth service needs. GormRepo satisfies both; tests may swap in fakes.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type RefreshTokenStore interface {
	AddRefreshToken(ctx context.Context, t *models.RefreshToken) error
	RevokeRefreshToken(ctx context.Context, rawToken string) error
	RotateRefreshToken(ctx context.Context, oldJTI string, newToken *models.RefreshToken) error
}

type AuthService struct {
	Users  UserStore
	Tokens RefreshTokenStore
	Events events.Publisher

	JWTAccessSecret  []byte
	JWTRefreshSecret []byte
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
}

type TokenPair struct {
	Access     string
	Refresh    string
	AccessExp  time.Time
	RefreshExp time.Time
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, *TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_failed", "reason", "cannot hash the password", "error", err)
		return nil, nil, err
	}

	user := &models.User{
		Username:     req.Username,
		Email:        strings.ToLower(req.Email),
		PasswordHash: pwHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}

	if err := s.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			l.Warn("register_failed", "status", 409, "error", err)
		} else {
			l.Error("register_failed", "status", 500, "error", err)
		}
		return nil, nil, err
	}

	pair, err := s.IssuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, user.ID.String(), map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
	})

	l.Info("register_successful", "user_id", user.ID)
	return user, pair, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return nil, nil, apperr.ErrUnauthorized
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password", "user_id", user.ID)
		return nil, nil, apperr.ErrUnauthorized
	}

	pair, err := s.IssuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	l.Info("login_successful", "user_id", user.ID)
	return user, pair, nil
}

// IssuePair mints a fresh access/refresh pair and records the refresh
// token so it can be revoked later.
func (s *AuthService) IssuePair(ctx context.Context, user *models.User) (*TokenPair, error) {
	accessExp := time.Now().Add(s.AccessTTL)
	access, err := tokens.SignAccessToken(user.ID, user.Username, accessExp, s.JWTAccessSecret)
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(s.RefreshTTL)
	refresh, jti, err := tokens.SignRefreshToken(user.ID, refreshExp, s.JWTRefreshSecret)
	if err != nil {
		return nil, err
	}

	if err := s.Tokens.AddRefreshToken(ctx, &models.RefreshToken{
		Token:     tokens.Sha256Hex(refresh),
		JTI:       jti,
		UserID:    user.ID,
		ExpiresAt: refreshExp.Unix(),
	}); err != nil {
		return nil, err
	}

	return &TokenPair{
		Access:     access,
		Refresh:    refresh,
		AccessExp:  accessExp,
		RefreshExp: refreshExp,
	}, nil
}

// Refresh redeems a refresh token for a new pair. The old token is retired
// inside the same transaction that records its replacement, so a revoked or
// already-rotated token can never mint another pair.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(rawRefresh, s.JWTRefreshSecret)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "bad token", "error", err)
		return nil, apperr.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "bad subject")
		return nil, apperr.ErrInvalidToken
	}

	user, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			l.Warn("refresh_failed", "status", 401, "reason", "user gone")
			return nil, apperr.ErrInvalidToken
		}
		return nil, err
	}

	accessExp := time.Now().Add(s.AccessTTL)
	access, err := tokens.SignAccessToken(user.ID, user.Username, accessExp, s.JWTAccessSecret)
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(s.RefreshTTL)
	refresh, jti, err := tokens.SignRefreshToken(user.ID, refreshExp, s.JWTRefreshSecret)
	if err != nil {
		return nil, err
	}

	if err := s.Tokens.RotateRefreshToken(ctx, claims.ID, &models.RefreshToken{
		Token:     tokens.Sha256Hex(refresh),
		JTI:       jti,
		UserID:    user.ID,
		ExpiresAt: refreshExp.Unix(),
	}); err != nil {
		if errors.Is(err, apperr.ErrInvalidToken) {
			l.Warn("refresh_failed", "status", 401, "reason", "token revoked or unknown")
		} else {
			l.Error("refresh_failed", "status", 500, "error", err)
		}
		return nil, err
	}

	l.Info("refresh_successful", "user_id", user.ID)
	return &TokenPair{
		Access:     access,
		Refresh:    refresh,
		AccessExp:  accessExp,
		RefreshExp: refreshExp,
	}, nil
}

// Logout revokes the refresh token. Unknown or already-revoked tokens are
// a no-op so repeated logouts never fail.
func (s *AuthService) Logout(ctx context.Context, rawRefresh string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	if rawRefresh == "" {
		return nil
	}
	if err := s.Tokens.RevokeRefreshToken(ctx, rawRefresh); err != nil {
		l.Error("logout_failed", "status", 500, "error", err)
		return err
	}

	l.Info("logout_successful")
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.Users.GetUserByID(ctx, id)
}

func (s *AuthService) publish(ctx context.Context, key string, event map[string]any) {
	if s.Events == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Events.PublishEvent(pubCtx, key, event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "type", event["type"], "error", err)
	}
}
