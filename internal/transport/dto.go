package transport

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Skotchmaster/content_api/internal/models"
)

type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=150"`
	Email           string `json:"email" validate:"required,email"`
	FirstName       string `json:"first_name" validate:"max=150"`
	LastName        string `json:"last_name" validate:"max=150"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

type CreatePostRequest struct {
	Title         string `json:"title" validate:"required,max=255"`
	Slug          string `json:"slug" validate:"required,max=255"`
	Content       string `json:"content" validate:"required"`
	FeaturedImage string `json:"featured_image" validate:"omitempty,max=512"`
	Status        string `json:"status" validate:"omitempty,oneof=active inactive draft"`
}

type UpdatePostRequest struct {
	Title         *string `json:"title" validate:"omitempty,max=255"`
	Content       *string `json:"content"`
	FeaturedImage *string `json:"featured_image" validate:"omitempty,max=512"`
	Status        *string `json:"status" validate:"omitempty,oneof=active inactive draft"`
}

type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type AuthResponse struct {
	User    *models.User `json:"user"`
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
}

type FilePreviewResponse struct {
	URL         string `json:"url"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// ValidationDetail flattens validator errors into field -> constraint pairs
// for the error payload.
func ValidationDetail(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[strings.ToLower(fe.Field())] = fe.Tag()
	}
	return out
}
