package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusDraft    = "draft"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"       json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null"                   json:"-"`
	FirstName    string    `gorm:"size:150"                   json:"first_name"`
	LastName     string    `gorm:"size:150"                   json:"last_name"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Post struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"          json:"id"`
	Title         string    `gorm:"size:255;not null"             json:"title"`
	Slug          string    `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Content       string    `gorm:"not null"                      json:"content"`
	FeaturedImage string    `gorm:"size:512"                      json:"featured_image,omitempty"`
	Status        string    `gorm:"size:20;not null;default:draft;index" json:"status"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"      json:"user_id"`
	User          *User     `gorm:"constraint:OnDelete:CASCADE"   json:"user,omitempty"`
	CreatedAt     time.Time `gorm:"index"                         json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// OwnedBy reports the owning user for policy checks.
func (p *Post) OwnedBy() uuid.UUID { return p.UserID }

type FileUpload struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	ObjectName   string    `gorm:"size:512;not null"        json:"-"`
	OriginalName string    `gorm:"size:255;not null"        json:"original_name"`
	FileSize     int64     `gorm:"not null"                 json:"file_size"`
	ContentType  string    `gorm:"size:100;not null"        json:"content_type"`
	UploadedByID uuid.UUID `gorm:"type:uuid;not null;index" json:"uploaded_by"`
	UploadedBy   *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UploadedAt   time.Time `gorm:"autoCreateTime"           json:"uploaded_at"`
}

func (f *FileUpload) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

func (f *FileUpload) OwnedBy() uuid.UUID { return f.UploadedByID }

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"            json:"id"`
	Token     string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	JTI       string    `gorm:"size:36;uniqueIndex;not null" json:"jti"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"     json:"user_id"`
	ExpiresAt int64     `gorm:"not null"              json:"expires_at"`
	Revoked   bool      `gorm:"default:false"         json:"revoked"`
}
