package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/Skotchmaster/content_api/internal/apperr"
	"github.com/Skotchmaster/content_api/internal/blob"
	"github.com/Skotchmaster/content_api/internal/events"
	"github.com/Skotchmaster/content_api/internal/logging"
	"github.com/Skotchmaster/content_api/internal/models"
	"github.com/Skotchmaster/content_api/internal/policy"
	"github.com/Skotchmaster/content_api/internal/repo"
	"github.com/Skotchmaster/content_api/internal/transport"
)

type FileService struct {
	Repo    *repo.GormRepo
	Blobs   blob.Store
	Events  events.Publisher
	MaxSize int64
}

// Upload stores the blob first and the metadata row after it. Size comes
// from the received bytes and the content type is sniffed from them, never
// taken from the client.
func (s *FileService) Upload(ctx context.Context, callerID uuid.UUID, originalName string, src io.ReadSeeker, size int64) (*models.FileUpload, error) {
	l := logging.FromContext(ctx).With("svc", "file.upload", "user_id", callerID)

	if size <= 0 {
		return nil, apperr.Validationf("file is empty")
	}
	if s.MaxSize > 0 && size > s.MaxSize {
		return nil, apperr.Validationf("file exceeds the %d byte limit", s.MaxSize)
	}

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		l.Error("upload_failed", "reason", "cannot sniff content type", "error", err)
		return nil, err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	id := uuid.New()
	objectName := fmt.Sprintf("uploads/%s%s", id, strings.ToLower(filepath.Ext(originalName)))

	if err := s.Blobs.Put(ctx, objectName, src, size, mtype.String()); err != nil {
		l.Error("upload_failed", "object", objectName, "error", err)
		return nil, err
	}

	file := &models.FileUpload{
		ID:           id,
		ObjectName:   objectName,
		OriginalName: originalName,
		FileSize:     size,
		ContentType:  mtype.String(),
		UploadedByID: callerID,
	}

	if err := s.Repo.CreateFileUpload(ctx, file); err != nil {
		// The blob exists but has no metadata row; remove it so a failed
		// upload leaves nothing behind.
		if rmErr := s.Blobs.Delete(ctx, objectName); rmErr != nil {
			l.Error("upload_cleanup_failed", "object", objectName, "error", rmErr)
		}
		l.Error("upload_failed", "reason", "cannot save metadata", "error", err)
		return nil, err
	}

	s.publish(ctx, file.ID.String(), map[string]any{
		"type":    "file_uploaded",
		"file_id": file.ID,
		"user_id": callerID,
		"size":    size,
	})

	l.Info("file_uploaded", "file_id", file.ID, "object", objectName, "content_type", file.ContentType)
	return file, nil
}

// Preview is open to any authenticated user; only delete is owner-scoped.
func (s *FileService) Preview(ctx context.Context, id uuid.UUID) (*transport.FilePreviewResponse, error) {
	file, err := s.Repo.GetFileUpload(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.Blobs.PresignedURL(ctx, file.ObjectName)
	if err != nil {
		logging.FromContext(ctx).Error("preview_failed", "file_id", id, "error", err)
		return nil, err
	}

	return &transport.FilePreviewResponse{
		URL:         url,
		Name:        file.OriginalName,
		Size:        file.FileSize,
		ContentType: file.ContentType,
	}, nil
}

// Delete removes the blob before the metadata row. If the blob release
// fails the row stays so no reference ever dangles; the storage leak is
// the cheaper failure.
func (s *FileService) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "file.delete", "user_id", callerID, "file_id", id)

	file, err := s.Repo.GetFileUpload(ctx, id)
	if err != nil {
		return err
	}

	if !policy.Allowed(callerID, file, policy.OpDelete) {
		l.Warn("file_delete_denied", "owner_id", file.UploadedByID)
		return apperr.ErrNotFound
	}

	if err := s.Blobs.Delete(ctx, file.ObjectName); err != nil {
		l.Error("file_delete_failed", "reason", "blob release failed, metadata kept", "error", err)
		return err
	}

	if err := s.Repo.DeleteFileUpload(ctx, id); err != nil {
		l.Error("file_delete_failed", "reason", "metadata delete failed", "error", err)
		return err
	}

	s.publish(ctx, id.String(), map[string]any{
		"type":    "file_deleted",
		"file_id": id,
		"user_id": callerID,
	})

	l.Info("file_deleted")
	return nil
}

func (s *FileService) publish(ctx context.Context, key string, event map[string]any) {
	if s.Events == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Events.PublishEvent(pubCtx, key, event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "type", event["type"], "error", err)
	}
}
