package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/content_api/internal/apperr"
)

type fakeBlobStore struct {
	objects   map[string][]byte
	deleteErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (f *fakeBlobStore) Put(_ context.Context, objectName string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[objectName] = data
	return nil
}

func (f *fakeBlobStore) PresignedURL(_ context.Context, objectName string) (string, error) {
	if _, ok := f.objects[objectName]; !ok {
		return "", errors.New("object missing")
	}
	return "https://blobs.test/" + objectName, nil
}

func (f *fakeBlobStore) Delete(_ context.Context, objectName string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, objectName)
	return nil
}

// pngHeader makes the sniffer classify the payload as image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func newTestFileService(t *testing.T) (*FileService, *fakeBlobStore) {
	t.Helper()

	blobs := newFakeBlobStore()
	svc := &FileService{
		Repo:    newTestRepo(t),
		Blobs:   blobs,
		MaxSize: 1 << 20,
	}
	return svc, blobs
}

func TestFileService_Upload_CapturesMetadataFromBlob(t *testing.T) {
	t.Parallel()

	svc, blobs := newTestFileService(t)
	ctx := context.Background()
	alice := createUser(t, svc.Repo, "alice")

	payload := pngHeader
	file, err := svc.Upload(ctx, alice.ID, "photo.png", bytes.NewReader(payload), int64(len(payload)))
	require.NoError(t, err)

	assert.Equal(t, "photo.png", file.OriginalName)
	assert.EqualValues(t, len(payload), file.FileSize)
	assert.Equal(t, "image/png", file.ContentType)
	assert.Equal(t, alice.ID, file.UploadedByID)
	assert.Contains(t, blobs.objects, file.ObjectName)
}

func TestFileService_Upload_RejectsEmptyAndOversized(t *testing.T) {
	t.Parallel()

	svc, _ := newTestFileService(t)
	ctx := context.Background()
	alice := createUser(t, svc.Repo, "alice")

	_, err := svc.Upload(ctx, alice.ID, "empty.bin", bytes.NewReader(nil), 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	svc.MaxSize = 4
	_, err = svc.Upload(ctx, alice.ID, "big.bin", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestFileService_Delete_RemovesBlobAndMetadata(t *testing.T) {
	t.Parallel()

	svc, blobs := newTestFileService(t)
	ctx := context.Background()
	alice := createUser(t, svc.Repo, "alice")

	file, err := svc.Upload(ctx, alice.ID, "photo.png", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, alice.ID, file.ID))

	assert.NotContains(t, blobs.objects, file.ObjectName)
	_, err = svc.Repo.GetFileUpload(ctx, file.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestFileService_Delete_BlobFailureKeepsMetadata(t *testing.T) {
	t.Parallel()

	svc, blobs := newTestFileService(t)
	ctx := context.Background()
	alice := createUser(t, svc.Repo, "alice")

	file, err := svc.Upload(ctx, alice.ID, "photo.png", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	require.NoError(t, err)

	blobs.deleteErr = errors.New("storage down")
	err = svc.Delete(ctx, alice.ID, file.ID)
	require.Error(t, err)

	// metadata survives a failed blob release so nothing dangles
	got, err := svc.Repo.GetFileUpload(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, file.ObjectName, got.ObjectName)
}

func TestFileService_Delete_NonUploaderGetsNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newTestFileService(t)
	ctx := context.Background()
	alice := createUser(t, svc.Repo, "alice")
	bob := createUser(t, svc.Repo, "bob")

	file, err := svc.Upload(ctx, alice.ID, "photo.png", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, bob.ID, file.ID), apperr.ErrNotFound)
}

func TestFileService_EventsFollowLifecycle(t *testing.T) {
	t.Parallel()

	svc, _ := newTestFileService(t)
	pub := &fakePublisher{}
	svc.Events = pub
	ctx := context.Background()
	alice := createUser(t, svc.Repo, "alice")

	file, err := svc.Upload(ctx, alice.ID, "photo.png", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, alice.ID, file.ID))

	assert.Equal(t, []string{"file_uploaded", "file_deleted"}, pub.types())
	assert.Equal(t, file.ID.String(), pub.events[0].Key)
}

func TestFileService_BrokerOutageDoesNotFailUpload(t *testing.T) {
	t.Parallel()

	svc, blobs := newTestFileService(t)
	svc.Events = &fakePublisher{failErr: errors.New("broker down")}
	ctx := context.Background()
	alice := createUser(t, svc.Repo, "alice")

	file, err := svc.Upload(ctx, alice.ID, "photo.png", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	require.NoError(t, err)
	assert.Contains(t, blobs.objects, file.ObjectName)
}

func TestFileService_Preview_OpenToAnyAuthenticatedUser(t *testing.T) {
	t.Parallel()

	svc, _ := newTestFileService(t)
	ctx := context.Background()
	alice := createUser(t, svc.Repo, "alice")

	file, err := svc.Upload(ctx, alice.ID, "photo.png", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	require.NoError(t, err)

	// no caller identity involved: preview is not ownership-scoped
	preview, err := svc.Preview(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, "photo.png", preview.Name)
	assert.EqualValues(t, len(pngHeader), preview.Size)
	assert.Equal(t, "image/png", preview.ContentType)
	assert.Contains(t, preview.URL, file.ObjectName)
}
