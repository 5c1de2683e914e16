package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fitcoach/coach/internal/model"
	"github.com/fitcoach/coach/internal/repository"
	"github.com/fitcoach/coach/internal/storage"
	"github.com/fitcoach/coach/internal/validation"
	"github.com/google/uuid"
)

// Upload is a file attached to a log submission.
type Upload struct {
	Filename string
	Data     []byte
}

type ResourceService struct {
	repo    repository.ResourceRepository
	storage storage.Storage
}

func NewResourceService(repo repository.ResourceRepository, storage storage.Storage) *ResourceService {
	return &ResourceService{
		repo:    repo,
		storage: storage,
	}
}

// CheckUpload returns the detected mime type of an acceptable image or PDF.
func CheckUpload(upload Upload) (string, error) {
	return validation.ValidateUpload(upload.Filename, upload.Data,
		validation.ImageConstraints, validation.DocumentConstraints)
}

// Upload validates the file, stores it under the user's prefix and creates
// the resource row. Images and PDFs are accepted.
func (s *ResourceService) Upload(ctx context.Context, userID string, category model.LogType, upload Upload) (*model.Resource, error) {
	mimeType, err := CheckUpload(upload)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	storagePath := path.Join("private", userID, strings.ToLower(string(category)), id+ext)

	err = s.storage.Save(ctx, storagePath, bytes.NewReader(upload.Data), mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	metadata, _ := json.Marshal(map[string]string{"original_name": upload.Filename})
	cat := string(category)
	size := int64(len(upload.Data))
	resource := &model.Resource{
		ID:            id,
		UserID:        userID,
		StoragePath:   storagePath,
		ResourceType:  model.ResourceTypeFor(mimeType),
		Category:      &cat,
		MimeType:      &mimeType,
		FileSizeBytes: &size,
		Metadata:      metadata,
		CreatedAt:     time.Now().UTC(),
	}

	err = s.repo.Create(ctx, resource)
	if err != nil {
		// If DB insert fails, try to cleanup the uploaded file
		delErr := s.storage.Delete(ctx, storagePath)
		if delErr != nil {
			slog.Error("failed to delete file from storage during cleanup", "error", delErr, "path", storagePath)
		}
		return nil, fmt.Errorf("failed to create resource record: %w", err)
	}

	return resource, nil
}

// ByID returns the resource with a fresh URL.
func (s *ResourceService) ByID(ctx context.Context, userID, resourceID string) (*model.Resource, error) {
	resource, err := s.repo.ByID(ctx, userID, resourceID)
	if err != nil {
		return nil, err
	}
	s.attachURL(ctx, resource)
	return resource, nil
}

func (s *ResourceService) ByIDs(ctx context.Context, userID string, ids []string) ([]*model.Resource, error) {
	resources, err := s.repo.ByIDs(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	for _, r := range resources {
		s.attachURL(ctx, r)
	}
	return resources, nil
}

func (s *ResourceService) attachURL(ctx context.Context, resource *model.Resource) {
	url, err := s.storage.URL(ctx, resource.StoragePath)
	if err != nil {
		slog.Warn("failed to build resource url", "error", err, "resource_id", resource.ID)
		return
	}
	resource.URL = url
}

// Delete removes a resource from storage and database
func (s *ResourceService) Delete(ctx context.Context, userID, resourceID string) error {
	resource, err := s.repo.ByID(ctx, userID, resourceID)
	if err != nil {
		return err
	}

	// Delete from storage (best effort)
	delErr := s.storage.Delete(ctx, resource.StoragePath)
	if delErr != nil {
		slog.Error("failed to delete file from storage", "error", delErr, "path", resource.StoragePath)
	}

	err = s.repo.Delete(ctx, userID, resourceID)
	if err != nil {
		return fmt.Errorf("failed to delete resource record: %w", err)
	}
	return nil
}

// DataURL encodes an uploaded file for the multimodal model call.
func DataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
