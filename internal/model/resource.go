package model

import (
	"strings"
	"time"

	"github.com/jmoiron/sqlx/types"
)

type ResourceType string

const (
	ResourceTypeImage ResourceType = "IMAGE"
	ResourceTypePDF   ResourceType = "PDF"
)

// ResourceTypeFor classifies an uploaded file by its mime type.
func ResourceTypeFor(mimeType string) ResourceType {
	if strings.Contains(strings.ToLower(mimeType), "pdf") {
		return ResourceTypePDF
	}
	return ResourceTypeImage
}

type Resource struct {
	ID            string         `db:"id" json:"id"`
	UserID        string         `db:"user_id" json:"user_id"`
	StoragePath   string         `db:"storage_path" json:"-"`
	ResourceType  ResourceType   `db:"resource_type" json:"resource_type"`
	Category      *string        `db:"category" json:"category"`
	MimeType      *string        `db:"mime_type" json:"mime_type"`
	FileSizeBytes *int64         `db:"file_size_bytes" json:"file_size_bytes"`
	Metadata      types.JSONText `db:"metadata" json:"metadata"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`

	// Computed fields (not in database)
	URL string `db:"-" json:"url,omitempty"`
}
