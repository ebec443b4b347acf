package storage

import (
	"context"
	"path"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeJSON = "application/json"
)

// FileStorage defines the interface for object storage operations.
// It archives generated artifacts; the store itself never lives here.
type FileStorage interface {
	// PutObject uploads body under objectKey, overwriting any previous object.
	PutObject(ctx context.Context, objectKey string, body []byte, contentType string) error

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// PlanKey is where the rendered PDF of a workout is archived.
func PlanKey(workoutID, filename string) string {
	return path.Join("plans", workoutID, filename)
}

// BackupKey is where an exported backup envelope is archived.
func BackupKey(filename string) string {
	return path.Join("backups", filename)
}
