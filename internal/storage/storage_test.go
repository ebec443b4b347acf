package storage

import (
	"context"
	"testing"
	"time"

	"alcyxob/fitplan/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "plans/w1/plan-alice.pdf", PlanKey("w1", "plan-alice.pdf"))
	assert.Equal(t, "backups/backup-2026-10-18.json", BackupKey("backup-2026-10-18.json"))
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "", endpointURL("", true))
	assert.Equal(t, "http://minio:9000", endpointURL("minio:9000", false))
	assert.Equal(t, "https://minio:9000", endpointURL("minio:9000", true))
	assert.Equal(t, "http://localhost:9000", endpointURL("http://localhost:9000", true))
}

// Presigning is computed locally, so no server is needed.
func TestS3Storage_PresignedDownloadURL(t *testing.T) {
	fs, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        "localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		BucketName:      "fitplan",
		URLExpiry:       time.Minute,
	})
	require.NoError(t, err)

	url, err := fs.GeneratePresignedDownloadURL(context.Background(), PlanKey("w1", "plan-alice.pdf"), 0)
	require.NoError(t, err)
	assert.Contains(t, url, "http://localhost:9000/fitplan/plans/w1/plan-alice.pdf")
	assert.Contains(t, url, "X-Amz-Expires=60")
}
