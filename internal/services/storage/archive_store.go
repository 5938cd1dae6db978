package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdminh/imagebatch/internal/config"
	"github.com/pdminh/imagebatch/internal/services/archive"
	storage_go "github.com/supabase-community/storage-go"
)

// ArchiveStore persists produced archives to Supabase Storage. Batch
// state itself stays in memory; only the archive file is ever written
// out.
type ArchiveStore struct {
	sbClient *storage_go.Client
	bucket   string
}

func NewArchiveStore(cfg config.SupabaseConfig) *ArchiveStore {
	sbClient := storage_go.NewClient(cfg.URL+"/storage/v1", cfg.Key, nil)
	return &ArchiveStore{
		sbClient: sbClient,
		bucket:   cfg.Bucket,
	}
}

// Save uploads archive bytes under a per-batch key and returns a
// public URL for it.
func (s *ArchiveStore) Save(ctx context.Context, batchID string, data []byte) (string, error) {
	key := fmt.Sprintf("archives/%s/%s", batchID, archive.Filename)

	_, err := s.sbClient.UploadFile(s.bucket, key, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to upload archive: %w", err)
	}

	publicURL := s.sbClient.GetPublicUrl(s.bucket, key)
	return publicURL.SignedURL, nil
}

// HealthCheck checks Supabase Storage availability.
func (s *ArchiveStore) HealthCheck(ctx context.Context) string {
	_, err := s.sbClient.ListFiles(s.bucket, "", storage_go.FileSearchOptions{})
	if err != nil {
		return "unhealthy: " + err.Error()
	}
	return "healthy"
}
