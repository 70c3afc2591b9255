package minio

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/fuad00/rtspshot/internal/domain/entity"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Storage mirrors captured snapshots into an object storage bucket.
type Storage struct {
	client *miniogo.Client
	bucket string
	prefix string
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	// Prefix is prepended to every object key, typically the run folder.
	Prefix string
}

func NewStorage(cfg StorageConfig) (*Storage, error) {
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &Storage{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

func (s *Storage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, miniogo.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

func (s *Storage) UploadSnapshot(ctx context.Context, objectKey string, filePath string) error {
	_, err := s.client.FPutObject(ctx, s.bucket, objectKey, filePath, miniogo.PutObjectOptions{
		ContentType: "image/jpeg",
	})
	if err != nil {
		return fmt.Errorf("upload snapshot %s: %w", objectKey, err)
	}
	return nil
}

// ObjectKey is the key a snapshot file is mirrored under.
func (s *Storage) ObjectKey(filePath string) string {
	return path.Join(s.prefix, filepath.Base(filePath))
}

func (s *Storage) Name() string { return "minio" }

// Handle uploads the snapshot of a successful outcome. Other outcomes have no
// file and are ignored.
func (s *Storage) Handle(ctx context.Context, outcome entity.CaptureOutcome) error {
	if !outcome.Succeeded() {
		return nil
	}
	return s.UploadSnapshot(ctx, s.ObjectKey(outcome.FilePath), outcome.FilePath)
}
