package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/echoscribe/echoscribe-backend/internal/logger"
	"github.com/echoscribe/echoscribe-backend/internal/utils"
)

// MediaStorageService stores uploaded media. Mode "local" keeps files in
// a directory on disk; mode "gcs" writes to a bucket.
type MediaStorageService interface {
	Save(ctx context.Context, key string, media io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// NewMediaStorageService selects the backend by MEDIA_STORAGE_MODE
// ("local" by default).
func NewMediaStorageService(log *logger.Logger) (MediaStorageService, error) {
	mode := strings.ToLower(utils.GetEnv("MEDIA_STORAGE_MODE", "local", log))
	switch mode {
	case "local":
		return newLocalMediaStorage(log)
	case "gcs":
		return newBucketMediaStorage(log)
	}
	return nil, fmt.Errorf("unsupported MEDIA_STORAGE_MODE %q (want local or gcs)", mode)
}

type localMediaStorage struct {
	log *logger.Logger
	dir string
}

func newLocalMediaStorage(log *logger.Logger) (MediaStorageService, error) {
	serviceLog := log.With("service", "LocalMediaStorage")
	dir := utils.GetEnv("MEDIA_DIR", "files", log)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating media dir %q: %w", dir, err)
	}
	serviceLog.Info("Local media storage ready", "dir", dir)
	return &localMediaStorage{log: serviceLog, dir: dir}, nil
}

func (s *localMediaStorage) path(key string) (string, error) {
	clean := filepath.Clean(key)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.dir, clean), nil
}

func (s *localMediaStorage) Save(ctx context.Context, key string, media io.Reader) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, media); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing media file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), p)
}

func (s *localMediaStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

func (s *localMediaStorage) Delete(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	return os.Remove(p)
}

func (s *localMediaStorage) PublicURL(key string) string {
	return ""
}

type bucketMediaStorage struct {
	log           *logger.Logger
	storageClient *storage.Client
	bucketName    string
	cdnDomain     string
}

func newBucketMediaStorage(log *logger.Logger) (MediaStorageService, error) {
	serviceLog := log.With("service", "BucketMediaStorage")
	bucket := os.Getenv("GCS_BUCKET_NAME")
	if bucket == "" {
		return nil, fmt.Errorf("missing env var GCS_BUCKET_NAME")
	}
	cdnDomain := os.Getenv("CDN_DOMAIN")
	saPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON")
	if saPath == "" {
		serviceLog.Warn("GOOGLE_APPLICATION_CREDENTIALS_JSON not set; storage client will rely on ambient credentials")
	}
	ctx := context.Background()
	var stClient *storage.Client
	var err error
	if saPath != "" {
		stClient, err = storage.NewClient(ctx, option.WithCredentialsFile(saPath), option.WithScopes(storage.ScopeReadWrite))
	} else {
		stClient, err = storage.NewClient(ctx, option.WithScopes(storage.ScopeReadWrite))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &bucketMediaStorage{
		log:           serviceLog,
		storageClient: stClient,
		bucketName:    bucket,
		cdnDomain:     cdnDomain,
	}, nil
}

func (s *bucketMediaStorage) Save(ctx context.Context, key string, media io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	w := s.storageClient.Bucket(s.bucketName).Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, media); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write media to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS writer: %w", err)
	}
	return nil
}

func (s *bucketMediaStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.storageClient.Bucket(s.bucketName).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open GCS object %q: %w", key, err)
	}
	return r, nil
}

func (s *bucketMediaStorage) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	o := s.storageClient.Bucket(s.bucketName).Object(key)
	if err := o.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete GCS object %q: %w", key, err)
	}
	return nil
}

func (s *bucketMediaStorage) PublicURL(key string) string {
	if s.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cdnDomain, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, key)
}
