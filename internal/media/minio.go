package media

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// minPartSize is the smallest multipart part S3-compatible stores accept.
const minPartSize = 5 << 20

// MinioConfig configures an S3-compatible media host.
type MinioConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	PublicBase string // browser-accessible base URL, e.g. "http://localhost:9000/studio-media"
	UseSSL     bool
	PartSize   int64
}

// MinioHost implements Host on MinIO (or any S3-compatible) storage. Large files are sent as
// multipart uploads with PartSize parts. It backs local development, where no hosted media
// account is available; direct signed uploads are not offered on this backend.
type MinioHost struct {
	client     *minio.Client
	bucket     string
	publicBase string
	partSize   uint64
}

// NewMinioHost creates a MinIO client, ensures the bucket exists with a public-read
// policy, and returns a ready-to-use host.
func NewMinioHost(ctx context.Context, cfg MinioConfig) (*MinioHost, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", cfg.Bucket, err)
		}
		log.Printf("media: created bucket %q", cfg.Bucket)
	}

	if err := client.SetBucketPolicy(ctx, cfg.Bucket, publicReadPolicy(cfg.Bucket)); err != nil {
		return nil, fmt.Errorf("set bucket policy: %w", err)
	}

	return &MinioHost{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: strings.TrimRight(cfg.PublicBase, "/"),
		partSize:   normalizePartSize(cfg.PartSize),
	}, nil
}

// UploadFile stores the file under "<folder>/<uuid><ext>" and returns its descriptor.
func (h *MinioHost) UploadFile(ctx context.Context, filePath string, opts UploadOptions) (*Asset, error) {
	name := opts.Filename
	if name == "" {
		name = filePath
	}
	ext := strings.ToLower(filepath.Ext(name))
	key := ObjectKey(opts.Folder, uuid.NewString()+ext)

	partSize := h.partSize
	if opts.ChunkSize > 0 {
		partSize = normalizePartSize(opts.ChunkSize)
	}

	info, err := h.client.FPutObject(ctx, h.bucket, key, filePath, minio.PutObjectOptions{
		ContentType: opts.ContentType,
		PartSize:    partSize,
	})
	if err != nil {
		return nil, fmt.Errorf("put object %q: %w", key, err)
	}

	resourceType := opts.ResourceType
	if resourceType == "" {
		resourceType = ResourceImage
	}
	return &Asset{
		PublicID:     key,
		SecureURL:    h.PublicURL(key),
		ResourceType: resourceType,
		Format:       strings.TrimPrefix(ext, "."),
		Bytes:        info.Size,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// Destroy removes the object at publicID. S3 deletes are idempotent, so existence is checked first
// to report ErrAssetNotFound.
func (h *MinioHost) Destroy(ctx context.Context, publicID, _ string) error {
	if _, err := h.client.StatObject(ctx, h.bucket, publicID, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return ErrAssetNotFound
		}
		return fmt.Errorf("stat object %q: %w", publicID, err)
	}
	if err := h.client.RemoveObject(ctx, h.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %q: %w", publicID, err)
	}
	return nil
}

// PublicURL returns the browser-accessible URL for the given key.
func (h *MinioHost) PublicURL(key string) string {
	return h.publicBase + "/" + key
}

// ObjectKey joins folder and name into a slash-separated object key.
func ObjectKey(folder, name string) string {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		return name
	}
	return path.Join(folder, name)
}

func normalizePartSize(n int64) uint64 {
	if n <= 0 {
		return 0 // library default
	}
	if n < minPartSize {
		return minPartSize
	}
	return uint64(n)
}

// publicReadPolicy returns an S3 bucket policy JSON that allows anonymous GET on all objects.
func publicReadPolicy(bucket string) string {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Effect":    "Allow",
				"Principal": "*",
				"Action":    "s3:GetObject",
				"Resource":  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
