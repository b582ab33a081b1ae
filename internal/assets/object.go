package assets

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/publishing-api/internal/apperr"
	"github.com/publishing-api/internal/config"
	"github.com/rs/zerolog"
)

// ObjectStore keeps assets in an S3-compatible bucket under the key
// <bucket>/<filename>. URLs have the same shape as DiskStore's.
type ObjectStore struct {
	client *minio.Client
	bucket string
	log    zerolog.Logger
	now    func() time.Time
}

// NewObjectStore connects to the endpoint and creates the bucket if needed
func NewObjectStore(ctx context.Context, cfg config.S3Config, log zerolog.Logger) (*ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &ObjectStore{
		client: client,
		bucket: cfg.Bucket,
		log:    log.With().Str("component", "object_store").Logger(),
		now:    time.Now,
	}, nil
}

func objectKey(bucket Bucket, filename string) string {
	return string(bucket) + "/" + filename
}

func (s *ObjectStore) Save(ctx context.Context, bucket Bucket, upload *Upload) (string, error) {
	p, err := prepare(bucket, upload, s.now())
	if err != nil {
		return "", err
	}

	key := objectKey(bucket, p.filename)
	_, err = s.client.PutObject(ctx, s.bucket, key, p.reader(), int64(len(p.data)), minio.PutObjectOptions{
		ContentType: p.contentType,
	})
	if err != nil {
		return "", apperr.Storage("put object", err)
	}

	s.log.Debug().Str("key", key).Int("bytes", len(p.data)).Msg("Asset stored")
	return p.url(), nil
}

// Open streams the object behind url
func (s *ObjectStore) Open(ctx context.Context, url string) (*Object, error) {
	bucket, name, err := ParseURL(url)
	if err != nil {
		return nil, err
	}

	key := objectKey(bucket, name)
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, objectError("get object", err)
	}
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, objectError("stat object", err)
	}
	return &Object{Reader: obj, ContentType: info.ContentType, Size: info.Size}, nil
}

func objectError(op string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return apperr.NotFound("asset not found")
	}
	return apperr.Storage(op, err)
}

// Delete removes the object behind url. Missing objects are not an error.
func (s *ObjectStore) Delete(ctx context.Context, url string) error {
	bucket, name, err := ParseURL(url)
	if err != nil {
		return err
	}

	key := objectKey(bucket, name)
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			s.log.Warn().Str("key", key).Msg("Asset already removed")
			return nil
		}
		return apperr.Storage("remove object", err)
	}
	return nil
}
