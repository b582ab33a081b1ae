// Package assets stores uploaded images and hands back their public URLs.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/publishing-api/internal/apperr"
	"github.com/publishing-api/internal/slug"
)

// Bucket is a logical group of assets with its own size limit
type Bucket string

const (
	BucketArticles Bucket = "articles"
	BucketProfiles Bucket = "profiles"
)

const (
	// URLPrefix is the public path under which assets are served
	URLPrefix = "/uploads/"

	maxBaseLength = 50
	sniffLength   = 3072
)

var bucketLimits = map[Bucket]int64{
	BucketArticles: 5 << 20,
	BucketProfiles: 2 << 20,
}

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// MaxSize returns the upload limit in bytes, or 0 for an unknown bucket
func (b Bucket) MaxSize() int64 {
	return bucketLimits[b]
}

func (b Bucket) Valid() bool {
	_, ok := bucketLimits[b]
	return ok
}

// Upload is an incoming file. Size is the size claimed by the client; the
// stored size is enforced independently while reading.
type Upload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// Object is a stored asset opened for reading. The caller closes Reader.
type Object struct {
	Reader      io.ReadCloser
	ContentType string
	Size        int64
}

// Store persists uploads, serves them back and removes them again.
//
// Delete is idempotent: deleting a URL whose file is already gone is not an
// error. Open returns a NotFound error for a missing file.
type Store interface {
	Save(ctx context.Context, bucket Bucket, upload *Upload) (string, error)
	Open(ctx context.Context, url string) (*Object, error)
	Delete(ctx context.Context, url string) error
}

// prepared is an upload that passed validation, fully buffered
type prepared struct {
	bucket      Bucket
	filename    string
	contentType string
	data        []byte
}

// prepare validates the upload against the bucket rules and reads it. The
// read is capped at the bucket limit plus one byte so oversize bodies are
// detected without buffering them entirely.
func prepare(bucket Bucket, upload *Upload, now time.Time) (*prepared, error) {
	if !bucket.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("unknown asset bucket %q", bucket))
	}
	if upload == nil || upload.Reader == nil {
		return nil, apperr.Validation("no file provided")
	}

	limit := bucket.MaxSize()
	if upload.Size > limit {
		return nil, sizeError(limit)
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if !allowedExtensions[ext] {
		return nil, apperr.Validation("only image files are allowed (jpeg, jpg, png, gif, webp)")
	}

	data, err := io.ReadAll(io.LimitReader(upload.Reader, limit+1))
	if err != nil {
		return nil, apperr.Storage("read upload", err)
	}
	if len(data) == 0 {
		return nil, apperr.Validation("uploaded file is empty")
	}
	if int64(len(data)) > limit {
		return nil, sizeError(limit)
	}

	head := data
	if len(head) > sniffLength {
		head = head[:sniffLength]
	}
	detected := mimetype.Detect(head)
	if !mimetype.EqualsAny(detected.String(), allowedTypes...) {
		return nil, apperr.Validation("file content is not a supported image type")
	}

	return &prepared{
		bucket:      bucket,
		filename:    FileName(upload.Filename, now),
		contentType: detected.String(),
		data:        data,
	}, nil
}

func sizeError(limit int64) error {
	return apperr.Validation(fmt.Sprintf("file exceeds the %d MB limit", limit>>20))
}

func (p *prepared) reader() *bytes.Reader {
	return bytes.NewReader(p.data)
}

func (p *prepared) url() string {
	return URL(p.bucket, p.filename)
}

// FileName builds a unique stored name for original: the sanitized base name,
// the upload time in milliseconds and a random suffix, then the extension.
func FileName(original string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := slug.Make(strings.TrimSuffix(filepath.Base(original), filepath.Ext(original)))
	if len(base) > maxBaseLength {
		base = strings.TrimRight(base[:maxBaseLength], "-")
	}
	if base == "" {
		base = "image"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%d-%s%s", base, now.UnixMilli(), suffix, ext)
}

// URL returns the public URL of a stored file
func URL(bucket Bucket, filename string) string {
	return URLPrefix + string(bucket) + "/" + filename
}

// ParseURL splits a URL produced by URL back into bucket and filename. URLs
// that point outside a known bucket, or whose filename is not a single path
// element, are rejected.
func ParseURL(url string) (Bucket, string, error) {
	rest, ok := strings.CutPrefix(url, URLPrefix)
	if !ok {
		return "", "", apperr.Validation("asset url is not managed by this store")
	}
	b, name, ok := strings.Cut(rest, "/")
	bucket := Bucket(b)
	if !ok || !bucket.Valid() {
		return "", "", apperr.Validation("asset url is not managed by this store")
	}
	if name == "" || name != path.Base(name) || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", "", apperr.Validation("invalid asset file name")
	}
	return bucket, name, nil
}
