package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/publishing-api/internal/apperr"
	"github.com/rs/zerolog"
)

// DiskStore keeps assets under <baseDir>/<bucket>/
type DiskStore struct {
	baseDir string
	log     zerolog.Logger
	now     func() time.Time
}

// NewDiskStore creates the bucket directories under baseDir
func NewDiskStore(baseDir string, log zerolog.Logger) (*DiskStore, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	for bucket := range bucketLimits {
		if err := os.MkdirAll(filepath.Join(abs, string(bucket)), 0o755); err != nil {
			return nil, fmt.Errorf("create bucket directory %s: %w", bucket, err)
		}
	}
	return &DiskStore{
		baseDir: abs,
		log:     log.With().Str("component", "disk_store").Logger(),
		now:     time.Now,
	}, nil
}

// BaseDir returns the absolute directory files are written to
func (s *DiskStore) BaseDir() string {
	return s.baseDir
}

// Save validates upload and writes it atomically: the bytes go to a temp
// file in the bucket directory which is then renamed into place.
func (s *DiskStore) Save(ctx context.Context, bucket Bucket, upload *Upload) (string, error) {
	p, err := prepare(bucket, upload, s.now())
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", apperr.Storage("save asset", err)
	}

	dir := filepath.Join(s.baseDir, string(bucket))
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", apperr.Storage("create temp file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(p.data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", apperr.Storage("write asset", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", apperr.Storage("close asset", err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, p.filename)); err != nil {
		os.Remove(tmpName)
		return "", apperr.Storage("rename asset", err)
	}

	s.log.Debug().
		Str("bucket", string(bucket)).
		Str("file", p.filename).
		Int("bytes", len(p.data)).
		Msg("Asset stored")

	return p.url(), nil
}

// Delete removes the file behind url. A missing file is logged and ignored.
func (s *DiskStore) Delete(ctx context.Context, url string) error {
	bucket, name, err := ParseURL(url)
	if err != nil {
		return err
	}

	target, err := s.path(bucket, name)
	if err != nil {
		return err
	}

	if err := os.Remove(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Warn().Str("url", url).Msg("Asset already removed")
			return nil
		}
		return apperr.Storage("delete asset", err)
	}
	return nil
}

// Open returns the file behind url for reading
func (s *DiskStore) Open(ctx context.Context, url string) (*Object, error) {
	bucket, name, err := ParseURL(url)
	if err != nil {
		return nil, err
	}
	target, err := s.path(bucket, name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.NotFound("asset not found")
		}
		return nil, apperr.Storage("open asset", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, apperr.Storage("stat asset", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, apperr.NotFound("asset not found")
	}

	detected, err := mimetype.DetectReader(io.LimitReader(f, sniffLength))
	if err != nil {
		f.Close()
		return nil, apperr.Storage("detect asset type", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, apperr.Storage("rewind asset", err)
	}

	return &Object{Reader: f, ContentType: detected.String(), Size: info.Size()}, nil
}

// path resolves bucket and name under baseDir
func (s *DiskStore) path(bucket Bucket, name string) (string, error) {
	target := filepath.Join(s.baseDir, string(bucket), name)
	rel, err := filepath.Rel(s.baseDir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", apperr.Validation("asset path escapes the upload directory")
	}
	return target, nil
}
