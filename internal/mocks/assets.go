package mocks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"sync"

	"github.com/publishing-api/internal/apperr"
	"github.com/publishing-api/internal/assets"
)

// MockAssetStore is an in-memory assets.Store that records every call
type MockAssetStore struct {
	mu sync.Mutex

	Files   map[string][]byte
	Saved   []string
	Deleted []string

	SaveError   error
	DeleteError error

	seq int
}

// Verify interface compliance
var _ assets.Store = (*MockAssetStore)(nil)

func NewMockAssetStore() *MockAssetStore {
	return &MockAssetStore{Files: make(map[string][]byte)}
}

func (m *MockAssetStore) Save(ctx context.Context, bucket assets.Bucket, upload *assets.Upload) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveError != nil {
		return "", m.SaveError
	}
	if upload == nil || upload.Reader == nil {
		return "", apperr.Validation("no file provided")
	}
	data, err := io.ReadAll(upload.Reader)
	if err != nil {
		return "", apperr.Storage("read upload", err)
	}

	m.seq++
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	url := assets.URL(bucket, fmt.Sprintf("mock-%d%s", m.seq, ext))
	m.Files[url] = data
	m.Saved = append(m.Saved, url)
	return url, nil
}

// Open serves a stored file. Content type is guessed from the extension.
func (m *MockAssetStore) Open(ctx context.Context, url string) (*assets.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.Files[url]
	if !ok {
		return nil, apperr.NotFound("asset not found")
	}
	return &assets.Object{
		Reader:      io.NopCloser(bytes.NewReader(data)),
		ContentType: mime.TypeByExtension(filepath.Ext(url)),
		Size:        int64(len(data)),
	}, nil
}

func (m *MockAssetStore) Delete(ctx context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Deleted = append(m.Deleted, url)
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.Files, url)
	return nil
}

// Has reports whether url is currently stored
func (m *MockAssetStore) Has(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Files[url]
	return ok
}

// Count returns the number of stored files
func (m *MockAssetStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Files)
}
