package assets

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/publishing-api/internal/apperr"
	"github.com/publishing-api/internal/config"
	"github.com/rs/zerolog"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func pngUpload(name string, size int) *Upload {
	data := make([]byte, size)
	copy(data, pngHeader)
	return &Upload{Filename: name, Size: int64(size), Reader: bytes.NewReader(data)}
}

func newTestStore(t *testing.T) *DiskStore {
	t.Helper()
	store, err := NewDiskStore(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewDiskStore failed: %v", err)
	}
	return store
}

func filesIn(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestFileName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	pattern := regexp.MustCompile(`^([a-z0-9-]+)-1700000000123-[0-9a-f]{8}(\.[a-z]+)$`)

	tests := []struct {
		original string
		wantBase string
		wantExt  string
	}{
		{"My Holiday Photo.PNG", "my-holiday-photo", ".png"},
		{"???.jpg", "image", ".jpg"},
		{".webp", "image", ".webp"},
		{strings.Repeat("a", 80) + ".gif", strings.Repeat("a", 50), ".gif"},
		{"../../etc/passwd.jpeg", "passwd", ".jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.original, func(t *testing.T) {
			got := FileName(tt.original, now)
			m := pattern.FindStringSubmatch(got)
			if m == nil {
				t.Fatalf("FileName(%q) = %q, does not match pattern", tt.original, got)
			}
			if m[1] != tt.wantBase {
				t.Errorf("base = %q, want %q", m[1], tt.wantBase)
			}
			if m[2] != tt.wantExt {
				t.Errorf("ext = %q, want %q", m[2], tt.wantExt)
			}
		})
	}
}

func TestFileName_Unique(t *testing.T) {
	now := time.Now()
	if FileName("a.png", now) == FileName("a.png", now) {
		t.Error("Expected distinct names for the same input and time")
	}
}

func TestParseURL(t *testing.T) {
	bucket, name, err := ParseURL("/uploads/articles/photo-1-abcdef12.png")
	if err != nil {
		t.Fatalf("ParseURL failed: %v", err)
	}
	if bucket != BucketArticles || name != "photo-1-abcdef12.png" {
		t.Errorf("got (%s, %s)", bucket, name)
	}

	invalid := []string{
		"",
		"/static/articles/a.png",
		"/uploads/other/a.png",
		"/uploads/articles/",
		"/uploads/articles/../../secret",
		"/uploads/articles/..",
		"/uploads/articles/a/b.png",
		`/uploads/articles/..\secret`,
	}
	for _, u := range invalid {
		if _, _, err := ParseURL(u); err == nil {
			t.Errorf("ParseURL(%q) expected error", u)
		}
	}
}

func TestDiskStore_Save(t *testing.T) {
	store := newTestStore(t)

	url, err := store.Save(context.Background(), BucketArticles, pngUpload("Cover Image.png", 128))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if !strings.HasPrefix(url, "/uploads/articles/cover-image-") || !strings.HasSuffix(url, ".png") {
		t.Errorf("Unexpected url %q", url)
	}

	files := filesIn(t, filepath.Join(store.BaseDir(), "articles"))
	if len(files) != 1 {
		t.Fatalf("Expected 1 file, got %v", files)
	}
	if "/uploads/articles/"+files[0] != url {
		t.Errorf("Stored file %q does not match url %q", files[0], url)
	}
}

func TestDiskStore_SaveRejections(t *testing.T) {
	tests := []struct {
		name   string
		bucket Bucket
		upload *Upload
	}{
		{"unknown bucket", Bucket("videos"), pngUpload("a.png", 64)},
		{"nil upload", BucketArticles, nil},
		{"bad extension", BucketArticles, pngUpload("a.exe", 64)},
		{"no extension", BucketArticles, pngUpload("a", 64)},
		{"content not an image", BucketArticles, &Upload{Filename: "a.png", Size: 11, Reader: strings.NewReader("hello world")}},
		{"empty", BucketArticles, &Upload{Filename: "a.png", Reader: bytes.NewReader(nil)}},
		{"claimed size over profile limit", BucketProfiles, pngUpload("a.png", 2<<20+1)},
		{"actual size over limit", BucketProfiles, &Upload{
			Filename: "a.png",
			Size:     10,
			Reader:   bytes.NewReader(append(append([]byte{}, pngHeader...), make([]byte, 2<<20)...)),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			_, err := store.Save(context.Background(), tt.bucket, tt.upload)
			if !apperr.Is(err, apperr.KindValidation) {
				t.Fatalf("Expected validation error, got %v", err)
			}
			for _, b := range []Bucket{BucketArticles, BucketProfiles} {
				if files := filesIn(t, filepath.Join(store.BaseDir(), string(b))); len(files) != 0 {
					t.Errorf("Expected no files in %s, got %v", b, files)
				}
			}
		})
	}
}

func TestDiskStore_ArticleLimitAllowsLargerThanProfile(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Save(context.Background(), BucketArticles, pngUpload("big.png", 3<<20)); err != nil {
		t.Fatalf("Expected 3 MB article image to be accepted: %v", err)
	}
}

func TestDiskStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	url, err := store.Save(ctx, BucketProfiles, pngUpload("me.png", 64))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := store.Delete(ctx, url); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if files := filesIn(t, filepath.Join(store.BaseDir(), "profiles")); len(files) != 0 {
		t.Errorf("Expected file to be removed, got %v", files)
	}

	// Second delete is a no-op
	if err := store.Delete(ctx, url); err != nil {
		t.Errorf("Expected idempotent delete, got %v", err)
	}
}

func TestDiskStore_DeleteRefusesEscapes(t *testing.T) {
	store := newTestStore(t)

	outside := filepath.Join(filepath.Dir(store.BaseDir()), "keep.txt")
	if err := os.WriteFile(outside, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if err := store.Delete(context.Background(), "/uploads/articles/../../keep.txt"); err == nil {
		t.Error("Expected error for escaping path")
	}
	if _, err := os.Stat(outside); err != nil {
		t.Errorf("File outside the store was touched: %v", err)
	}
}

func TestDiskStore_Open(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	url, err := store.Save(ctx, BucketArticles, pngUpload("cover.png", 256))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	obj, err := store.Open(ctx, url)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer obj.Reader.Close()

	if obj.ContentType != "image/png" {
		t.Errorf("Expected image/png, got %q", obj.ContentType)
	}
	if obj.Size != 256 {
		t.Errorf("Expected size 256, got %d", obj.Size)
	}
	data, err := io.ReadAll(obj.Reader)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(data) != 256 || !bytes.HasPrefix(data, pngHeader) {
		t.Errorf("Expected the full stored file back, got %d bytes", len(data))
	}

	if _, err := store.Open(ctx, "/uploads/articles/missing.png"); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Expected not found for missing file, got %v", err)
	}
	if _, err := store.Open(ctx, "/uploads/articles/../../keep.txt"); err == nil {
		t.Error("Expected error for escaping path")
	}
}

func TestNew(t *testing.T) {
	store, err := New(context.Background(), config.AssetsConfig{Backend: "disk", UploadDir: t.TempDir()}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok := store.(*DiskStore); !ok {
		t.Errorf("Expected *DiskStore, got %T", store)
	}

	if _, err := New(context.Background(), config.AssetsConfig{Backend: "ftp"}, zerolog.Nop()); err == nil {
		t.Error("Expected error for unknown backend")
	}
}
