package service_test

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/publishing-api/internal/apperr"
	"github.com/publishing-api/internal/assets"
	"github.com/publishing-api/internal/auth"
	"github.com/publishing-api/internal/mocks"
	"github.com/publishing-api/internal/models"
	"github.com/publishing-api/internal/service"
	"github.com/publishing-api/internal/viewcount"
	"github.com/rs/zerolog"
)

const (
	authorID int64 = 42
	readerID int64 = 7
	adminID  int64 = 1
)

var (
	author = &auth.Principal{UserID: authorID, Role: "user"}
	reader = &auth.Principal{UserID: readerID, Role: "user"}
	admin  = &auth.Principal{UserID: adminID, Role: models.RoleAdmin}
)

type harness struct {
	services *service.Services
	store    *mocks.Store
	assets   *mocks.MockAssetStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithAssets(t, mocks.NewMockAssetStore())
}

// newHarnessWithAssets builds services over a seeded in-memory store and the
// given asset store. When store is a *mocks.MockAssetStore it is exposed on
// the harness.
func newHarnessWithAssets(t *testing.T, store assets.Store) *harness {
	t.Helper()

	db := mocks.NewStore()
	db.AddUser(authorID, "author", "user")
	db.AddUser(readerID, "reader", "user")
	db.AddUser(adminID, "admin", models.RoleAdmin)
	db.AddCategory(1, "news")
	db.AddCategory(2, "tech")

	h := &harness{
		services: service.NewServices(db.Repositories(), store, viewcount.NewMemoryWindow(1000, time.Hour), zerolog.Nop()),
		store:    db,
	}
	if m, ok := store.(*mocks.MockAssetStore); ok {
		h.assets = m
	}
	return h
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func pngUpload(name string) *assets.Upload {
	return &assets.Upload{Filename: name, Size: int64(len(pngBytes)), Reader: bytes.NewReader(pngBytes)}
}

func draftInput(title string) models.ArticleInput {
	return models.ArticleInput{
		Title:      strPtr(title),
		Content:    strPtr("Body of " + title),
		CategoryID: int64Ptr(1),
	}
}

func publishedInput(title string) models.ArticleInput {
	in := draftInput(title)
	in.Status = strPtr("published")
	return in
}

func expectKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected %s error, got nil", kind)
	}
	if got := apperr.KindOf(err); got != kind {
		t.Fatalf("Expected %s error, got %s (%v)", kind, got, err)
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
