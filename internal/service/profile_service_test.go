package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/publishing-api/internal/apperr"
	"github.com/publishing-api/internal/mocks"
)

func TestProfile_UpdateImageReplacesOld(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first, err := h.services.Profile.UpdateImage(ctx, readerID, pngUpload("me.png"))
	if err != nil {
		t.Fatalf("UpdateImage failed: %v", err)
	}
	oldURL := *first.ProfileImage
	if oldURL[:len("/uploads/profiles/")] != "/uploads/profiles/" {
		t.Errorf("Expected profiles bucket url, got %q", oldURL)
	}

	second, err := h.services.Profile.UpdateImage(ctx, readerID, pngUpload("me2.png"))
	if err != nil {
		t.Fatalf("UpdateImage failed: %v", err)
	}
	if h.assets.Has(oldURL) {
		t.Error("Expected previous image to be deleted")
	}
	if !h.assets.Has(*second.ProfileImage) {
		t.Error("Expected new image to be stored")
	}
	if got := h.store.Users[readerID].ProfileImage; got == nil || *got != *second.ProfileImage {
		t.Errorf("Expected user row to point at the new image, got %v", got)
	}
}

func TestProfile_UpdateImageFailureCompensates(t *testing.T) {
	h := newHarness(t)
	h.store.Fail(mocks.OpUserSetImage, errors.New("forced failure"))

	_, err := h.services.Profile.UpdateImage(context.Background(), readerID, pngUpload("me.png"))
	expectKind(t, err, apperr.KindPersistence)
	if h.assets.Count() != 0 {
		t.Error("Expected uploaded image to be removed")
	}
}

func TestProfile_UnknownUser(t *testing.T) {
	h := newHarness(t)

	_, err := h.services.Profile.UpdateImage(context.Background(), 999, pngUpload("me.png"))
	expectKind(t, err, apperr.KindNotFound)
	if h.assets.Count() != 0 {
		t.Error("Expected no upload for unknown user")
	}

	_, err = h.services.Profile.RemoveImage(context.Background(), 999)
	expectKind(t, err, apperr.KindNotFound)
}

func TestProfile_RemoveImage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	u, _ := h.services.Profile.UpdateImage(ctx, readerID, pngUpload("me.png"))
	url := *u.ProfileImage

	removed, err := h.services.Profile.RemoveImage(ctx, readerID)
	if err != nil {
		t.Fatalf("RemoveImage failed: %v", err)
	}
	if removed.ProfileImage != nil {
		t.Error("Expected profile image to be cleared")
	}
	if h.assets.Has(url) {
		t.Error("Expected image file to be deleted")
	}

	// Removing again is a no-op
	if _, err := h.services.Profile.RemoveImage(ctx, readerID); err != nil {
		t.Errorf("Expected idempotent remove, got %v", err)
	}
}
