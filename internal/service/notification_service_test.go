package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/publishing-api/internal/apperr"
	"github.com/publishing-api/internal/models"
)

func seedNotifications(t *testing.T, h *harness, recipientID int64, n int) []*models.Notification {
	t.Helper()
	var out []*models.Notification
	for i := 0; i < n; i++ {
		note, err := h.services.Notification.Notify(context.Background(), recipientID, models.NotificationSystem, "Hello", "msg", nil)
		if err != nil {
			t.Fatalf("Notify failed: %v", err)
		}
		out = append(out, note)
	}
	return out
}

func TestNotification_Notify(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	n, err := h.services.Notification.Notify(ctx, readerID, models.NotificationMention, "You were mentioned", "", map[string]any{"link": "/articles/x"})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if n.ID == 0 || n.IsRead {
		t.Errorf("Unexpected notification %+v", n)
	}
	if string(n.Payload) != `{"link":"/articles/x"}` {
		t.Errorf("Unexpected payload %s", n.Payload)
	}

	empty, _ := h.services.Notification.Notify(ctx, readerID, models.NotificationSystem, "Plain", "", nil)
	if string(empty.Payload) != "{}" {
		t.Errorf("Expected empty object payload, got %s", empty.Payload)
	}
}

func TestNotification_NotifyValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.services.Notification.Notify(ctx, readerID, models.NotificationType("spam"), "t", "", nil)
	expectKind(t, err, apperr.KindValidation)

	_, err = h.services.Notification.Notify(ctx, readerID, models.NotificationSystem, " ", "", nil)
	expectKind(t, err, apperr.KindValidation)

	_, err = h.services.Notification.Notify(ctx, 0, models.NotificationSystem, "t", "", nil)
	expectKind(t, err, apperr.KindValidation)

	_, err = h.services.Notification.Notify(ctx, readerID, models.NotificationSystem, "t", "", make(chan int))
	expectKind(t, err, apperr.KindValidation)
}

func TestNotification_MarkAllReadThenListUnread(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	seedNotifications(t, h, readerID, 3)

	changed, err := h.services.Notification.MarkAllRead(ctx, readerID)
	if err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if changed != 3 {
		t.Errorf("Expected 3 changed, got %d", changed)
	}

	page, err := h.services.Notification.List(ctx, readerID, models.FilterUnread, models.Pagination{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page.Items) != 0 {
		t.Errorf("Expected no unread items, got %d", len(page.Items))
	}
	if page.UnreadCount != 0 {
		t.Errorf("Expected unread count 0, got %d", page.UnreadCount)
	}
}

func TestNotification_ListFilters(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	notes := seedNotifications(t, h, readerID, 3)
	seedNotifications(t, h, authorID, 2)

	if err := h.services.Notification.MarkRead(ctx, notes[0].ID, readerID); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}

	tests := []struct {
		filter models.NotificationFilter
		want   int
	}{
		{"", 3},
		{models.FilterAll, 3},
		{models.FilterUnread, 2},
		{models.FilterRead, 1},
	}
	for _, tt := range tests {
		page, err := h.services.Notification.List(ctx, readerID, tt.filter, models.Pagination{})
		if err != nil {
			t.Fatalf("List(%q) failed: %v", tt.filter, err)
		}
		if len(page.Items) != tt.want {
			t.Errorf("List(%q): expected %d items, got %d", tt.filter, tt.want, len(page.Items))
		}
		if page.UnreadCount != 2 {
			t.Errorf("List(%q): expected unread count 2, got %d", tt.filter, page.UnreadCount)
		}
	}

	paged, _ := h.services.Notification.List(ctx, readerID, models.FilterAll, models.Pagination{Limit: 1, Offset: 0})
	if len(paged.Items) != 1 || paged.Items[0].ID != notes[2].ID {
		t.Errorf("Expected newest notification first, got %+v", paged.Items)
	}

	_, err := h.services.Notification.List(ctx, readerID, "archived", models.Pagination{})
	expectKind(t, err, apperr.KindValidation)
}

func TestNotification_ScopedToRecipient(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	notes := seedNotifications(t, h, readerID, 1)

	expectKind(t, h.services.Notification.MarkRead(ctx, notes[0].ID, authorID), apperr.KindNotFound)
	expectKind(t, h.services.Notification.Delete(ctx, notes[0].ID, authorID), apperr.KindNotFound)

	count, _ := h.services.Notification.UnreadCount(ctx, readerID)
	if count != 1 {
		t.Errorf("Expected other user's actions to have no effect, unread = %d", count)
	}

	if err := h.services.Notification.Delete(ctx, notes[0].ID, readerID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	expectKind(t, h.services.Notification.Delete(ctx, notes[0].ID, readerID), apperr.KindNotFound)
}

func TestNotification_UnreadCount(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	notes := seedNotifications(t, h, readerID, 4)

	h.services.Notification.MarkRead(ctx, notes[1].ID, readerID)
	h.services.Notification.MarkRead(ctx, notes[1].ID, readerID)

	count, err := h.services.Notification.UnreadCount(ctx, readerID)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 unread, got %d", count)
	}
}

func TestNotification_SendIsAdminOnly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	input := models.NotificationInput{
		RecipientID: readerID,
		Title:       "Maintenance",
		Message:     "The site is read-only tonight",
		Payload:     json.RawMessage(`{"window":"22:00-23:00"}`),
	}

	_, err := h.services.Notification.Send(ctx, author, input)
	expectKind(t, err, apperr.KindForbidden)

	n, err := h.services.Notification.Send(ctx, admin, input)
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if n.Type != models.NotificationSystem {
		t.Errorf("Expected default system type, got %s", n.Type)
	}
	if string(n.Payload) != `{"window":"22:00-23:00"}` {
		t.Errorf("Unexpected payload %s", n.Payload)
	}
	if notes := h.store.NotificationsFor(readerID); len(notes) != 1 {
		t.Errorf("Expected 1 notification for reader, got %d", len(notes))
	}
}

func TestNotification_SendValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   models.NotificationInput
		kind apperr.Kind
	}{
		{"missing recipient", models.NotificationInput{Title: "t", Message: "m"}, apperr.KindValidation},
		{"missing message", models.NotificationInput{RecipientID: readerID, Title: "t"}, apperr.KindValidation},
		{"missing title", models.NotificationInput{RecipientID: readerID, Message: "m"}, apperr.KindValidation},
		{"unknown type", models.NotificationInput{RecipientID: readerID, Type: "spam", Title: "t", Message: "m"}, apperr.KindValidation},
		{"unknown recipient", models.NotificationInput{RecipientID: 999, Title: "t", Message: "m"}, apperr.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.services.Notification.Send(ctx, admin, tt.in)
			expectKind(t, err, tt.kind)
		})
	}
}
