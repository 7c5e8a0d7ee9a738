package services

import (
	"context"
	"errors"
	"testing"

	"github.com/theleywin/Backend-Skill-Barter/src/models"
	"github.com/theleywin/Backend-Skill-Barter/src/testfixtures"
)

func TestNotificationService(t *testing.T) {
	t.Parallel()

	db := testfixtures.NewDB(t)
	alice := testfixtures.CreateUser(t, db, "alice", 5)
	bob := testfixtures.CreateUser(t, db, "bob", 5)
	svc := &NotificationService{DB: db, Logger: testfixtures.DiscardLogger()}
	ctx := context.Background()

	svc.Notify(ctx, alice.ID, models.NotificationTypeConnectionRequested, bob.ID, 1)
	svc.Notify(ctx, alice.ID, models.NotificationTypeSessionCompleted, bob.ID, 1)
	svc.Notify(ctx, bob.ID, models.NotificationTypeConnectionAccepted, alice.ID, 1)

	list, err := svc.List(ctx, alice.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 notifications for alice, got %d", len(list))
	}

	read, err := svc.MarkRead(ctx, alice.ID, list[0].ID)
	if err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if !read.Read {
		t.Fatal("expected notification to be marked read")
	}

	bobs, _ := svc.List(ctx, bob.ID)
	if _, err := svc.MarkRead(ctx, alice.ID, bobs[0].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound marking someone else's notification, got %v", err)
	}
	if err := svc.Delete(ctx, alice.ID, bobs[0].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting someone else's notification, got %v", err)
	}

	if err := svc.Delete(ctx, alice.ID, list[1].ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	list, _ = svc.List(ctx, alice.ID)
	if len(list) != 1 {
		t.Fatalf("expected 1 notification after delete, got %d", len(list))
	}

	var nilService *NotificationService
	nilService.Notify(ctx, alice.ID, models.NotificationTypeConnectionRequested, bob.ID, 1)
}
