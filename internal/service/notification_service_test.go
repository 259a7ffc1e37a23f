package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	dom "taskmanager/internal/domain"
	"taskmanager/internal/service"
)

func TestScanDue(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	ctx := context.Background()

	soon := f.createTask(t, alice.ID, service.TaskFields{Title: dom.Some("Pay rent"), DueDate: dueIn(f, 10*time.Hour)})
	f.createTask(t, alice.ID, service.TaskFields{Title: dom.Some("Far away"), DueDate: dueIn(f, 48*time.Hour)})
	f.createTask(t, alice.ID, service.TaskFields{Title: dom.Some("Overdue"), DueDate: dueIn(f, -time.Hour)})
	f.createTask(t, alice.ID, service.TaskFields{Title: dom.Some("Finished"), DueDate: dueIn(f, time.Hour), IsCompleted: dom.Some(true)})
	f.createTask(t, alice.ID, service.TaskFields{Title: dom.Some("Someday")})

	n, err := f.notes.ScanDueNow(ctx, alice.ID)
	if err != nil || n != 1 {
		t.Fatalf("first scan = %d, %v", n, err)
	}
	if n, _ := f.notes.ScanDueNow(ctx, alice.ID); n != 0 {
		t.Errorf("second scan created %d", n)
	}

	list, err := f.notes.List(ctx, alice.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("list = %+v, %v", list, err)
	}
	got := list[0]
	if got.TaskID != soon.ID || got.IsRead || got.Title != "Reminder: upcoming task" {
		t.Errorf("notification = %+v", got)
	}
	if got.Message != `Task "Pay rent" is due in 10 hours.` {
		t.Errorf("message = %q", got.Message)
	}
	if got.TaskTitle == nil || *got.TaskTitle != "Pay rent" {
		t.Errorf("task title = %v", got.TaskTitle)
	}
}

func TestScanDueWindowBoundsAndFloor(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	ctx := context.Background()

	f.createTask(t, alice.ID, service.TaskFields{Title: dom.Some("Edge"), DueDate: dueIn(f, service.DueWindow)})
	f.createTask(t, alice.ID, service.TaskFields{Title: dom.Some("Soonish"), DueDate: dueIn(f, 90*time.Minute)})

	n, err := f.notes.ScanDueNow(ctx, alice.ID)
	if err != nil || n != 2 {
		t.Fatalf("scan = %d, %v", n, err)
	}
	list, _ := f.notes.List(ctx, alice.ID)
	messages := map[string]bool{}
	for _, note := range list {
		messages[note.Message] = true
	}
	for _, want := range []string{`Task "Edge" is due in 24 hours.`, `Task "Soonish" is due in 1 hour.`} {
		if !messages[want] {
			t.Errorf("missing message %q in %v", want, messages)
		}
	}
}

func TestScanDueAfterRead(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	ctx := context.Background()
	f.createTask(t, alice.ID, service.TaskFields{Title: dom.Some("Pay rent"), DueDate: dueIn(f, 5*time.Hour)})

	if n, _ := f.notes.ScanDueNow(ctx, alice.ID); n != 1 {
		t.Fatalf("first scan = %d", n)
	}
	if n, err := f.notes.MarkAllRead(ctx, alice.ID); err != nil || n != 1 {
		t.Fatalf("mark all read = %d, %v", n, err)
	}
	if n, err := f.notes.MarkAllRead(ctx, alice.ID); err != nil || n != 0 {
		t.Errorf("second mark all read = %d, %v", n, err)
	}

	f.clock.Advance(time.Hour)
	if n, _ := f.notes.ScanDueNow(ctx, alice.ID); n != 1 {
		t.Errorf("scan after read = %d, want a fresh reminder", n)
	}
}

func TestScanDueIgnoresClearedDueDate(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	ctx := context.Background()
	task := f.createTask(t, alice.ID, service.TaskFields{Title: dom.Some("Pay rent"), DueDate: dueIn(f, 5*time.Hour)})

	if _, err := f.tasks.Update(ctx, alice.ID, task.ID, service.TaskFields{DueDate: dom.Null[string]()}); err != nil {
		t.Fatal(err)
	}
	if n, _ := f.notes.ScanDueNow(ctx, alice.ID); n != 0 {
		t.Errorf("scan created %d for a task without due date", n)
	}
}

func TestScanDueIsPerUser(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	ctx := context.Background()
	f.createTask(t, alice.ID, service.TaskFields{Title: dom.Some("Pay rent"), DueDate: dueIn(f, time.Hour)})

	if n, _ := f.notes.ScanDueNow(ctx, bob.ID); n != 0 {
		t.Errorf("bob's scan created %d", n)
	}
	if list, _ := f.notes.List(ctx, bob.ID); len(list) != 0 {
		t.Errorf("bob sees %+v", list)
	}
}

func TestNotificationMarkReadAndDelete(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	ctx := context.Background()
	f.createTask(t, alice.ID, service.TaskFields{Title: dom.Some("Pay rent"), DueDate: dueIn(f, time.Hour)})
	if _, err := f.notes.ScanDueNow(ctx, alice.ID); err != nil {
		t.Fatal(err)
	}
	list, _ := f.notes.List(ctx, alice.ID)
	id := list[0].ID

	if _, err := f.notes.MarkRead(ctx, bob.ID, id); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("bob mark read: %v", err)
	}
	n, err := f.notes.MarkRead(ctx, alice.ID, id)
	if err != nil || !n.IsRead {
		t.Fatalf("mark read = %+v, %v", n, err)
	}
	if _, err := f.notes.MarkRead(ctx, alice.ID, id); err != nil {
		t.Errorf("marking twice should succeed: %v", err)
	}

	if err := f.notes.Delete(ctx, bob.ID, id); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("bob delete: %v", err)
	}
	if err := f.notes.Delete(ctx, alice.ID, id); err != nil {
		t.Fatal(err)
	}
	if err := f.notes.Delete(ctx, alice.ID, id); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("second delete: %v", err)
	}
}
