package repo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	dom "taskmanager/internal/domain"
	"taskmanager/internal/repo"
	"taskmanager/internal/testutil"
	"taskmanager/internal/utils"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func mustUser(t *testing.T, s repo.Store, name string) dom.User {
	t.Helper()
	u, err := s.Users().Create(context.Background(), dom.User{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "hash",
		CreatedAt:    base,
	})
	if err != nil {
		t.Fatalf("creating user %s: %v", name, err)
	}
	return u
}

func mustTask(t *testing.T, s repo.Store, userID int64, title string, mod func(*dom.Task)) dom.Task {
	t.Helper()
	task := dom.Task{
		UserID:    userID,
		Title:     title,
		Priority:  dom.PriorityMedium,
		Category:  dom.DefaultCategory,
		CreatedAt: base,
		UpdatedAt: base,
	}
	if mod != nil {
		mod(&task)
	}
	out, err := s.Tasks().Create(context.Background(), task)
	if err != nil {
		t.Fatalf("creating task %s: %v", title, err)
	}
	return out
}

func due(d time.Duration) func(*dom.Task) {
	return func(t *dom.Task) {
		at := base.Add(d)
		t.DueDate = &at
	}
}

func TestUserRepo(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	alice := mustUser(t, s, "alice")
	if alice.ID == 0 || !alice.CreatedAt.Equal(base) || alice.LastLogin != nil {
		t.Errorf("created user = %+v", alice)
	}

	got, err := s.Users().GetByEmail(ctx, "alice@example.com")
	if err != nil || got.ID != alice.ID {
		t.Fatalf("GetByEmail: %+v, %v", got, err)
	}
	if _, err := s.Users().GetByID(ctx, 999); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("missing user: want ErrNotFound, got %v", err)
	}

	if ok, _ := s.Users().ExistsByEmail(ctx, "alice@example.com"); !ok {
		t.Error("ExistsByEmail should be true")
	}
	if ok, _ := s.Users().ExistsByUsername(ctx, "bob"); ok {
		t.Error("ExistsByUsername(bob) should be false")
	}

	_, err = s.Users().Create(ctx, dom.User{Username: "alice2", Email: "alice@example.com", PasswordHash: "h", CreatedAt: base})
	if !utils.IsUniqueViolation(err) {
		t.Errorf("duplicate email: want unique violation, got %v", err)
	}

	login := base.Add(time.Hour)
	if err := s.Users().SetLastLogin(ctx, alice.ID, login); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Users().GetByID(ctx, alice.ID)
	if got.LastLogin == nil || !got.LastLogin.Equal(login) {
		t.Errorf("last login = %v", got.LastLogin)
	}
}

func TestTaskRepoScopedToOwner(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")

	task := mustTask(t, s, alice.ID, "Pay rent", due(2*time.Hour))
	if task.DueDate == nil || !task.DueDate.Equal(base.Add(2*time.Hour)) {
		t.Errorf("due date round trip: %v", task.DueDate)
	}

	if _, err := s.Tasks().GetByID(ctx, bob.ID, task.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("cross-user get: want ErrNotFound, got %v", err)
	}
	if err := s.Tasks().Delete(ctx, bob.ID, task.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("cross-user delete: want ErrNotFound, got %v", err)
	}
	stolen := task
	stolen.UserID = bob.ID
	stolen.Title = "Mine now"
	if _, err := s.Tasks().Update(ctx, stolen); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("cross-user update: want ErrNotFound, got %v", err)
	}

	list, err := s.Tasks().List(ctx, bob.ID, dom.TaskFilter{})
	if err != nil || len(list) != 0 {
		t.Errorf("bob's list = %v, %v", list, err)
	}
}

func TestTaskRepoListOrderAndFilters(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")

	first := mustTask(t, s, alice.ID, "First", func(t *dom.Task) { t.Priority = dom.PriorityHigh })
	second := mustTask(t, s, alice.ID, "Second", func(t *dom.Task) { t.Category = "work" })
	third := mustTask(t, s, alice.ID, "Third", func(t *dom.Task) {
		t.CreatedAt = base.Add(time.Minute)
		t.IsCompleted = true
	})

	list, err := s.Tasks().List(ctx, alice.ID, dom.TaskFilter{})
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{third.ID, second.ID, first.ID}
	if len(list) != len(want) {
		t.Fatalf("len = %d", len(list))
	}
	for i := range want {
		if list[i].ID != want[i] {
			t.Errorf("list[%d] = %d, want %d", i, list[i].ID, want[i])
		}
	}

	high := dom.PriorityHigh
	work := "work"
	done := true
	tests := []struct {
		name   string
		filter dom.TaskFilter
		want   int64
	}{
		{"priority", dom.TaskFilter{Priority: &high}, first.ID},
		{"category", dom.TaskFilter{Category: &work}, second.ID},
		{"completed", dom.TaskFilter{Completed: &done}, third.ID},
	}
	for _, tt := range tests {
		got, err := s.Tasks().List(ctx, alice.ID, tt.filter)
		if err != nil || len(got) != 1 || got[0].ID != tt.want {
			t.Errorf("%s: got %v, %v", tt.name, got, err)
		}
	}
}

func TestTaskRepoDueBetween(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")

	soon := mustTask(t, s, alice.ID, "Soon", due(2*time.Hour))
	edge := mustTask(t, s, alice.ID, "Edge", due(24*time.Hour))
	mustTask(t, s, alice.ID, "Later", due(30*time.Hour))
	mustTask(t, s, alice.ID, "Overdue", due(-time.Hour))
	mustTask(t, s, alice.ID, "No date", nil)
	mustTask(t, s, alice.ID, "Done", func(t *dom.Task) {
		due(time.Hour)(t)
		t.IsCompleted = true
	})

	list, err := s.Tasks().DueBetween(ctx, alice.ID, base, base.Add(24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != soon.ID || list[1].ID != edge.ID {
		t.Errorf("DueBetween = %+v", list)
	}
}

func TestNotificationRepoUnreadUniqueness(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	task := mustTask(t, s, alice.ID, "Pay rent", due(time.Hour))

	n := dom.Notification{UserID: alice.ID, TaskID: task.ID, Title: "Reminder", Message: "soon", CreatedAt: base}
	first, inserted, err := s.Notifications().Create(ctx, n)
	if err != nil || !inserted {
		t.Fatalf("first create: %v, %v", inserted, err)
	}
	if _, inserted, err := s.Notifications().Create(ctx, n); err != nil || inserted {
		t.Errorf("second unread create: inserted=%v err=%v", inserted, err)
	}
	if ok, _ := s.Notifications().HasUnread(ctx, alice.ID, task.ID); !ok {
		t.Error("HasUnread should be true")
	}

	read, err := s.Notifications().MarkRead(ctx, alice.ID, first.ID)
	if err != nil || !read.IsRead {
		t.Fatalf("MarkRead: %+v, %v", read, err)
	}
	if read.TaskTitle == nil || *read.TaskTitle != "Pay rent" {
		t.Errorf("task title = %v", read.TaskTitle)
	}
	if _, inserted, err := s.Notifications().Create(ctx, n); err != nil || !inserted {
		t.Errorf("create after read: inserted=%v err=%v", inserted, err)
	}

	list, err := s.Notifications().List(ctx, alice.ID)
	if err != nil || len(list) != 2 {
		t.Fatalf("List = %v, %v", list, err)
	}
	count, err := s.Notifications().MarkAllRead(ctx, alice.ID)
	if err != nil || count != 1 {
		t.Errorf("MarkAllRead = %d, %v", count, err)
	}
}

func TestNotificationRepoScopedToOwner(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	task := mustTask(t, s, alice.ID, "Pay rent", nil)
	n, _, err := s.Notifications().Create(ctx, dom.Notification{UserID: alice.ID, TaskID: task.ID, Title: "t", Message: "m", CreatedAt: base})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Notifications().MarkRead(ctx, bob.ID, n.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("cross-user mark read: %v", err)
	}
	if err := s.Notifications().Delete(ctx, bob.ID, n.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("cross-user delete: %v", err)
	}
	if err := s.Notifications().Delete(ctx, alice.ID, n.ID); err != nil {
		t.Errorf("owner delete: %v", err)
	}
}

func TestTaskDeleteCascadesNotifications(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	task := mustTask(t, s, alice.ID, "Pay rent", nil)
	if _, _, err := s.Notifications().Create(ctx, dom.Notification{UserID: alice.ID, TaskID: task.ID, Title: "t", Message: "m", CreatedAt: base}); err != nil {
		t.Fatal(err)
	}

	if err := s.Tasks().Delete(ctx, alice.ID, task.ID); err != nil {
		t.Fatal(err)
	}
	list, err := s.Notifications().List(ctx, alice.ID)
	if err != nil || len(list) != 0 {
		t.Errorf("notifications after task delete = %v, %v", list, err)
	}
}

func TestWithTxRollsBack(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx repo.Store) error {
		mustTask(t, tx, alice.ID, "Ghost", nil)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx err = %v", err)
	}
	list, _ := s.Tasks().List(ctx, alice.ID, dom.TaskFilter{})
	if len(list) != 0 {
		t.Errorf("rolled back task is visible: %+v", list)
	}

	err = s.WithTx(ctx, func(tx repo.Store) error {
		mustTask(t, tx, alice.ID, "Kept", nil)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	list, _ = s.Tasks().List(ctx, alice.ID, dom.TaskFilter{})
	if len(list) != 1 {
		t.Errorf("committed task missing: %+v", list)
	}
}

func TestPing(t *testing.T) {
	s := testutil.NewTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestUserDeleteCascades(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	task := mustTask(t, s, alice.ID, "Pay rent", nil)
	mustTask(t, s, bob.ID, "Walk dog", nil)
	if _, _, err := s.Notifications().Create(ctx, dom.Notification{UserID: alice.ID, TaskID: task.ID, Title: "t", Message: "m", CreatedAt: base}); err != nil {
		t.Fatal(err)
	}

	if _, err := s.DB().ExecContext(ctx, `DELETE FROM users WHERE id = ?`, alice.ID); err != nil {
		t.Fatal(err)
	}

	counts := map[string]int{}
	for _, table := range []string{"tasks", "notifications"} {
		var n int
		if err := s.DB().GetContext(ctx, &n, `SELECT COUNT(*) FROM `+table+` WHERE user_id = ?`, alice.ID); err != nil {
			t.Fatal(err)
		}
		counts[table] = n
	}
	if counts["tasks"] != 0 || counts["notifications"] != 0 {
		t.Errorf("rows left after user delete: %v", counts)
	}
	if list, _ := s.Tasks().List(ctx, bob.ID, dom.TaskFilter{}); len(list) != 1 {
		t.Errorf("bob's tasks affected: %+v", list)
	}
}
