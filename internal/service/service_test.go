package service_test

import (
	"context"
	"testing"
	"time"

	"taskmanager/internal/clock"
	dom "taskmanager/internal/domain"
	"taskmanager/internal/logging"
	"taskmanager/internal/repo"
	"taskmanager/internal/service"
	"taskmanager/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store *repo.SQLiteStore
	clock *clock.Fake
	users *service.UserService
	tasks *service.TaskService
	notes *service.NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewTestStore(t)
	clk := clock.NewFake(epoch)
	log := logging.Discard()
	return &fixture{
		store: store,
		clock: clk,
		users: service.NewUserService(store, clk, log).WithHashCost(bcrypt.MinCost),
		tasks: service.NewTaskService(store, nil, clk, log),
		notes: service.NewNotificationService(store, clk, log),
	}
}

func (f *fixture) register(t *testing.T, name string) dom.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), name, name+"@example.com", "password123")
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return u
}

func (f *fixture) createTask(t *testing.T, userID int64, fields service.TaskFields) dom.Task {
	t.Helper()
	task, err := f.tasks.Create(context.Background(), userID, fields)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func dueIn(f *fixture, d time.Duration) dom.Optional[string] {
	return dom.Some(f.clock.Now().Add(d).Format(time.RFC3339))
}
