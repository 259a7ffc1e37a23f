package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"taskmanager/internal/clock"
	dom "taskmanager/internal/domain"
	"taskmanager/internal/repo"
)

const (
	// DueWindow is how far ahead the due-task scan looks.
	DueWindow = 24 * time.Hour

	reminderTitle = "Reminder: upcoming task"
)

// NotificationService generates due-date reminders and manages a user's
// notifications.
type NotificationService struct {
	store repo.Store
	clock clock.Clock
	log   *slog.Logger
}

func NewNotificationService(store repo.Store, clk clock.Clock, log *slog.Logger) *NotificationService {
	return &NotificationService{store: store, clock: clk, log: log}
}

func reminderMessage(title string, hours int) string {
	unit := "hours"
	if hours == 1 {
		unit = "hour"
	}
	return fmt.Sprintf("Task %q is due in %d %s.", title, hours, unit)
}

// ScanDueNow runs ScanDue at the service clock's current time.
func (s *NotificationService) ScanDueNow(ctx context.Context, userID int64) (int, error) {
	return s.ScanDue(ctx, userID, s.clock.Now())
}

// ScanDue creates one unread reminder for each of the user's incomplete
// tasks due within [now, now+DueWindow] that does not already have one,
// and returns how many were created.
func (s *NotificationService) ScanDue(ctx context.Context, userID int64, now time.Time) (int, error) {
	now = now.UTC()
	created := 0
	err := s.store.WithTx(ctx, func(tx repo.Store) error {
		created = 0
		tasks, err := tx.Tasks().DueBetween(ctx, userID, now, now.Add(DueWindow))
		if err != nil {
			return err
		}
		notes := tx.Notifications()
		for _, t := range tasks {
			exists, err := notes.HasUnread(ctx, userID, t.ID)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			hours := int(t.DueDate.Sub(now) / time.Hour)
			_, inserted, err := notes.Create(ctx, dom.Notification{
				UserID:    userID,
				TaskID:    t.ID,
				Title:     reminderTitle,
				Message:   reminderMessage(t.Title, hours),
				CreatedAt: now,
			})
			if err != nil {
				return err
			}
			if inserted {
				created++
			}
		}
		return nil
	})
	if err != nil {
		return 0, classify(s.log, "scan due tasks", err)
	}
	if created > 0 {
		s.log.Info("due-task reminders created", "user_id", userID, "count", created)
	}
	return created, nil
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID int64) ([]dom.Notification, error) {
	list, err := s.store.Notifications().List(ctx, userID)
	if err != nil {
		return nil, classify(s.log, "list notifications", err)
	}
	return list, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id int64) (dom.Notification, error) {
	var n dom.Notification
	err := s.store.WithTx(ctx, func(tx repo.Store) error {
		var err error
		n, err = tx.Notifications().MarkRead(ctx, userID, id)
		return err
	})
	if err != nil {
		return dom.Notification{}, classify(s.log, "mark notification read", err)
	}
	return n, nil
}

// MarkAllRead marks every unread notification of the user as read in one
// statement and returns how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := s.store.WithTx(ctx, func(tx repo.Store) error {
		var err error
		n, err = tx.Notifications().MarkAllRead(ctx, userID)
		return err
	})
	if err != nil {
		return 0, classify(s.log, "mark all notifications read", err)
	}
	return n, nil
}

func (s *NotificationService) Delete(ctx context.Context, userID, id int64) error {
	err := s.store.WithTx(ctx, func(tx repo.Store) error {
		return tx.Notifications().Delete(ctx, userID, id)
	})
	if err != nil {
		return classify(s.log, "delete notification", err)
	}
	return nil
}
