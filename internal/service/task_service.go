package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"taskmanager/internal/clock"
	dom "taskmanager/internal/domain"
	"taskmanager/internal/repo"

	"golang.org/x/sync/singleflight"
)

// TaskFields carries task input. Unset fields keep their current (or
// default) value; Null is accepted only for Description and DueDate.
type TaskFields struct {
	Title       dom.Optional[string]
	Description dom.Optional[string]
	Priority    dom.Optional[string]
	DueDate     dom.Optional[string]
	Category    dom.Optional[string]
	IsCompleted dom.Optional[bool]
}

// TaskListCache holds each user's unfiltered task list. *cache.TaskCache
// implements it over Redis. GetList returns nil on a miss.
type TaskListCache interface {
	GetList(ctx context.Context, userID int64) ([]dom.Task, error)
	SetList(ctx context.Context, userID int64, list []dom.Task) error
	Invalidate(ctx context.Context, userID int64) error
}

type TaskService struct {
	store repo.Store
	cache TaskListCache
	sf    singleflight.Group
	clock clock.Clock
	log   *slog.Logger
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(store repo.Store, c TaskListCache, clk clock.Clock, log *slog.Logger) *TaskService {
	return &TaskService{store: store, cache: c, clock: clk, log: log}
}

// applyTaskFields validates f and writes it onto t. Nothing is written to t unless
// every field is valid.
func applyTaskFields(t *dom.Task, f TaskFields, creating bool) error {
	out := *t

	switch {
	case f.Title.Set && f.Title.Null, creating && !f.Title.Set:
		return invalid("title is required")
	case f.Title.Set:
		title, err := validateTitle(f.Title.Value)
		if err != nil {
			return err
		}
		out.Title = title
	}

	if f.Description.Set {
		if f.Description.Null {
			out.Description = nil
		} else {
			d := f.Description.Value
			out.Description = &d
		}
	}

	if f.Priority.Set {
		if f.Priority.Null {
			return invalid("priority must be high, medium, or low")
		}
		p, err := validatePriority(f.Priority.Value)
		if err != nil {
			return err
		}
		out.Priority = p
	}

	if f.DueDate.Set {
		if f.DueDate.Null || strings.TrimSpace(f.DueDate.Value) == "" {
			out.DueDate = nil
		} else {
			due, err := ParseDueDate(f.DueDate.Value)
			if err != nil {
				return err
			}
			out.DueDate = &due
		}
	}

	if f.Category.Set {
		if f.Category.Null {
			return invalid("category cannot be null")
		}
		c, err := validateCategory(f.Category.Value)
		if err != nil {
			return err
		}
		out.Category = c
	}

	if f.IsCompleted.Set {
		if f.IsCompleted.Null {
			return invalid("is_completed cannot be null")
		}
		out.IsCompleted = f.IsCompleted.Value
	}

	*t = out
	return nil
}

func (s *TaskService) Create(ctx context.Context, userID int64, f TaskFields) (dom.Task, error) {
	now := s.clock.Now()
	t := dom.Task{
		UserID:    userID,
		Priority:  dom.PriorityMedium,
		Category:  dom.DefaultCategory,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := applyTaskFields(&t, f, true); err != nil {
		return dom.Task{}, err
	}

	var created dom.Task
	err := s.store.WithTx(ctx, func(tx repo.Store) error {
		var err error
		created, err = tx.Tasks().Create(ctx, t)
		return err
	})
	if err != nil {
		return dom.Task{}, classify(s.log, "create task", err)
	}
	s.invalidateCache(ctx, userID)
	return created, nil
}

// List returns the user's tasks, newest first. The unfiltered list is
// served from the cache when one is configured.
func (s *TaskService) List(ctx context.Context, userID int64, f dom.TaskFilter) ([]dom.Task, error) {
	if s.cache != nil && f.IsZero() {
		key := "list:" + strconv.FormatInt(userID, 10)
		// Collapsed callers share this fetch, so it must not die with
		// whichever request started it.
		sfCtx := context.WithoutCancel(ctx)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(sfCtx, userID); err == nil && list != nil {
				return list, nil
			}
			list, err := s.store.Tasks().List(sfCtx, userID, f)
			if err != nil {
				return nil, err
			}
			if err := s.cache.SetList(sfCtx, userID, list); err != nil {
				s.log.Warn("task cache set failed", "user_id", userID, "err", err)
			}
			return list, nil
		})
		if err != nil {
			return nil, classify(s.log, "list tasks", err)
		}
		return v.([]dom.Task), nil
	}
	list, err := s.store.Tasks().List(ctx, userID, f)
	if err != nil {
		return nil, classify(s.log, "list tasks", err)
	}
	return list, nil
}

func (s *TaskService) GetByID(ctx context.Context, userID, id int64) (dom.Task, error) {
	t, err := s.store.Tasks().GetByID(ctx, userID, id)
	if err != nil {
		return dom.Task{}, classify(s.log, "get task", err)
	}
	return t, nil
}

// Update applies a partial update to a task owned by userID.
func (s *TaskService) Update(ctx context.Context, userID, id int64, f TaskFields) (dom.Task, error) {
	var updated dom.Task
	err := s.store.WithTx(ctx, func(tx repo.Store) error {
		t, err := tx.Tasks().GetByID(ctx, userID, id)
		if err != nil {
			return err
		}
		if err := applyTaskFields(&t, f, false); err != nil {
			return err
		}
		t.UpdatedAt = s.clock.Now()
		updated, err = tx.Tasks().Update(ctx, t)
		return err
	})
	if err != nil {
		return dom.Task{}, classify(s.log, "update task", err)
	}
	s.invalidateCache(ctx, userID)
	return updated, nil
}

// Delete removes the task; its notifications go with it through the
// foreign key cascade.
func (s *TaskService) Delete(ctx context.Context, userID, id int64) error {
	err := s.store.WithTx(ctx, func(tx repo.Store) error {
		return tx.Tasks().Delete(ctx, userID, id)
	})
	if err != nil {
		return classify(s.log, "delete task", err)
	}
	s.invalidateCache(ctx, userID)
	return nil
}

func (s *TaskService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			s.log.Warn("task cache invalidate failed", "user_id", userID, "err", err)
		}
	}
}
