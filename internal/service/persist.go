package service

import (
	"errors"
	"log/slog"

	"taskmanager/internal/repo"
)

// classify passes domain errors through unchanged and turns everything
// else into a logged PersistenceError.
func classify(log *slog.Logger, op string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	var ce *ConflictError
	switch {
	case errors.As(err, &ve), errors.As(err, &ce),
		errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidCredentials):
		return err
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound
	}
	log.Error("persistence failure", "op", op, "err", err)
	return &PersistenceError{Op: op, Err: err}
}
