package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"taskmanager/internal/clock"
	dom "taskmanager/internal/domain"
	"taskmanager/internal/repo"
	"taskmanager/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles registration, login and profile lookups.
type UserService struct {
	store repo.Store
	clock clock.Clock
	log   *slog.Logger
	cost  int
}

// NewUserService returns a new UserService.
func NewUserService(store repo.Store, clk clock.Clock, log *slog.Logger) *UserService {
	return &UserService{store: store, clock: clk, log: log, cost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *UserService) WithHashCost(cost int) *UserService {
	s.cost = cost
	return s
}

// Register validates the input, checks email then username for
// uniqueness and stores the user with a bcrypt password hash.
func (s *UserService) Register(ctx context.Context, username, email, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return dom.User{}, invalid("missing required fields")
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return dom.User{}, invalid("username must be at most %d characters", maxUsernameLen)
	}
	if len(email) > maxEmailLen || !emailRe.MatchString(email) {
		return dom.User{}, invalid("invalid email format")
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return dom.User{}, invalid("password must be at least %d characters long", minPasswordLen)
	}
	if len(password) > maxPasswordBytes {
		return dom.User{}, invalid("password must be at most %d bytes", maxPasswordBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return dom.User{}, classify(s.log, "hash password", err)
	}

	var created dom.User
	err = s.store.WithTx(ctx, func(tx repo.Store) error {
		users := tx.Users()
		taken, err := users.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return &ConflictError{Msg: "email already registered"}
		}
		taken, err = users.ExistsByUsername(ctx, username)
		if err != nil {
			return err
		}
		if taken {
			return &ConflictError{Msg: "username already taken"}
		}
		u, err := users.Create(ctx, dom.User{
			Username:     username,
			Email:        email,
			PasswordHash: string(hash),
			CreatedAt:    s.clock.Now(),
		})
		if err != nil {
			if utils.IsUniqueViolation(err) {
				return &ConflictError{Msg: "username or email already registered"}
			}
			return err
		}
		created = u
		return nil
	})
	if err != nil {
		return dom.User{}, classify(s.log, "register user", err)
	}
	s.log.Info("user registered", "user_id", created.ID)
	return created, nil
}

// Login checks email and password and records the login time.
func (s *UserService) Login(ctx context.Context, email, password string) (dom.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return dom.User{}, invalid("missing email or password")
	}

	var user dom.User
	err := s.store.WithTx(ctx, func(tx repo.Store) error {
		u, err := tx.Users().GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrInvalidCredentials
			}
			return err
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
			return ErrInvalidCredentials
		}
		now := s.clock.Now()
		if err := tx.Users().SetLastLogin(ctx, u.ID, now); err != nil {
			return err
		}
		u.LastLogin = &now
		user = u
		return nil
	})
	if err != nil {
		return dom.User{}, classify(s.log, "login", err)
	}
	return user, nil
}

// GetByID returns the user or ErrNotFound.
func (s *UserService) GetByID(ctx context.Context, id int64) (dom.User, error) {
	u, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return dom.User{}, classify(s.log, "get user", err)
	}
	return u, nil
}
