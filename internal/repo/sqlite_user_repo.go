package repo

import (
	"context"
	"time"

	dom "taskmanager/internal/domain"

	"github.com/jmoiron/sqlx"
)

type sqliteUserRepo struct {
	db sqlx.ExtContext
}

func (r *sqliteUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	var u dom.User
	err := sqlx.GetContext(ctx, r.db, &u, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return u, sqlNotFound(err)
}

func (r *sqliteUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	var u dom.User
	err := sqlx.GetContext(ctx, r.db, &u, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return u, sqlNotFound(err)
}

func (r *sqliteUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var ok bool
	err := sqlx.GetContext(ctx, r.db, &ok, `SELECT EXISTS (SELECT 1 FROM users WHERE email = ?)`, email)
	return ok, err
}

func (r *sqliteUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var ok bool
	err := sqlx.GetContext(ctx, r.db, &ok, `SELECT EXISTS (SELECT 1 FROM users WHERE username = ?)`, username)
	return ok, err
}

func (r *sqliteUserRepo) Create(ctx context.Context, u dom.User) (dom.User, error) {
	var id int64
	err := sqlx.GetContext(ctx, r.db, &id, `
		INSERT INTO users (username, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`,
		u.Username, u.Email, u.PasswordHash, u.CreatedAt.UTC(),
	)
	if err != nil {
		return dom.User{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *sqliteUserRepo) SetLastLogin(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return err
	}
	return rowsAffected(res)
}
