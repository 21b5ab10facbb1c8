package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/cotobang/internal/apperr"
	"github.com/geocoder89/cotobang/internal/domain/user"
	"github.com/jackc/pgx/v5"
)

const activeEmailConstraint = "users_active_email_uniq"

const userColumns = `id, email, name, password_hash, deleted, deleted_at, created_at, updated_at`

type UsersRepo struct {
	base
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.Deleted,
		&u.DeletedAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (r *UsersRepo) FindByID(ctx context.Context, id int64) (user.User, error) {
	return r.findByID(ctx, "users.find_by_id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// Locks the row so a concurrent modify/delete of the same user waits.
func (r *UsersRepo) FindByIDForUpdate(ctx context.Context, id int64) (user.User, error) {
	return r.findByID(ctx, "users.find_by_id_for_update", `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

func (r *UsersRepo) findByID(ctx context.Context, op, query string, id int64) (u user.User, err error) {
	err = r.observe(op, func() error {
		var e error
		u, e = scanUser(r.q.QueryRow(ctx, query, id))
		return e
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, apperr.NotFound("user", id)
		}
		return user.User{}, fmt.Errorf("find user %d: %w", id, err)
	}
	return u, nil
}

func (r *UsersRepo) FindActiveByEmail(ctx context.Context, email string) (u user.User, err error) {
	err = r.observe("users.find_active_by_email", func() error {
		var e error
		u, e = scanUser(r.q.QueryRow(ctx,
			`SELECT `+userColumns+`
			FROM users
			WHERE email = $1 AND deleted = FALSE`,
			email,
		))
		return e
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, apperr.NotFound("user", 0)
		}
		return user.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *UsersRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool

	err := r.observe("users.exists_by_email", func() error {
		return r.q.QueryRow(ctx, `SELECT EXISTS(
			SELECT 1 FROM users
			WHERE email = $1 AND deleted = FALSE
		)`, email).Scan(&exists)
	})

	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

func (r *UsersRepo) Save(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == 0 {
		return r.insert(ctx, u)
	}
	return r.update(ctx, u)
}

func (r *UsersRepo) insert(ctx context.Context, u user.User) (saved user.User, err error) {
	err = r.observe("users.insert", func() error {
		var e error
		saved, e = scanUser(r.q.QueryRow(ctx, `
			INSERT INTO users (email, name, password_hash, deleted, deleted_at, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			RETURNING `+userColumns,
			u.Email, u.Name, u.PasswordHash, u.Deleted, u.DeletedAt, u.CreatedAt, u.UpdatedAt,
		))
		return e
	})

	if err != nil {
		if IsUniqueViolation(err, activeEmailConstraint) {
			return user.User{}, apperr.EmailDuplication(u.Email)
		}
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}
	return saved, nil
}

func (r *UsersRepo) update(ctx context.Context, u user.User) (saved user.User, err error) {
	err = r.observe("users.update", func() error {
		var e error
		saved, e = scanUser(r.q.QueryRow(ctx, `
			UPDATE users
			SET name = $2,
				password_hash = $3,
				deleted = $4,
				deleted_at = $5,
				updated_at = $6
			WHERE id = $1
			RETURNING `+userColumns,
			u.ID, u.Name, u.PasswordHash, u.Deleted, u.DeletedAt, u.UpdatedAt,
		))
		return e
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, apperr.NotFound("user", u.ID)
		}
		return user.User{}, fmt.Errorf("update user %d: %w", u.ID, err)
	}
	return saved, nil
}
