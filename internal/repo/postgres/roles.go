package postgres

import (
	"context"
	"fmt"

	"github.com/geocoder89/cotobang/internal/apperr"
	"github.com/geocoder89/cotobang/internal/domain/role"
	"github.com/jackc/pgx/v5"
)

type RolesRepo struct {
	base
}

func (r *RolesRepo) Save(ctx context.Context, ro role.Role) (role.Role, error) {
	err := r.observe("roles.insert", func() error {
		return r.q.QueryRow(ctx,
			`INSERT INTO roles (user_id, name) VALUES ($1,$2) RETURNING id`,
			ro.UserID, ro.Name,
		).Scan(&ro.ID)
	})

	if err != nil {
		if _, ok := foreignKeyViolation(err); ok {
			return role.Role{}, apperr.NotFound("user", ro.UserID)
		}
		return role.Role{}, fmt.Errorf("insert role: %w", err)
	}
	return ro, nil
}

func (r *RolesRepo) ListByUser(ctx context.Context, userID int64) ([]role.Role, error) {
	var rows pgx.Rows

	err := r.observe("roles.list_by_user", func() error {
		var e error
		rows, e = r.q.Query(ctx, `
			SELECT id, user_id, name
			FROM roles
			WHERE user_id = $1
			ORDER BY id ASC`,
			userID,
		)
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	defer rows.Close()

	out := make([]role.Role, 0)
	for rows.Next() {
		var ro role.Role
		if err := rows.Scan(&ro.ID, &ro.UserID, &ro.Name); err != nil {
			return nil, err
		}
		out = append(out, ro)
	}

	return out, rows.Err()
}
