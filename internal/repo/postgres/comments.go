package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/cotobang/internal/apperr"
	"github.com/geocoder89/cotobang/internal/domain/comment"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const commentColumns = `id, body, user_id, coin_id, created_at, updated_at`

type CommentsRepo struct {
	base
}

func scanComment(row pgx.Row) (comment.Comment, error) {
	var c comment.Comment
	err := row.Scan(&c.ID, &c.Body, &c.UserID, &c.CoinID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *CommentsRepo) FindAllByCoinID(ctx context.Context, coinID int64) ([]comment.Comment, error) {
	var rows pgx.Rows

	err := r.observe("comments.find_all_by_coin_id", func() error {
		var e error
		rows, e = r.q.Query(ctx, `
			SELECT `+commentColumns+`
			FROM comments
			WHERE coin_id = $1
			ORDER BY created_at ASC, id ASC`,
			coinID,
		)
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	defer rows.Close()

	out := make([]comment.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, rows.Err()
}

func (r *CommentsRepo) FindByID(ctx context.Context, id int64) (comment.Comment, error) {
	return r.findByID(ctx, "comments.find_by_id", `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
}

// Locks the row so a concurrent delete cannot interleave with an update.
func (r *CommentsRepo) FindByIDForUpdate(ctx context.Context, id int64) (comment.Comment, error) {
	return r.findByID(ctx, "comments.find_by_id_for_update", `SELECT `+commentColumns+` FROM comments WHERE id = $1 FOR UPDATE`, id)
}

func (r *CommentsRepo) findByID(ctx context.Context, op, query string, id int64) (c comment.Comment, err error) {
	err = r.observe(op, func() error {
		var e error
		c, e = scanComment(r.q.QueryRow(ctx, query, id))
		return e
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return comment.Comment{}, apperr.NotFound("comment", id)
		}
		return comment.Comment{}, fmt.Errorf("find comment %d: %w", id, err)
	}
	return c, nil
}

func (r *CommentsRepo) Save(ctx context.Context, c comment.Comment) (saved comment.Comment, err error) {
	if c.ID == 0 {
		err = r.observe("comments.insert", func() error {
			var e error
			saved, e = scanComment(r.q.QueryRow(ctx, `
				INSERT INTO comments (body, user_id, coin_id, created_at, updated_at)
				VALUES ($1,$2,$3,$4,$5)
				RETURNING `+commentColumns,
				c.Body, c.UserID, c.CoinID, c.CreatedAt, c.UpdatedAt,
			))
			return e
		})
	} else {
		err = r.observe("comments.update", func() error {
			var e error
			saved, e = scanComment(r.q.QueryRow(ctx, `
				UPDATE comments
				SET body = $2,
					updated_at = $3
				WHERE id = $1
				RETURNING `+commentColumns,
				c.ID, c.Body, c.UpdatedAt,
			))
			return e
		})
	}

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return comment.Comment{}, apperr.NotFound("comment", c.ID)
		}
		if constraint, ok := foreignKeyViolation(err); ok {
			if constraint == "comments_user_id_fkey" {
				return comment.Comment{}, apperr.NotFound("user", c.UserID)
			}
			return comment.Comment{}, apperr.NotFound("coin", c.CoinID)
		}
		return comment.Comment{}, fmt.Errorf("save comment: %w", err)
	}
	return saved, nil
}

func (r *CommentsRepo) DeleteByID(ctx context.Context, id int64) error {
	var tag pgconn.CommandTag

	err := r.observe("comments.delete", func() error {
		var e error
		tag, e = r.q.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
		return e
	})
	if err != nil {
		return fmt.Errorf("delete comment %d: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("comment", id)
	}
	return nil
}
