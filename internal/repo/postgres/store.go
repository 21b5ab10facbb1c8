package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/cotobang/internal/observability"
	"github.com/geocoder89/cotobang/internal/repo"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewStore(pool *pgxpool.Pool, prom *observability.Prom) *Store {
	return &Store{pool: pool, prom: prom}
}

func (s *Store) Repos() repo.Repositories {
	return &repos{q: s.pool, prom: s.prom}
}

// WithinTx uses the idiomatic "named return and defer" approach: rollback is
// a no-op after a successful commit.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, r repo.Repositories) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	err = fn(ctx, &repos{q: tx, prom: s.prom})
	if err != nil {
		return
	}

	err = tx.Commit(ctx)
	return
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

type repos struct {
	q    Querier
	prom *observability.Prom
}

func (r *repos) Users() repo.Users       { return &UsersRepo{base{q: r.q, prom: r.prom}} }
func (r *repos) Roles() repo.Roles       { return &RolesRepo{base{q: r.q, prom: r.prom}} }
func (r *repos) Coins() repo.Coins       { return &CoinsRepo{base{q: r.q, prom: r.prom}} }
func (r *repos) Comments() repo.Comments { return &CommentsRepo{base{q: r.q, prom: r.prom}} }

type base struct {
	q    Querier
	prom *observability.Prom
}

func (b base) observe(op string, fn func() error) error {
	if b.prom != nil {
		return b.prom.ObserveDB(op, fn)
	}
	return fn()
}

func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return constraint == "" || pgErr.ConstraintName == constraint
	}
	return false
}

// foreignKeyViolation reports the violated constraint name, if any.
func foreignKeyViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return pgErr.ConstraintName, true
	}
	return "", false
}
