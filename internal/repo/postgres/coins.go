package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/cotobang/internal/apperr"
	"github.com/geocoder89/cotobang/internal/domain/coin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const coinColumns = `id, korean_name, english_name, symbol, market, description, created_at, updated_at`

type CoinsRepo struct {
	base
}

func scanCoin(row pgx.Row) (coin.Coin, error) {
	var c coin.Coin
	err := row.Scan(&c.ID, &c.KoreanName, &c.EnglishName, &c.Symbol, &c.Market, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *CoinsRepo) FindAll(ctx context.Context) ([]coin.Coin, error) {
	var rows pgx.Rows

	err := r.observe("coins.find_all", func() error {
		var e error
		rows, e = r.q.Query(ctx, `SELECT `+coinColumns+` FROM coins ORDER BY id ASC`)
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("list coins: %w", err)
	}

	defer rows.Close()

	out := make([]coin.Coin, 0)
	for rows.Next() {
		c, err := scanCoin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		if r.prom != nil {
			r.prom.DbErrorsTotal.WithLabelValues("coins.find_all", "rows_err").Inc()
		}
		return nil, err
	}
	return out, nil
}

func (r *CoinsRepo) FindByID(ctx context.Context, id int64) (coin.Coin, error) {
	return r.findByID(ctx, "coins.find_by_id", `SELECT `+coinColumns+` FROM coins WHERE id = $1`, id)
}

func (r *CoinsRepo) FindByIDForUpdate(ctx context.Context, id int64) (coin.Coin, error) {
	return r.findByID(ctx, "coins.find_by_id_for_update", `SELECT `+coinColumns+` FROM coins WHERE id = $1 FOR UPDATE`, id)
}

func (r *CoinsRepo) findByID(ctx context.Context, op, query string, id int64) (c coin.Coin, err error) {
	err = r.observe(op, func() error {
		var e error
		c, e = scanCoin(r.q.QueryRow(ctx, query, id))
		return e
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return coin.Coin{}, apperr.NotFound("coin", id)
		}
		return coin.Coin{}, fmt.Errorf("find coin %d: %w", id, err)
	}
	return c, nil
}

func (r *CoinsRepo) Save(ctx context.Context, c coin.Coin) (saved coin.Coin, err error) {
	if c.ID == 0 {
		err = r.observe("coins.insert", func() error {
			var e error
			saved, e = scanCoin(r.q.QueryRow(ctx, `
				INSERT INTO coins (korean_name, english_name, symbol, market, description, created_at, updated_at)
				VALUES ($1,$2,$3,$4,$5,$6,$7)
				RETURNING `+coinColumns,
				c.KoreanName, c.EnglishName, c.Symbol, c.Market, c.Description, c.CreatedAt, c.UpdatedAt,
			))
			return e
		})
		if err != nil {
			return coin.Coin{}, fmt.Errorf("insert coin: %w", err)
		}
		return saved, nil
	}

	err = r.observe("coins.update", func() error {
		var e error
		saved, e = scanCoin(r.q.QueryRow(ctx, `
			UPDATE coins
			SET korean_name = $2,
				english_name = $3,
				symbol = $4,
				market = $5,
				description = $6,
				updated_at = $7
			WHERE id = $1
			RETURNING `+coinColumns,
			c.ID, c.KoreanName, c.EnglishName, c.Symbol, c.Market, c.Description, c.UpdatedAt,
		))
		return e
	})

	if err != nil {
		// if there are no rows matching the id
		if errors.Is(err, pgx.ErrNoRows) {
			return coin.Coin{}, apperr.NotFound("coin", c.ID)
		}
		return coin.Coin{}, fmt.Errorf("update coin %d: %w", c.ID, err)
	}
	return saved, nil
}

func (r *CoinsRepo) DeleteByID(ctx context.Context, id int64) error {
	var tag pgconn.CommandTag

	err := r.observe("coins.delete", func() error {
		var e error
		tag, e = r.q.Exec(ctx, `DELETE FROM coins WHERE id = $1`, id)
		return e
	})
	if err != nil {
		return fmt.Errorf("delete coin %d: %w", id, err)
	}

	// if no rows were deleted as a result return a not found error
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("coin", id)
	}
	return nil
}
