package memory

import (
	"context"

	"github.com/geocoder89/cotobang/internal/apperr"
	"github.com/geocoder89/cotobang/internal/domain/coin"
)

type coinsRepo struct{ v *view }

func (r coinsRepo) FindAll(ctx context.Context) (out []coin.Coin, err error) {
	r.v.read(func(st *state) {
		out = make([]coin.Coin, 0, len(st.coins))
		for _, id := range sortedIDs(st.coins) {
			out = append(out, st.coins[id])
		}
	})
	return
}

func (r coinsRepo) FindByID(ctx context.Context, id int64) (c coin.Coin, err error) {
	r.v.read(func(st *state) {
		found, ok := st.coins[id]
		if !ok {
			err = apperr.NotFound("coin", id)
			return
		}
		c = found
	})
	return
}

func (r coinsRepo) FindByIDForUpdate(ctx context.Context, id int64) (coin.Coin, error) {
	return r.FindByID(ctx, id)
}

func (r coinsRepo) Save(ctx context.Context, c coin.Coin) (saved coin.Coin, err error) {
	r.v.write(func(st *state) {
		if c.ID == 0 {
			st.coinSeq++
			c.ID = st.coinSeq
		} else if _, ok := st.coins[c.ID]; !ok {
			err = apperr.NotFound("coin", c.ID)
			return
		}
		st.coins[c.ID] = c
		saved = c
	})
	return
}

// DeleteByID also removes the coin's comments, like the ON DELETE CASCADE in postgres.
func (r coinsRepo) DeleteByID(ctx context.Context, id int64) (err error) {
	r.v.write(func(st *state) {
		if _, ok := st.coins[id]; !ok {
			err = apperr.NotFound("coin", id)
			return
		}
		delete(st.coins, id)
		for cid, c := range st.comments {
			if c.CoinID == id {
				delete(st.comments, cid)
			}
		}
	})
	return
}
