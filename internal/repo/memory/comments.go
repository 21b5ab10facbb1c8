package memory

import (
	"context"

	"github.com/geocoder89/cotobang/internal/apperr"
	"github.com/geocoder89/cotobang/internal/domain/comment"
)

type commentsRepo struct{ v *view }

func (r commentsRepo) FindAllByCoinID(ctx context.Context, coinID int64) (out []comment.Comment, err error) {
	r.v.read(func(st *state) {
		out = make([]comment.Comment, 0)
		for _, id := range sortedIDs(st.comments) {
			if c := st.comments[id]; c.CoinID == coinID {
				out = append(out, c)
			}
		}
	})
	return
}

func (r commentsRepo) FindByID(ctx context.Context, id int64) (c comment.Comment, err error) {
	r.v.read(func(st *state) {
		found, ok := st.comments[id]
		if !ok {
			err = apperr.NotFound("comment", id)
			return
		}
		c = found
	})
	return
}

func (r commentsRepo) FindByIDForUpdate(ctx context.Context, id int64) (comment.Comment, error) {
	return r.FindByID(ctx, id)
}

func (r commentsRepo) Save(ctx context.Context, c comment.Comment) (saved comment.Comment, err error) {
	r.v.write(func(st *state) {
		// foreign keys, as enforced by the postgres schema
		if _, ok := st.coins[c.CoinID]; !ok {
			err = apperr.NotFound("coin", c.CoinID)
			return
		}
		if _, ok := st.users[c.UserID]; !ok {
			err = apperr.NotFound("user", c.UserID)
			return
		}

		if c.ID == 0 {
			st.commentSeq++
			c.ID = st.commentSeq
		} else if _, ok := st.comments[c.ID]; !ok {
			err = apperr.NotFound("comment", c.ID)
			return
		}
		st.comments[c.ID] = c
		saved = c
	})
	return
}

func (r commentsRepo) DeleteByID(ctx context.Context, id int64) (err error) {
	r.v.write(func(st *state) {
		if _, ok := st.comments[id]; !ok {
			err = apperr.NotFound("comment", id)
			return
		}
		delete(st.comments, id)
	})
	return
}
