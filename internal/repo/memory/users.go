package memory

import (
	"context"

	"github.com/geocoder89/cotobang/internal/apperr"
	"github.com/geocoder89/cotobang/internal/domain/user"
)

type usersRepo struct{ v *view }

func (r usersRepo) FindByID(ctx context.Context, id int64) (u user.User, err error) {
	r.v.read(func(st *state) {
		found, ok := st.users[id]
		if !ok {
			err = apperr.NotFound("user", id)
			return
		}
		u = found
	})
	return
}

func (r usersRepo) FindByIDForUpdate(ctx context.Context, id int64) (user.User, error) {
	return r.FindByID(ctx, id)
}

func (r usersRepo) FindActiveByEmail(ctx context.Context, email string) (u user.User, err error) {
	r.v.read(func(st *state) {
		for _, id := range sortedIDs(st.users) {
			candidate := st.users[id]
			if candidate.Active() && candidate.Email == email {
				u = candidate
				return
			}
		}
		err = apperr.NotFound("user", 0)
	})
	return
}

func (r usersRepo) ExistsByEmail(ctx context.Context, email string) (exists bool, err error) {
	r.v.read(func(st *state) {
		exists = activeEmailTaken(st, email, 0)
	})
	return
}

func (r usersRepo) Save(ctx context.Context, u user.User) (saved user.User, err error) {
	r.v.write(func(st *state) {
		// mirrors the partial unique index on active emails in postgres
		if u.Active() && activeEmailTaken(st, u.Email, u.ID) {
			err = apperr.EmailDuplication(u.Email)
			return
		}

		if u.ID == 0 {
			st.userSeq++
			u.ID = st.userSeq
		} else if _, ok := st.users[u.ID]; !ok {
			err = apperr.NotFound("user", u.ID)
			return
		}

		st.users[u.ID] = u
		saved = u
	})
	return
}

func activeEmailTaken(st *state, email string, exceptID int64) bool {
	for id, u := range st.users {
		if id != exceptID && u.Active() && u.Email == email {
			return true
		}
	}
	return false
}
