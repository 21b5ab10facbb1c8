package memory

import (
	"context"

	"github.com/geocoder89/cotobang/internal/apperr"
	"github.com/geocoder89/cotobang/internal/domain/role"
)

type rolesRepo struct{ v *view }

func (r rolesRepo) Save(ctx context.Context, ro role.Role) (saved role.Role, err error) {
	r.v.write(func(st *state) {
		if _, ok := st.users[ro.UserID]; !ok {
			err = apperr.NotFound("user", ro.UserID)
			return
		}
		if ro.ID == 0 {
			st.roleSeq++
			ro.ID = st.roleSeq
		}
		st.roles[ro.ID] = ro
		saved = ro
	})
	return
}

func (r rolesRepo) ListByUser(ctx context.Context, userID int64) (out []role.Role, err error) {
	r.v.read(func(st *state) {
		out = make([]role.Role, 0)
		for _, id := range sortedIDs(st.roles) {
			if ro := st.roles[id]; ro.UserID == userID {
				out = append(out, ro)
			}
		}
	})
	return
}
