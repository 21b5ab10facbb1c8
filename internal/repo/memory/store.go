package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/geocoder89/cotobang/internal/domain/coin"
	"github.com/geocoder89/cotobang/internal/domain/comment"
	"github.com/geocoder89/cotobang/internal/domain/role"
	"github.com/geocoder89/cotobang/internal/domain/user"
	"github.com/geocoder89/cotobang/internal/repo"
)

type state struct {
	users    map[int64]user.User
	roles    map[int64]role.Role
	coins    map[int64]coin.Coin
	comments map[int64]comment.Comment

	userSeq    int64
	roleSeq    int64
	coinSeq    int64
	commentSeq int64
}

func newState() *state {
	return &state{
		users:    make(map[int64]user.User),
		roles:    make(map[int64]role.Role),
		coins:    make(map[int64]coin.Coin),
		comments: make(map[int64]comment.Comment),
	}
}

func (s *state) clone() *state {
	c := &state{
		users:      make(map[int64]user.User, len(s.users)),
		roles:      make(map[int64]role.Role, len(s.roles)),
		coins:      make(map[int64]coin.Coin, len(s.coins)),
		comments:   make(map[int64]comment.Comment, len(s.comments)),
		userSeq:    s.userSeq,
		roleSeq:    s.roleSeq,
		coinSeq:    s.coinSeq,
		commentSeq: s.commentSeq,
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.roles {
		c.roles[k] = v
	}
	for k, v := range s.coins {
		c.coins[k] = v
	}
	for k, v := range s.comments {
		c.comments[k] = v
	}
	return c
}

// Store keeps everything in process memory. A transaction holds the write
// lock for its whole duration and works on a copy that replaces the live
// state only on commit, so transactions are fully serialized.
type Store struct {
	mu sync.RWMutex
	st *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) Repos() repo.Repositories {
	return &view{store: s}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, r repo.Repositories) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err = ctx.Err(); err != nil {
		return err
	}

	work := s.st.clone()

	defer func() {
		if p := recover(); p != nil {
			panic(p)
		}
		if err == nil {
			s.st = work
		}
	}()

	return fn(ctx, &view{store: s, tx: work})
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// view routes repository calls either to the live state under the store
// lock or to a transaction's private copy.
type view struct {
	store *Store
	tx    *state
}

func (v *view) read(fn func(st *state)) {
	if v.tx != nil {
		fn(v.tx)
		return
	}
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	fn(v.store.st)
}

func (v *view) write(fn func(st *state)) {
	if v.tx != nil {
		fn(v.tx)
		return
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	fn(v.store.st)
}

func (v *view) Users() repo.Users       { return usersRepo{v} }
func (v *view) Roles() repo.Roles       { return rolesRepo{v} }
func (v *view) Coins() repo.Coins       { return coinsRepo{v} }
func (v *view) Comments() repo.Comments { return commentsRepo{v} }

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
