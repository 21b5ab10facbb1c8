package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/geocoder89/cotobang/internal/apperr"
	"github.com/geocoder89/cotobang/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.Register(ctx, user.RegistrationRequest{Email: "a@x.com", Name: "A", Password: "p"})
	require.NoError(t, err)

	assert.NotZero(t, u.ID)
	assert.Equal(t, "a@x.com", u.Email)
	assert.True(t, u.Active())
	assert.NotEqual(t, "p", u.PasswordHash, "credential must be hashed")

	id, err := f.users.Identity(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"USER"}, id.Roles)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.register(t, "a@x.com", "A")

	_, err := f.users.Register(ctx, user.RegistrationRequest{Email: "a@x.com", Name: "B", Password: "q"})
	require.ErrorIs(t, err, apperr.ErrEmailDuplication)

	var dup *apperr.EmailDuplicationError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "a@x.com", dup.Email)
}

func TestRegister_ConcurrentSameEmailOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		dupes     int
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.users.Register(ctx, user.RegistrationRequest{Email: "race@x.com", Name: "R", Password: "p"})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case assert.ErrorIs(t, err, apperr.ErrEmailDuplication):
				dupes++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, n-1, dupes)
}

func TestRegister_EmailReusableAfterSoftDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.register(t, "a@x.com", "A")
	_, err := f.users.SoftDelete(ctx, u.ID)
	require.NoError(t, err)

	again := f.register(t, "a@x.com", "A2")
	assert.NotEqual(t, u.ID, again.ID)
}

func TestModify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "a@x.com", "A")

	updated, err := f.users.Modify(ctx, u.ID, user.ModificationRequest{Name: "B", Password: "new"})
	require.NoError(t, err)
	assert.Equal(t, "B", updated.Name)
	assert.Equal(t, "a@x.com", updated.Email)
	assert.NotEqual(t, u.PasswordHash, updated.PasswordHash)

	_, _, err = f.users.Login(ctx, user.LoginRequest{Email: "a@x.com", Password: "new"})
	assert.NoError(t, err)
}

func TestModify_UnknownOrDeletedIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Modify(ctx, 404, user.ModificationRequest{Name: "B", Password: "p"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	u := f.register(t, "a@x.com", "A")
	_, err = f.users.SoftDelete(ctx, u.ID)
	require.NoError(t, err)

	_, err = f.users.Modify(ctx, u.ID, user.ModificationRequest{Name: "B", Password: "p"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSoftDelete_IsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "a@x.com", "A")

	deleted, err := f.users.SoftDelete(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)
	require.NotNil(t, deleted.DeletedAt)

	_, err = f.users.SoftDelete(ctx, u.ID)
	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "user", nf.Entity)
	assert.Equal(t, u.ID, nf.ID)

	// the row is still there, flagged
	row, err := f.store.Repos().Users().FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, row.Deleted)

	_, err = f.users.SoftDelete(ctx, 404)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "a@x.com", "A")

	token, got, err := f.users.Login(ctx, user.LoginRequest{Email: "a@x.com", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	decoded, err := f.tokens.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, decoded)

	_, _, err = f.users.Login(ctx, user.LoginRequest{Email: "a@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	_, _, err = f.users.Login(ctx, user.LoginRequest{Email: "nobody@x.com", Password: "p"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	_, err = f.users.SoftDelete(ctx, u.ID)
	require.NoError(t, err)

	_, _, err = f.users.Login(ctx, user.LoginRequest{Email: "a@x.com", Password: "p"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestIdentity_DeletedUserIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "a@x.com", "A")

	_, err := f.users.SoftDelete(ctx, u.ID)
	require.NoError(t, err)

	_, err = f.users.Identity(ctx, u.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
