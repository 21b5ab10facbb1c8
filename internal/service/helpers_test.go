package service_test

import (
	"context"
	"testing"

	"github.com/geocoder89/cotobang/internal/auth"
	"github.com/geocoder89/cotobang/internal/authz"
	"github.com/geocoder89/cotobang/internal/domain/coin"
	"github.com/geocoder89/cotobang/internal/domain/user"
	"github.com/geocoder89/cotobang/internal/repo/memory"
	"github.com/geocoder89/cotobang/internal/security"
	"github.com/geocoder89/cotobang/internal/service"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	store    *memory.Store
	tokens   *auth.Manager
	users    *service.UserService
	coins    *service.CoinService
	comments *service.CommentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	tokens := auth.NewManager("service-test-secret", 0)

	return &fixture{
		store:    store,
		tokens:   tokens,
		users:    service.NewUserService(store, security.NewBcrypt(bcrypt.MinCost), tokens),
		coins:    service.NewCoinService(store),
		comments: service.NewCommentService(store, authz.NewGate("")),
	}
}

func (f *fixture) register(t *testing.T, email, name string) user.User {
	t.Helper()

	u, err := f.users.Register(context.Background(), user.RegistrationRequest{Email: email, Name: name, Password: "p"})
	require.NoError(t, err)
	return u
}

func (f *fixture) coin(t *testing.T, koreanName string) coin.Coin {
	t.Helper()

	c, err := f.coins.Create(context.Background(), coin.Data{KoreanName: koreanName, Symbol: "BTC"})
	require.NoError(t, err)
	return c
}

func identity(u user.User) *authz.Identity {
	return &authz.Identity{UserID: u.ID}
}
