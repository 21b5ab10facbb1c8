// Package repo declares the persistence contract the services depend on.
// Implementations live in repo/postgres and repo/memory.
//
// Lookups that find nothing return an *apperr.NotFoundError.
package repo

import (
	"context"

	"github.com/geocoder89/cotobang/internal/domain/coin"
	"github.com/geocoder89/cotobang/internal/domain/comment"
	"github.com/geocoder89/cotobang/internal/domain/role"
	"github.com/geocoder89/cotobang/internal/domain/user"
)

type Users interface {
	FindByID(ctx context.Context, id int64) (user.User, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id int64) (user.User, error)
	FindActiveByEmail(ctx context.Context, email string) (user.User, error)
	// ExistsByEmail only considers users that are not soft-deleted.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Save inserts when ID is zero and updates otherwise.
	Save(ctx context.Context, u user.User) (user.User, error)
}

type Roles interface {
	Save(ctx context.Context, r role.Role) (role.Role, error)
	ListByUser(ctx context.Context, userID int64) ([]role.Role, error)
}

type Coins interface {
	FindAll(ctx context.Context) ([]coin.Coin, error)
	FindByID(ctx context.Context, id int64) (coin.Coin, error)
	FindByIDForUpdate(ctx context.Context, id int64) (coin.Coin, error)
	Save(ctx context.Context, c coin.Coin) (coin.Coin, error)
	DeleteByID(ctx context.Context, id int64) error
}

type Comments interface {
	FindAllByCoinID(ctx context.Context, coinID int64) ([]comment.Comment, error)
	FindByID(ctx context.Context, id int64) (comment.Comment, error)
	FindByIDForUpdate(ctx context.Context, id int64) (comment.Comment, error)
	Save(ctx context.Context, c comment.Comment) (comment.Comment, error)
	DeleteByID(ctx context.Context, id int64) error
}

// Repositories is a set of repositories bound to one connection or transaction.
type Repositories interface {
	Users() Users
	Roles() Roles
	Coins() Coins
	Comments() Comments
}

type Store interface {
	// Repos returns repositories outside any transaction, for plain reads.
	Repos() Repositories
	// WithinTx runs fn in one transaction: committed when fn returns nil,
	// rolled back on error or panic.
	WithinTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
	Ping(ctx context.Context) error
}
