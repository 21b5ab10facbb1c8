package db

import (
	"context"
	"errors"

	"github.com/geocoder89/cotobang/internal/apperr"
	"github.com/geocoder89/cotobang/internal/config"
	"github.com/geocoder89/cotobang/internal/domain/role"
	"github.com/geocoder89/cotobang/internal/domain/user"
	"github.com/geocoder89/cotobang/internal/repo"
)

type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// EnsureAdminUser creates the configured admin account, or grants the admin
// role to an existing active account with that email. It is a no-op unless
// an admin email, password and role are configured.
func EnsureAdminUser(ctx context.Context, store repo.Store, hasher PasswordHasher, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" || cfg.CoinAdminRole == "" {
		return nil
	}

	return store.WithinTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		u, err := r.Users().FindActiveByEmail(ctx, cfg.AdminEmail)

		if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return err
		}

		if err != nil {
			hash, err := hasher.Hash(cfg.AdminPassword)
			if err != nil {
				return err
			}

			u, err = r.Users().Save(ctx, user.New(cfg.AdminEmail, cfg.AdminName, hash))
			if err != nil {
				return err
			}

			if _, err := r.Roles().Save(ctx, role.New(u.ID, role.DefaultName)); err != nil {
				return err
			}
		}

		roles, err := r.Roles().ListByUser(ctx, u.ID)
		if err != nil {
			return err
		}

		for _, ro := range roles {
			if ro.Name == cfg.CoinAdminRole {
				return nil
			}
		}

		_, err = r.Roles().Save(ctx, role.New(u.ID, cfg.CoinAdminRole))
		return err
	})
}
