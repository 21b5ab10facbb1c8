package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/geocoder89/cotobang/internal/apperr"
	"github.com/geocoder89/cotobang/internal/authz"
	"github.com/geocoder89/cotobang/internal/domain/role"
	"github.com/geocoder89/cotobang/internal/domain/user"
	"github.com/geocoder89/cotobang/internal/repo"
	"github.com/geocoder89/cotobang/internal/security"
)

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

type TokenEncoder interface {
	Encode(userID int64) (string, error)
}

type UserService struct {
	store  repo.Store
	hasher PasswordHasher
	tokens TokenEncoder
	now    func() time.Time
}

func NewUserService(store repo.Store, hasher PasswordHasher, tokens TokenEncoder) *UserService {
	return &UserService{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		now:    time.Now,
	}
}

// Register creates an active user holding the default role. The email check
// and the insert share one transaction.
func (s *UserService) Register(ctx context.Context, req user.RegistrationRequest) (user.User, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	candidate := user.New(req.Email, req.Name, hash)

	var created user.User

	err = s.store.WithinTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		exists, err := r.Users().ExistsByEmail(ctx, candidate.Email)
		if err != nil {
			return err
		}

		if exists {
			return apperr.EmailDuplication(candidate.Email)
		}

		created, err = r.Users().Save(ctx, candidate)
		if err != nil {
			return err
		}

		_, err = r.Roles().Save(ctx, role.New(created.ID, role.DefaultName))
		return err
	})

	if err != nil {
		return user.User{}, err
	}
	return created, nil
}

func (s *UserService) Modify(ctx context.Context, id int64, req user.ModificationRequest) (user.User, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	var updated user.User

	err = s.store.WithinTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		u, err := r.Users().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if !u.Active() {
			return apperr.NotFound("user", id)
		}

		updated, err = r.Users().Save(ctx, u.Change(req.Name, hash))
		return err
	})

	if err != nil {
		return user.User{}, err
	}
	return updated, nil
}

// SoftDelete marks the user deleted. Deleting twice is reported as not found.
func (s *UserService) SoftDelete(ctx context.Context, id int64) (user.User, error) {
	var deleted user.User

	err := s.store.WithinTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		u, err := r.Users().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		next, err := u.Destroy(s.now())
		if err != nil {
			if errors.Is(err, user.ErrAlreadyDeleted) {
				return apperr.NotFound("user", id)
			}
			return err
		}

		deleted, err = r.Users().Save(ctx, next)
		return err
	})

	if err != nil {
		return user.User{}, err
	}
	return deleted, nil
}

// Login verifies the credential of an active user and issues a token.
func (s *UserService) Login(ctx context.Context, req user.LoginRequest) (string, user.User, error) {
	u, err := s.store.Repos().Users().FindActiveByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", user.User{}, apperr.ErrInvalidCredentials
		}
		return "", user.User{}, err
	}

	if err := s.hasher.Compare(u.PasswordHash, req.Password); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			return "", user.User{}, apperr.ErrInvalidCredentials
		}
		return "", user.User{}, fmt.Errorf("compare password: %w", err)
	}

	token, err := s.tokens.Encode(u.ID)
	if err != nil {
		return "", user.User{}, fmt.Errorf("issue token: %w", err)
	}

	return token, u, nil
}

// Identity resolves an active user id together with its role names.
func (s *UserService) Identity(ctx context.Context, userID int64) (authz.Identity, error) {
	r := s.store.Repos()

	u, err := r.Users().FindByID(ctx, userID)
	if err != nil {
		return authz.Identity{}, err
	}

	if !u.Active() {
		return authz.Identity{}, apperr.NotFound("user", userID)
	}

	roles, err := r.Roles().ListByUser(ctx, userID)
	if err != nil {
		return authz.Identity{}, err
	}

	return authz.Identity{UserID: u.ID, Roles: role.Names(roles)}, nil
}
