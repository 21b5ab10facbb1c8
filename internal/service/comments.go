package service

import (
	"context"
	"errors"

	"github.com/geocoder89/cotobang/internal/apperr"
	"github.com/geocoder89/cotobang/internal/authz"
	"github.com/geocoder89/cotobang/internal/domain/comment"
	"github.com/geocoder89/cotobang/internal/domain/user"
	"github.com/geocoder89/cotobang/internal/repo"
)

type CommentService struct {
	store repo.Store
	gate  authz.Gate
}

func NewCommentService(store repo.Store, gate authz.Gate) *CommentService {
	return &CommentService{store: store, gate: gate}
}

// ListByCoin never fails for an unknown coin; it returns an empty slice.
func (s *CommentService) ListByCoin(ctx context.Context, coinID int64) ([]comment.Detail, error) {
	r := s.store.Repos()

	comments, err := r.Comments().FindAllByCoinID(ctx, coinID)
	if err != nil {
		return nil, err
	}

	out := make([]comment.Detail, 0, len(comments))
	if len(comments) == 0 {
		return out, nil
	}

	c, err := r.Coins().FindByID(ctx, coinID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return out, nil
		}
		return nil, err
	}

	authors := make(map[int64]user.User)
	for _, cm := range comments {
		u, ok := authors[cm.UserID]
		if !ok {
			u, err = r.Users().FindByID(ctx, cm.UserID)
			if err != nil {
				return nil, err
			}
			authors[cm.UserID] = u
		}
		out = append(out, comment.Detail{Comment: cm, User: u, Coin: c})
	}

	return out, nil
}

// Create stores a comment by the authenticated user on an existing coin.
func (s *CommentService) Create(ctx context.Context, id *authz.Identity, req comment.CreateRequest) (comment.Detail, error) {
	if id == nil {
		return comment.Detail{}, apperr.ErrUnauthenticated
	}

	if req.UserID != id.UserID {
		return comment.Detail{}, apperr.Validation("userId", "must match the authenticated user")
	}

	var detail comment.Detail

	err := s.store.WithinTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		c, err := r.Coins().FindByID(ctx, req.CoinID)
		if err != nil {
			return err
		}

		author, err := activeUser(ctx, r, id.UserID)
		if err != nil {
			return err
		}

		saved, err := r.Comments().Save(ctx, comment.New(c.ID, author.ID, req.Body))
		if err != nil {
			return err
		}

		detail = comment.Detail{Comment: saved, User: author, Coin: c}
		return nil
	})

	return detail, err
}

// Update replaces the body of a comment. Only its author may do so.
func (s *CommentService) Update(ctx context.Context, id *authz.Identity, commentID int64, body string) (comment.Detail, error) {
	if id == nil {
		return comment.Detail{}, apperr.ErrUnauthenticated
	}

	var detail comment.Detail

	err := s.store.WithinTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		cm, err := s.lockOwned(ctx, r, id, commentID)
		if err != nil {
			return err
		}

		saved, err := r.Comments().Save(ctx, cm.Edit(body))
		if err != nil {
			return err
		}

		detail, err = resolve(ctx, r, saved)
		return err
	})

	return detail, err
}

// Delete removes a comment permanently and returns it as it was before removal.
func (s *CommentService) Delete(ctx context.Context, id *authz.Identity, commentID int64) (comment.Detail, error) {
	if id == nil {
		return comment.Detail{}, apperr.ErrUnauthenticated
	}

	var detail comment.Detail

	err := s.store.WithinTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		cm, err := s.lockOwned(ctx, r, id, commentID)
		if err != nil {
			return err
		}

		detail, err = resolve(ctx, r, cm)
		if err != nil {
			return err
		}

		return r.Comments().DeleteByID(ctx, commentID)
	})

	return detail, err
}

// lockOwned rejects callers whose account has been soft-deleted, even when
// their token still decodes.
func (s *CommentService) lockOwned(ctx context.Context, r repo.Repositories, id *authz.Identity, commentID int64) (comment.Comment, error) {
	if _, err := activeUser(ctx, r, id.UserID); err != nil {
		return comment.Comment{}, err
	}

	cm, err := r.Comments().FindByIDForUpdate(ctx, commentID)
	if err != nil {
		return comment.Comment{}, err
	}

	if err := s.gate.Authorize(id, cm.UserID, authz.Mutate); err != nil {
		return comment.Comment{}, err
	}

	return cm, nil
}

func resolve(ctx context.Context, r repo.Repositories, cm comment.Comment) (comment.Detail, error) {
	u, err := r.Users().FindByID(ctx, cm.UserID)
	if err != nil {
		return comment.Detail{}, err
	}

	c, err := r.Coins().FindByID(ctx, cm.CoinID)
	if err != nil {
		return comment.Detail{}, err
	}

	return comment.Detail{Comment: cm, User: u, Coin: c}, nil
}

func activeUser(ctx context.Context, r repo.Repositories, id int64) (user.User, error) {
	u, err := r.Users().FindByID(ctx, id)
	if err != nil {
		return user.User{}, err
	}

	if !u.Active() {
		return user.User{}, apperr.NotFound("user", id)
	}
	return u, nil
}
