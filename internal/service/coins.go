package service

import (
	"context"

	"github.com/geocoder89/cotobang/internal/domain/coin"
	"github.com/geocoder89/cotobang/internal/repo"
)

// CoinService applies no ownership rules; coin mutation is gated, if at all,
// in front of it at the HTTP layer.
type CoinService struct {
	store repo.Store
}

func NewCoinService(store repo.Store) *CoinService {
	return &CoinService{store: store}
}

func (s *CoinService) List(ctx context.Context) ([]coin.Coin, error) {
	return s.store.Repos().Coins().FindAll(ctx)
}

func (s *CoinService) Get(ctx context.Context, id int64) (coin.Coin, error) {
	return s.store.Repos().Coins().FindByID(ctx, id)
}

func (s *CoinService) Create(ctx context.Context, data coin.Data) (coin.Coin, error) {
	var created coin.Coin

	err := s.store.WithinTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		var err error
		created, err = r.Coins().Save(ctx, coin.New(data))
		return err
	})

	return created, err
}

func (s *CoinService) Update(ctx context.Context, id int64, data coin.Data) (coin.Coin, error) {
	var updated coin.Coin

	err := s.store.WithinTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		c, err := r.Coins().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		updated, err = r.Coins().Save(ctx, c.Apply(data))
		return err
	})

	return updated, err
}

// Delete removes the coin permanently and returns it as it was before removal.
func (s *CoinService) Delete(ctx context.Context, id int64) (coin.Coin, error) {
	var removed coin.Coin

	err := s.store.WithinTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		c, err := r.Coins().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if err := r.Coins().DeleteByID(ctx, id); err != nil {
			return err
		}

		removed = c
		return nil
	})

	return removed, err
}
