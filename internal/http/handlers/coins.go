package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/cotobang/internal/domain/coin"
	"github.com/gin-gonic/gin"
)

type CoinService interface {
	List(ctx context.Context) ([]coin.Coin, error)
	Get(ctx context.Context, id int64) (coin.Coin, error)
	Create(ctx context.Context, data coin.Data) (coin.Coin, error)
	Update(ctx context.Context, id int64, data coin.Data) (coin.Coin, error)
	Delete(ctx context.Context, id int64) (coin.Coin, error)
}

type CoinsHandler struct {
	coins CoinService
}

func NewCoinsHandler(coins CoinService) *CoinsHandler {
	return &CoinsHandler{coins: coins}
}

func (h *CoinsHandler) List(ctx *gin.Context) {
	cctx, cancel := requestTimeout(ctx, 3*time.Second)
	defer cancel()

	coins, err := h.coins.List(cctx)
	if err != nil {
		RespondServiceError(ctx, err, "Could not list coins")
		return
	}

	if coins == nil {
		coins = make([]coin.Coin, 0)
	}

	RespondJSONWithETag(ctx, http.StatusOK, coins)
}

func (h *CoinsHandler) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := requestTimeout(ctx, 3*time.Second)
	defer cancel()

	c, err := h.coins.Get(cctx, id)
	if err != nil {
		RespondServiceError(ctx, err, "Could not fetch coin")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, c)
}

func (h *CoinsHandler) Create(ctx *gin.Context) {
	var req coin.Data

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestTimeout(ctx, 3*time.Second)
	defer cancel()

	c, err := h.coins.Create(cctx, req)
	if err != nil {
		RespondServiceError(ctx, err, "Could not create coin")
		return
	}

	ctx.JSON(http.StatusCreated, c)
}

func (h *CoinsHandler) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req coin.Data

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestTimeout(ctx, 3*time.Second)
	defer cancel()

	c, err := h.coins.Update(cctx, id, req)
	if err != nil {
		RespondServiceError(ctx, err, "Could not update coin")
		return
	}

	ctx.JSON(http.StatusOK, c)
}

func (h *CoinsHandler) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := requestTimeout(ctx, 3*time.Second)
	defer cancel()

	c, err := h.coins.Delete(cctx, id)
	if err != nil {
		RespondServiceError(ctx, err, "Could not delete coin")
		return
	}

	slog.Default().InfoContext(ctx.Request.Context(), "coin deleted", "coin_id", c.ID, "korean_name", c.KoreanName)

	ctx.Status(http.StatusNoContent)
}
