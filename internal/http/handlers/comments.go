package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/cotobang/internal/authz"
	"github.com/geocoder89/cotobang/internal/domain/comment"
	"github.com/geocoder89/cotobang/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type CommentService interface {
	ListByCoin(ctx context.Context, coinID int64) ([]comment.Detail, error)
	Create(ctx context.Context, id *authz.Identity, req comment.CreateRequest) (comment.Detail, error)
	Update(ctx context.Context, id *authz.Identity, commentID int64, body string) (comment.Detail, error)
	Delete(ctx context.Context, id *authz.Identity, commentID int64) (comment.Detail, error)
}

type CommentsHandler struct {
	comments CommentService
}

func NewCommentsHandler(comments CommentService) *CommentsHandler {
	return &CommentsHandler{comments: comments}
}

// List answers GET /comments?coin_id=N.
func (h *CommentsHandler) List(ctx *gin.Context) {
	coinID, ok := queryID(ctx, "coin_id")
	if !ok {
		return
	}

	cctx, cancel := requestTimeout(ctx, 3*time.Second)
	defer cancel()

	items, err := h.comments.ListByCoin(cctx, coinID)
	if err != nil {
		RespondServiceError(ctx, err, "Could not list comments")
		return
	}

	if items == nil {
		items = make([]comment.Detail, 0)
	}

	RespondJSONWithETag(ctx, http.StatusOK, items)
}

func (h *CommentsHandler) Create(ctx *gin.Context) {
	var req comment.CreateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestTimeout(ctx, 3*time.Second)
	defer cancel()

	d, err := h.comments.Create(cctx, middlewares.IdentityFromContext(ctx), req)
	if err != nil {
		RespondServiceError(ctx, err, "Could not create comment")
		return
	}

	ctx.JSON(http.StatusCreated, d)
}

func (h *CommentsHandler) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req comment.UpdateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestTimeout(ctx, 3*time.Second)
	defer cancel()

	d, err := h.comments.Update(cctx, middlewares.IdentityFromContext(ctx), id, req.Body)
	if err != nil {
		RespondServiceError(ctx, err, "Could not update comment")
		return
	}

	ctx.JSON(http.StatusOK, d)
}

func (h *CommentsHandler) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := requestTimeout(ctx, 3*time.Second)
	defer cancel()

	d, err := h.comments.Delete(cctx, middlewares.IdentityFromContext(ctx), id)
	if err != nil {
		RespondServiceError(ctx, err, "Could not delete comment")
		return
	}

	slog.Default().InfoContext(ctx.Request.Context(), "comment deleted", "comment_id", d.ID, "coin_id", d.CoinID, "user_id", d.UserID)

	ctx.Status(http.StatusNoContent)
}
