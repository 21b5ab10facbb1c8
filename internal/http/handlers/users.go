package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/cotobang/internal/authz"
	"github.com/geocoder89/cotobang/internal/domain/user"
	"github.com/geocoder89/cotobang/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type UserService interface {
	Register(ctx context.Context, req user.RegistrationRequest) (user.User, error)
	Modify(ctx context.Context, id int64, req user.ModificationRequest) (user.User, error)
	SoftDelete(ctx context.Context, id int64) (user.User, error)
	Login(ctx context.Context, req user.LoginRequest) (string, user.User, error)
}

type UsersHandler struct {
	users UserService
	gate  authz.Gate
}

func NewUsersHandler(users UserService, gate authz.Gate) *UsersHandler {
	return &UsersHandler{users: users, gate: gate}
}

func (h *UsersHandler) Register(ctx *gin.Context) {
	var req user.RegistrationRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestTimeout(ctx, 5*time.Second)
	defer cancel()

	u, err := h.users.Register(cctx, req)
	if err != nil {
		RespondServiceError(ctx, err, "Could not create user")
		return
	}

	ctx.JSON(http.StatusCreated, u)
}

func (h *UsersHandler) Modify(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	// only the account holder may change it; checked before the lookup
	if err := h.gate.Authorize(middlewares.IdentityFromContext(ctx), id, authz.Mutate); err != nil {
		RespondServiceError(ctx, err, "Could not update user")
		return
	}

	var req user.ModificationRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestTimeout(ctx, 5*time.Second)
	defer cancel()

	u, err := h.users.Modify(cctx, id, req)
	if err != nil {
		RespondServiceError(ctx, err, "Could not update user")
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *UsersHandler) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := h.gate.Authorize(middlewares.IdentityFromContext(ctx), id, authz.Mutate); err != nil {
		RespondServiceError(ctx, err, "Could not delete user")
		return
	}

	cctx, cancel := requestTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := h.users.SoftDelete(cctx, id)
	if err != nil {
		RespondServiceError(ctx, err, "Could not delete user")
		return
	}

	slog.Default().InfoContext(ctx.Request.Context(), "user soft-deleted", "user_id", u.ID, "deleted_at", u.DeletedAt)

	ctx.Status(http.StatusNoContent)
}

// Login exchanges an email and password for an access token.
func (h *UsersHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestTimeout(ctx, 5*time.Second)
	defer cancel()

	token, u, err := h.users.Login(cctx, req)
	if err != nil {
		RespondServiceError(ctx, err, "Could not create session")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"accessToken": token,
		"user":        u,
	})
}

// requestTimeout bounds the service call while keeping the request's trace and actor.
func requestTimeout(ctx *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx.Request.Context(), d)
}
