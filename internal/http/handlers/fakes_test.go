package handlers_test

import (
	"bytes"
	"context"
	"net/http/httptest"

	"github.com/geocoder89/cotobang/internal/authz"
	"github.com/geocoder89/cotobang/internal/domain/coin"
	"github.com/geocoder89/cotobang/internal/domain/comment"
	"github.com/geocoder89/cotobang/internal/domain/user"
	"github.com/geocoder89/cotobang/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the test
func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUsers struct {
	registerFn func(ctx context.Context, req user.RegistrationRequest) (user.User, error)
	modifyFn   func(ctx context.Context, id int64, req user.ModificationRequest) (user.User, error)
	deleteFn   func(ctx context.Context, id int64) (user.User, error)
	loginFn    func(ctx context.Context, req user.LoginRequest) (string, user.User, error)
}

func (f *fakeUsers) Register(ctx context.Context, req user.RegistrationRequest) (user.User, error) {
	if f.registerFn != nil {
		return f.registerFn(ctx, req)
	}
	return user.User{}, nil
}

func (f *fakeUsers) Modify(ctx context.Context, id int64, req user.ModificationRequest) (user.User, error) {
	if f.modifyFn != nil {
		return f.modifyFn(ctx, id, req)
	}
	return user.User{}, nil
}

func (f *fakeUsers) SoftDelete(ctx context.Context, id int64) (user.User, error) {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return user.User{}, nil
}

func (f *fakeUsers) Login(ctx context.Context, req user.LoginRequest) (string, user.User, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, req)
	}
	return "", user.User{}, nil
}

type fakeCoins struct {
	listFn   func(ctx context.Context) ([]coin.Coin, error)
	getFn    func(ctx context.Context, id int64) (coin.Coin, error)
	createFn func(ctx context.Context, data coin.Data) (coin.Coin, error)
	updateFn func(ctx context.Context, id int64, data coin.Data) (coin.Coin, error)
	deleteFn func(ctx context.Context, id int64) (coin.Coin, error)
}

func (f *fakeCoins) List(ctx context.Context) ([]coin.Coin, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return []coin.Coin{}, nil
}

func (f *fakeCoins) Get(ctx context.Context, id int64) (coin.Coin, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return coin.Coin{}, nil
}

func (f *fakeCoins) Create(ctx context.Context, data coin.Data) (coin.Coin, error) {
	if f.createFn != nil {
		return f.createFn(ctx, data)
	}
	return coin.Coin{}, nil
}

func (f *fakeCoins) Update(ctx context.Context, id int64, data coin.Data) (coin.Coin, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, data)
	}
	return coin.Coin{}, nil
}

func (f *fakeCoins) Delete(ctx context.Context, id int64) (coin.Coin, error) {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return coin.Coin{}, nil
}

type fakeComments struct {
	listFn   func(ctx context.Context, coinID int64) ([]comment.Detail, error)
	createFn func(ctx context.Context, id *authz.Identity, req comment.CreateRequest) (comment.Detail, error)
	updateFn func(ctx context.Context, id *authz.Identity, commentID int64, body string) (comment.Detail, error)
	deleteFn func(ctx context.Context, id *authz.Identity, commentID int64) (comment.Detail, error)
}

func (f *fakeComments) ListByCoin(ctx context.Context, coinID int64) ([]comment.Detail, error) {
	if f.listFn != nil {
		return f.listFn(ctx, coinID)
	}
	return []comment.Detail{}, nil
}

func (f *fakeComments) Create(ctx context.Context, id *authz.Identity, req comment.CreateRequest) (comment.Detail, error) {
	if f.createFn != nil {
		return f.createFn(ctx, id, req)
	}
	return comment.Detail{}, nil
}

func (f *fakeComments) Update(ctx context.Context, id *authz.Identity, commentID int64, body string) (comment.Detail, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, commentID, body)
	}
	return comment.Detail{}, nil
}

func (f *fakeComments) Delete(ctx context.Context, id *authz.Identity, commentID int64) (comment.Detail, error) {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id, commentID)
	}
	return comment.Detail{}, nil
}

// small helper which mounts one handler per test
func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

// setupAuthedRouter mounts h behind a fake authentication step that trusts
// the numeric X-Test-User header.
func setupAuthedRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, func(c *gin.Context) {
		var id int64
		for _, ch := range c.GetHeader("X-Test-User") {
			id = id*10 + int64(ch-'0')
		}
		if id > 0 {
			c.Set(middlewares.CtxUserID, id)
		}
		c.Next()
	}, h)

	return r
}

func serve(r *gin.Engine, method, path, body string, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

