package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/geocoder89/cotobang/internal/auth"
	"github.com/geocoder89/cotobang/internal/authz"
	"github.com/geocoder89/cotobang/internal/config"
	"github.com/geocoder89/cotobang/internal/db"
	apphttp "github.com/geocoder89/cotobang/internal/http"
	"github.com/geocoder89/cotobang/internal/http/handlers"
	"github.com/geocoder89/cotobang/internal/observability"
	"github.com/geocoder89/cotobang/internal/repo"
	"github.com/geocoder89/cotobang/internal/repo/memory"
	"github.com/geocoder89/cotobang/internal/repo/postgres"
	"github.com/geocoder89/cotobang/internal/security"
	"github.com/geocoder89/cotobang/internal/service"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "integration-secret"

func testConfig() config.Config {
	return config.Config{
		Env:          "test",
		JWTSecret:    testSecret,
		RateLimit:    1000,
		RateWindow:   time.Minute,
		MaxBodyBytes: 1 << 20,
	}
}

// testStore is Postgres when TEST_DB_DSN is set, the in-memory store otherwise.
func testStore(t *testing.T) repo.Store {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		return memory.NewStore()
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to create pgx pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := db.Migrate(ctx, pool); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	_, err = pool.Exec(ctx, `TRUNCATE comments, coins, roles, users RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}

	return postgres.NewStore(pool, nil)
}

func setupRouter(t *testing.T, cfg config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := testStore(t)
	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := apphttp.NewRouter(apphttp.Deps{
		Config:   cfg,
		Log:      logger,
		Prom:     observability.NewProm(),
		Tokens:   tokens,
		Users:    service.NewUserService(store, security.NewBcrypt(bcrypt.MinCost), tokens),
		Coins:    service.NewCoinService(store),
		Comments: service.NewCommentService(store, authz.NewGate("")),
		Checks:   map[string]handlers.Check{"store": store.Ping},
	})

	// test mode is forced again since NewRouter switches to release outside dev
	gin.SetMode(gin.TestMode)
	return r
}

func doRequest(router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))

	if method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func mustReadJSON[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to unmarshal json: %v, body=%s", err, w.Body.String())
	}
}

func mustStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, want, w.Body.String())
	}
}

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type errorResponse struct {
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

// registerAndLogin returns the new user's id and access token.
func registerAndLogin(t *testing.T, r http.Handler, email string) (int64, string) {
	t.Helper()

	w := doRequest(r, http.MethodPost, "/users", `{"email":"`+email+`","name":"N","password":"p"}`, "")
	mustStatus(t, w, http.StatusCreated)

	var u userResponse
	mustReadJSON(t, w, &u)

	w = doRequest(r, http.MethodPost, "/session", `{"email":"`+email+`","password":"p"}`, "")
	mustStatus(t, w, http.StatusCreated)

	var session struct {
		AccessToken string `json:"accessToken"`
	}
	mustReadJSON(t, w, &session)

	return u.ID, session.AccessToken
}
