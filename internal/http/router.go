package http

import (
	"log/slog"

	"github.com/geocoder89/cotobang/internal/authz"
	"github.com/geocoder89/cotobang/internal/config"
	"github.com/geocoder89/cotobang/internal/http/handlers"
	"github.com/geocoder89/cotobang/internal/http/middlewares"
	"github.com/geocoder89/cotobang/internal/observability"
	"github.com/geocoder89/cotobang/internal/service"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type Deps struct {
	Config config.Config
	Log    *slog.Logger
	Prom   *observability.Prom

	Tokens   middlewares.TokenVerifier
	Users    *service.UserService
	Coins    *service.CoinService
	Comments *service.CommentService

	// Limiter guards registration, login and comment posting. Nil falls back to an in-process limiter.
	Limiter middlewares.Limiter
	// Checks are run by /readyz.
	Checks map[string]handlers.Check
}

func NewRouter(d Deps) *gin.Engine {
	if d.Config.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(gin.Recovery())
	if d.Config.OTelEndpoint != "" {
		r.Use(otelgin.Middleware(d.Config.OTelServiceName))
	}
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(d.Log))
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.Config.CORSOrigins))
	r.Use(middlewares.MaxBodyBytes(d.Config.MaxBodyBytes))
	r.Use(middlewares.RequireJSON())

	limiter := d.Limiter
	if limiter == nil {
		limiter = middlewares.NewRateLimiter(d.Config.RateLimit, d.Config.RateWindow)
	}

	auth := middlewares.NewAuthMiddleware(d.Tokens, d.Users)
	requireAuth := auth.RequireAuth()

	// health
	health := handlers.NewHealthHandler(d.Checks)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	if d.Prom != nil {
		r.GET("/metrics", gin.WrapH(d.Prom.Handler()))
	}

	r.GET("/docs", handlers.SwaggerUI)
	r.GET("/docs/openapi.yaml", handlers.OpenAPISpec)

	// users
	users := handlers.NewUsersHandler(d.Users, authz.NewGate(""))
	r.POST("/users", middlewares.RateLimit(limiter, "register", middlewares.KeyByIP), users.Register)
	r.PUT("/users/:id", requireAuth, users.Modify)
	r.DELETE("/users/:id", requireAuth, users.Delete)
	r.POST("/session", middlewares.RateLimit(limiter, "login", middlewares.KeyByIP), users.Login)

	// coins
	coins := handlers.NewCoinsHandler(d.Coins)
	r.GET("/coins", coins.List)
	r.GET("/coins/:id", coins.Get)

	coinWrites := r.Group("/coins")
	if role := d.Config.CoinAdminRole; role != "" {
		coinWrites.Use(requireAuth, auth.RequireRole(role))
	}
	coinWrites.POST("", coins.Create)
	coinWrites.PUT("/:id", coins.Update)
	coinWrites.PATCH("/:id", coins.Update)
	coinWrites.DELETE("/:id", coins.Delete)

	// comments
	comments := handlers.NewCommentsHandler(d.Comments)
	r.GET("/comments", comments.List)
	r.POST("/comments", requireAuth, middlewares.RateLimit(limiter, "comment", middlewares.KeyByUserOrIP), comments.Create)
	r.PUT("/comments/:id", requireAuth, comments.Update)
	r.PATCH("/comments/:id", requireAuth, comments.Update)
	r.DELETE("/comments/:id", requireAuth, comments.Delete)

	return r
}
