package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/jobdeck/jobdeck/internal/auth"
	"github.com/jobdeck/jobdeck/internal/config"
	"github.com/jobdeck/jobdeck/internal/http/handlers"
	"github.com/jobdeck/jobdeck/internal/http/middlewares"
	"github.com/jobdeck/jobdeck/internal/observability"
	"github.com/jobdeck/jobdeck/internal/ratelimit"
	"github.com/jobdeck/jobdeck/internal/repo/postgres"
)

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, limiter *ratelimit.Limiter, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	// middleware

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(otelgin.Middleware("jobdeck-api"))
	r.Use(prom.GinHandleMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/", handlers.Root)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// wire up repositories
	accountsRepo := postgres.NewAccountsRepo(pool, prom)
	applicationsRepo := postgres.NewApplicationsRepo(pool, prom)
	analyticsRepo := postgres.NewAnalyticsRepo(pool, prom)

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL())
	authMiddleware := middlewares.NewAuthMiddleware(jwtManager, accountsRepo)

	// wire up handlers
	authHandler := handlers.NewAuthHandler(accountsRepo, accountsRepo, jwtManager, log)
	applicationsHandler := handlers.NewApplicationsHandler(applicationsRepo)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsRepo)

	// rate limiting covers the auth endpoints only
	authGroup := r.Group("/auth")
	authGroup.POST("/register",
		middlewares.RateLimit(limiter, prom, "register", cfg.RateLimitRegisterMax, cfg.RateLimitRegisterWindow),
		middlewares.RequireJSON(),
		authHandler.Register,
	)
	authGroup.POST("/login",
		middlewares.RateLimit(limiter, prom, "login", cfg.RateLimitLoginMax, cfg.RateLimitLoginWindow),
		authHandler.Login,
	)
	authGroup.GET("/me", authMiddleware.RequireAuth(), authHandler.Me)

	applicationsGroup := r.Group("/applications")
	applicationsGroup.Use(authMiddleware.RequireAuth(), middlewares.RequireJSON())
	applicationsGroup.GET("", applicationsHandler.List)
	applicationsGroup.POST("", applicationsHandler.Create)
	applicationsGroup.GET("/:id", applicationsHandler.GetByID)
	applicationsGroup.PUT("/:id", applicationsHandler.Update)
	applicationsGroup.DELETE("/:id", applicationsHandler.Delete)
	applicationsGroup.PATCH("/:id/archive", applicationsHandler.ToggleArchive)

	analyticsGroup := r.Group("/analytics")
	analyticsGroup.Use(authMiddleware.RequireAuth())
	analyticsGroup.GET("/summary", analyticsHandler.Summary)
	analyticsGroup.GET("/timeline", analyticsHandler.Timeline)

	return r
}
