package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/crazyimage/task-system/docs"
	"github.com/crazyimage/task-system/internal/api/handler"
	"github.com/crazyimage/task-system/internal/api/middleware"
	"github.com/crazyimage/task-system/internal/core/ports"
	"github.com/crazyimage/task-system/internal/core/service"
	"github.com/crazyimage/task-system/internal/infrastructure/security"
)

// Dependencies are the storage and infrastructure adapters the router wires
// into the services.
type Dependencies struct {
	Users       ports.UserRepository
	Tasks       ports.TaskRepository
	Revocations ports.TokenRevoker
	// Events may be nil; task writes then emit nothing.
	Events ports.TaskEventPublisher
	// Probes are pinged by /health/ready, keyed by dependency name.
	Probes map[string]handler.Pinger
}

// Options carries the HTTP and auth settings.
type Options struct {
	JWTSecret    string
	TokenTTL     time.Duration
	BcryptCost   int
	AuthRequired bool
	CORSOrigins  []string
	// TaskCORSOrigins applies to /api/task. AllowCredentials only applies there.
	TaskCORSOrigins  []string
	AllowCredentials bool
	RateLimitRPS     float64
	RateLimitBurst   int
	// Registry receives the HTTP metrics and serves /metrics. Defaults to the
	// process-wide Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies, opts Options, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(corsMiddleware(opts))
	e.Use(prometheusMiddleware(opts.Registry))

	// --- Dependencies ---
	hasher := security.NewBcryptHasher(opts.BcryptCost)
	issuer := security.NewJWTIssuer(opts.JWTSecret, opts.TokenTTL)

	userService := service.NewUserService(deps.Users, hasher, log.With().Str("component", "user_service").Logger())
	taskService := service.NewTaskService(deps.Tasks, deps.Users, deps.Events, log.With().Str("component", "task_service").Logger())
	authService := service.NewAuthService(userService, issuer, deps.Revocations, log.With().Str("component", "auth_service").Logger())

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	taskHandler := handler.NewTaskHandler(taskService)
	authMiddleware := middleware.Auth(issuer, deps.Revocations, log)

	protected := []echo.MiddlewareFunc{}
	if opts.AuthRequired {
		protected = append(protected, authMiddleware)
	}

	// --- Auth routes ---
	auth := e.Group("/api/auth", rateLimiter(opts.RateLimitRPS, opts.RateLimitBurst))
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, authMiddleware)

	// --- User routes ---
	users := e.Group("/api/user", protected...)
	users.POST("/create", userHandler.Create)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	// --- Task routes ---
	tasks := e.Group("/api/task", protected...)
	tasks.POST("/create", taskHandler.Create)
	tasks.GET("", taskHandler.List)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Probes)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", metricsHandler(opts.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				evt = log.Error().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

const taskPrefix = "/api/task"

func isTaskPath(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == taskPrefix || strings.HasPrefix(p, taskPrefix+"/")
}

// corsMiddleware applies the credentialed task policy on /api/task and the
// general policy everywhere else. Both run globally because group middleware
// never sees preflight requests.
func corsMiddleware(opts Options) echo.MiddlewareFunc {
	headers := []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization}

	taskOrigins := opts.TaskCORSOrigins
	if len(taskOrigins) == 0 {
		taskOrigins = opts.CORSOrigins
	}
	task := echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		Skipper:          func(c echo.Context) bool { return !isTaskPath(c) },
		AllowOrigins:     taskOrigins,
		AllowHeaders:     headers,
		AllowCredentials: opts.AllowCredentials,
	})
	general := echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		Skipper:      isTaskPath,
		AllowOrigins: opts.CORSOrigins,
		AllowHeaders: headers,
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return task(general(next))
	}
}

// rateLimiter throttles per client IP. A non-positive rps disables it.
func rateLimiter(rps float64, burst int) echo.MiddlewareFunc {
	if rps <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(rps),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		},
	})
}

func prometheusMiddleware(reg *prometheus.Registry) echo.MiddlewareFunc {
	cfg := echoprometheus.MiddlewareConfig{
		Subsystem: "http",
		Namespace: "task_system",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return echoprometheus.NewMiddlewareWithConfig(cfg)
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}
