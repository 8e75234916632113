// Package server contains the HTTP handlers and wiring for the askly API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "askly/docs" // swagger docs
	"askly/internal/auth"
	"askly/internal/bootstrap"
	"askly/internal/config"
	"askly/internal/middleware"
	"askly/internal/models"
	"askly/internal/observability"
	"askly/internal/repository"
	"askly/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const (
	signupLimit  = 5
	signupWindow = 10 * time.Minute
	signinLimit  = 10
	signinWindow = 5 * time.Minute
)

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	store           repository.Store
	redis           *redis.Client
	app             *fiber.App
	registry        *prometheus.Registry
	promMiddleware  *fiberprometheus.FiberPrometheus
	rateLimiter     *middleware.RateLimiter
	tokens          *auth.TokenCodec
	authService     *service.AuthService
	questionService *service.QuestionService
	answerService   *service.AnswerService
	userService     *service.UserService
}

// NewServer opens the configured store and Redis, then builds the server.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store initialization failed: %w", err)
	}
	redisClient := bootstrap.OpenRedis(ctx, cfg)

	s, err := NewServerWithDeps(cfg, store, redisClient)
	if err != nil {
		_ = store.Close()
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, err
	}
	return s, nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, store repository.Store, redisClient *redis.Client) (*Server, error) {
	tokens, err := auth.NewTokenCodec([]byte(cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}
	hasher := auth.NewArgon2Hasher(auth.Argon2Params{
		Memory:      cfg.Argon2MemoryKiB,
		Iterations:  cfg.Argon2Iterations,
		Parallelism: cfg.Argon2Parallelism,
	})

	guard := service.NewOwnershipGuard(store.Questions(), store.Answers())
	registry := observability.NewRegistry()

	s := &Server{
		config:          cfg,
		store:           store,
		redis:           redisClient,
		registry:        registry,
		promMiddleware:  observability.NewHTTPMetrics(registry),
		rateLimiter:     middleware.NewRateLimiter(redisClient, middleware.RateLimitEnabled(cfg.Env)),
		tokens:          tokens,
		authService:     service.NewAuthService(store.Users(), hasher, tokens),
		questionService: service.NewQuestionService(store.Questions(), guard),
		answerService:   service.NewAnswerService(store.Answers(), store.Questions(), guard),
		userService:     service.NewUserService(store.Users()),
	}

	app := fiber.New(fiber.Config{
		AppName:      "Askly API",
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app

	return s, nil
}

// errorHandler turns errors that escape a handler into the JSON envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := models.CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = models.CodeNotFound
		case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge, fiber.StatusUnprocessableEntity:
			code = models.CodeValidation
		}
		if fe.Code >= fiber.StatusInternalServerError {
			return models.RespondWithError(c, fe.Code, models.NewInternalError(err))
		}
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message, Code: code})
	}

	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
	return models.RespondWithAppError(c, err)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	app.Use(s.promMiddleware.Middleware)
	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	limited := middleware.RateLimitEnabled(s.config.Env)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return !limited || c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	s.promMiddleware.RegisterAt(app, "/metrics")

	api := app.Group("/api")
	api.Get("/swagger/*", swagger.HandlerDefault)

	api.Post("/signup", s.rateLimiter.Limit(signupLimit, signupWindow, "signup"), s.Signup)
	api.Post("/signin", s.rateLimiter.Limit(signinLimit, signinWindow, "signin"), s.Signin)

	// Public reads
	api.Get("/questions", s.GetQuestions)
	api.Get("/questions/:id/answers", s.GetAnswers)
	api.Get("/questions/:id", s.GetQuestion)

	// Protected routes
	authRequired := middleware.AuthRequired(s.tokens)
	api.Post("/questions", authRequired, s.CreateQuestion)
	api.Post("/questions/:id/answers", authRequired, s.CreateAnswer)
	api.Put("/questions/:id", authRequired, s.UpdateQuestion)
	api.Delete("/questions/:id", authRequired, s.DeleteQuestion)
	api.Delete("/answers/:id", authRequired, s.DeleteAnswer)
	api.Get("/users/me", authRequired, s.GetMyProfile)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
			Error: "Route not found",
			Code:  models.CodeNotFound,
		})
	})
}

// App exposes the Fiber app for in-process tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	storeStatus := "healthy"
	if err := s.store.Ping(ctx); err != nil {
		middleware.Logger.WarnContext(ctx, "store ping failed", slog.String("error", err.Error()))
		storeStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if storeStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"store": storeStatus,
			"redis": redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if err := s.app.ShutdownWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store close: %w", err))
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return errors.Join(errs...)
}
