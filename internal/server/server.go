package server

import (
	"context"
	"fmt"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	articleRepo    repository.ArticleRepository
	commentRepo    repository.CommentRepository
	authService    *service.AuthService
	articleService *service.ArticleService
	commentService *service.CommentService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	prom := middleware.InitMetrics("inkwell")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		articleRepo:    articleRepo,
		commentRepo:    commentRepo,
	}
	server.authService = service.NewAuthService(userRepo)
	server.articleService = service.NewArticleService(articleRepo)
	server.commentService = service.NewCommentService(commentRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter) so
	// browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Session resolution for both surfaces
	app.Use(s.CurrentUser())

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
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
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Inkwell Metrics Dashboard",
	}))

	// Public pages
	app.Get("/", s.HomePage)
	app.Get("/about", s.AboutPage)
	app.Get("/contact", s.ContactPage)
	app.Get("/feedback", s.FeedbackPage)
	app.Post("/feedback", s.SubmitFeedback)
	app.Get("/articles", s.ArticlesPage)
	app.Get("/article/:id", s.ArticlePage)
	app.Post("/article/:id", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.SubmitComment)
	app.Get("/unauthorized", s.UnauthorizedPage)
	app.Get("/not-allowed", s.NotAllowedPage)

	// Account pages
	app.Get("/login", s.LoginPage)
	app.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	app.Get("/register", s.RegisterPage)
	app.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	app.Get("/logout", s.LoginRequired(), s.Logout)

	// Authoring pages, login-gated. Specific /success routes go before the
	// generic /:id routes.
	app.Get("/create-article/success", s.LoginRequired(), s.CreateArticleSuccess)
	app.Get("/create-article", s.LoginRequired(), s.CreateArticlePage)
	app.Post("/create-article", s.LoginRequired(), s.CreateArticle)
	app.Get("/edit-article/:id/success", s.LoginRequired(), s.EditArticleSuccess)
	app.Get("/edit-article/:id", s.LoginRequired(), s.EditArticlePage)
	app.Post("/edit-article/:id", s.LoginRequired(), s.EditArticle)
	app.Get("/delete-article/success", s.LoginRequired(), s.DeleteArticleSuccess)
	app.Get("/delete-article/:id", s.LoginRequired(), s.DeleteArticle)

	// JSON API
	api := app.Group("/api")
	api.Get("/articles", s.APIListArticles)
	api.Post("/articles", s.APICreateArticle)
	api.Get("/articles/:id", s.APIGetArticle)
	api.Put("/articles/:id", s.APIReplaceArticle)
	api.Delete("/articles/:id", s.APIDeleteArticle)

	api.Get("/article-comments/:article_id", s.APIListArticleComments)

	api.Get("/comment", s.APIListComments)
	api.Post("/comment", s.APICreateComment)
	api.Get("/comment/:id", s.APIGetComment)
	api.Put("/comment/:id", s.APIUpdateComment)
	api.Delete("/comment/:id", s.APIDeleteComment)

	api.Get("/logged-user", s.LoginRequired(), s.APILoggedUser)
	api.Get("/current-user", s.LoginRequired(), s.APICurrentUser)

	// Everything unmatched gets the canonical 404 body
	app.Use(respondNotFoundRoute)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. The database is required;
// Redis is a cache and only degrades the report.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// App builds (once) and returns the configured Fiber application.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	app := fiber.New(fiber.Config{
		AppName:      "inkwell",
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// errorHandler is the last line of defense for errors handlers did not map.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		if e.Code == fiber.StatusNotFound {
			return respondNotFoundRoute(c)
		}
		return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
	}

	middleware.Logger.ErrorContext(c.UserContext(), "unhandled request error", "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}

// Start runs the HTTP server until Listen returns.
func (s *Server) Start() error {
	return s.App().Listen(":" + s.config.Port)
}

// Shutdown drains in-flight requests and closes the database and Redis
// connections.
func (s *Server) Shutdown(ctx context.Context) error {
	var firstErr error

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			firstErr = err
		}
	}

	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
