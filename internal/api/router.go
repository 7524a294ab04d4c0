package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openshelf/digital-library/internal/api/handler"
	"github.com/openshelf/digital-library/internal/api/middleware"
	"github.com/openshelf/digital-library/internal/core/ports"
)

// Deps bundles everything the router needs. RateCounter may be nil when
// Redis is not configured; rate limiting is then disabled.
type Deps struct {
	Catalog  ports.CatalogService
	Library  ports.MembershipService
	Admin    ports.AdminService
	Identity ports.IdentityService
	Users    ports.UserRepository
	Blob     ports.BlobStore

	DB    *mongo.Database
	Redis *redis.Client

	JWTSecret  string
	CORSOrigin string

	RateCounter     middleware.Counter
	RateLimitMax    int64
	RateLimitWindow time.Duration

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{deps.CORSOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddleware("library"))
	if deps.RateCounter != nil {
		e.Use(middleware.RateLimit(deps.RateCounter, deps.RateLimitMax, deps.RateLimitWindow, deps.Logger))
	}

	authMW := middleware.Auth(deps.JWTSecret)

	authHandler := handler.NewAuthHandler(deps.Identity)
	bookHandler := handler.NewBookHandler(deps.Catalog)
	libraryHandler := handler.NewLibraryHandler(deps.Library)
	adminHandler := handler.NewAdminHandler(deps.Admin)
	fileHandler := handler.NewFileHandler(deps.Blob)

	api := e.Group("/api")

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)
	auth.GET("/me", authHandler.Me, authMW)
	auth.PUT("/profile", authHandler.UpdateProfile, authMW)
	auth.POST("/profile/avatar", authHandler.UploadAvatar, authMW)

	// --- Public catalog ---
	books := api.Group("/books")
	books.GET("", bookHandler.List)
	books.GET("/categories", bookHandler.Categories)
	books.GET("/types", bookHandler.Types)
	books.GET("/:id", bookHandler.Get)
	books.GET("/:id/file", bookHandler.File)

	// --- Personal library (auth required) ---
	library := api.Group("/user-books", authMW)
	library.GET("", libraryHandler.List)
	library.POST("/:bookId", libraryHandler.Add)
	library.DELETE("/:bookId", libraryHandler.Remove)

	// --- Admin catalog management ---
	admin := api.Group("/admin", authMW, middleware.RequireAdmin(deps.Users))
	admin.POST("/books", adminHandler.Create)
	admin.PUT("/books/:id", adminHandler.Update)
	admin.DELETE("/books/:id", adminHandler.Delete)

	// --- Stored images ---
	api.GET("/covers/:filename", fileHandler.Cover)
	api.GET("/avatars/:filename", fileHandler.Avatar)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)

	api.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	api.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	api.GET("/metrics", echoprometheus.NewHandler())

	return e
}
