package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/contactsbook/contacts-api/internal/api/handler"
	"github.com/contactsbook/contacts-api/internal/api/middleware"
	"github.com/contactsbook/contacts-api/internal/core/domain"
	"github.com/contactsbook/contacts-api/internal/core/ports"
	"github.com/contactsbook/contacts-api/internal/core/service"
	mongodb "github.com/contactsbook/contacts-api/internal/infrastructure/db/mongo"
	redisdb "github.com/contactsbook/contacts-api/internal/infrastructure/db/redis"
)

// Dependencies carries the external collaborators the router wires together.
type Dependencies struct {
	DB        *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	BaseURL   string
	Mail      ports.MailDispatcher
	Uploader  ports.AvatarUploader
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("contacts"))

	// --- Stores and caches ---
	userRepo := mongodb.NewUserRepository(deps.DB)
	contactRepo := mongodb.NewContactRepository(deps.DB)
	sessionCache := redisdb.NewSessionCache(deps.Redis)
	contactCache := redisdb.NewContactPageCache(deps.Redis)
	resetStore := redisdb.NewResetTokenStore(deps.Redis)

	// --- Services ---
	tokenService := service.NewTokenService(deps.JWTSecret, resetStore)
	authService := service.NewAuthService(userRepo, tokenService, sessionCache, deps.Mail, deps.BaseURL, deps.Logger)
	contactService := service.NewContactService(contactRepo, contactCache, deps.Logger)
	userService := service.NewUserService(userRepo, deps.Uploader, sessionCache, deps.Logger)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	contactHandler := handler.NewContactHandler(contactService)
	userHandler := handler.NewUserHandler(userService)

	authenticated := middleware.Auth(tokenService, sessionCache, userRepo)
	anyRole := middleware.RBAC(domain.RoleAdmin, domain.RoleUser)

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.Signup)
	e.GET("/auth/verify-email", authHandler.VerifyEmail)
	e.POST("/auth/resend-verification", authHandler.ResendVerification)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/reset-password", authHandler.RequestPasswordReset)
	e.POST("/auth/reset-password/confirm", authHandler.ConfirmPasswordReset)

	// --- Contact routes ---
	contacts := e.Group("/contacts", authenticated, anyRole)
	contacts.GET("", contactHandler.List)
	contacts.POST("", contactHandler.Create)
	contacts.GET("/search", contactHandler.Search)
	contacts.GET("/birthdays", contactHandler.UpcomingBirthdays)
	contacts.GET("/:id", contactHandler.Get)
	contacts.PUT("/:id", contactHandler.Update)
	contacts.DELETE("/:id", contactHandler.Delete)

	// --- User routes ---
	users := e.Group("/users", authenticated, anyRole)
	users.GET("/me", userHandler.Me)
	users.PATCH("/avatar", userHandler.UpdateAvatar)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
