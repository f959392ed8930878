package router

import (
	"github.com/anonto42/socialnet/backend/internal/auth"
	"github.com/anonto42/socialnet/backend/internal/handlers"
	"github.com/anonto42/socialnet/backend/internal/middleware"
	"github.com/anonto42/socialnet/backend/internal/realtime"
	"github.com/anonto42/socialnet/backend/internal/services"
	"github.com/anonto42/socialnet/backend/internal/validators"
	"github.com/anonto42/socialnet/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Dependencies is everything the HTTP surface needs
type Dependencies struct {
	Services *services.Services
	Tokens   *auth.TokenManager
	Hub      *realtime.Hub
	Health   map[string]handlers.Pinger
	CORS     eMiddleware.CORSConfig
}

// New builds the Echo instance with validation, error rendering, middleware
// and every route
func New(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = handlers.ErrorHandler

	SetupMiddleware(e, deps.CORS)
	SetupRoutes(e, deps)
	return e
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, cors eMiddleware.CORSConfig) {
	e.Use(middleware.RequestLogger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORSWithConfig(cors))
	logger.Log.Debug("Global middleware configured")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	svc := deps.Services

	// Health check - always accessible
	e.GET("/health", handlers.NewHealthHandler(deps.Health).HealthCheck)

	// Live notifications; the token travels in the query string
	if deps.Hub != nil {
		e.GET("/ws", realtime.NewHandler(deps.Hub, deps.Tokens.UserID, deps.CORS.AllowOrigins).ServeWS)
	}

	// --- Unprotected routes for authentication ---
	handlers.NewAuthHandler(svc.Users).RegisterAuthRoutes(e.Group("/api/auth"))

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api")
	api.Use(middleware.JWTAuth(deps.Tokens))

	handlers.NewUserHandler(svc.Users, svc.Relationships).RegisterUserRoutes(api)
	handlers.NewFeedHandler(svc.Feed).RegisterFeedRoutes(api)
	handlers.NewSavedPostHandler(svc.Posts).RegisterSavedPostRoutes(api)
	handlers.NewPostHandler(svc.Posts, svc.Engagement).RegisterPostRoutes(api)
	handlers.NewLikeHandler(svc.Engagement).RegisterLikeRoutes(api)
	handlers.NewCommentHandler(svc.Engagement).RegisterCommentRoutes(api)
	handlers.NewFriendshipHandler(svc.Relationships).RegisterFriendshipRoutes(api)
	handlers.NewNotificationHandler(svc.Notifications).RegisterNotificationRoutes(api)
	handlers.NewCommunityHandler(svc.Community).RegisterCommunityRoutes(api)

	logger.Log.Info("Routes configured", zap.Int("count", len(e.Routes())))
}
