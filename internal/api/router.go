package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/chatcord/chat-api/docs"
	"github.com/chatcord/chat-api/internal/api/handler"
	"github.com/chatcord/chat-api/internal/api/middleware"
	"github.com/chatcord/chat-api/internal/core/domain"
	"github.com/chatcord/chat-api/internal/core/ports"
	"github.com/chatcord/chat-api/internal/core/service"
)

// Repositories is the storage the API runs on. The in-memory and Mongo
// stores both provide every field.
type Repositories struct {
	Users          ports.UserRepository
	FriendRequests ports.FriendRequestRepository
	Bans           ports.BanRepository
	Servers        ports.ServerRepository
	Members        ports.MemberRepository
	Channels       ports.ChannelRepository
	Messages       ports.MessageRepository
	Tx             ports.Transactor
}

// Dependencies carries everything NewRouter wires together.
type Dependencies struct {
	Repos Repositories
	// BanCache is optional; nil reads bans from the repository every time.
	BanCache service.BanCache
	// Checks are run by the readiness endpoint, keyed by dependency name.
	Checks map[string]handler.Check
	Log    zerolog.Logger

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
	// AdminEmails are granted the admin role when they register or log in.
	AdminEmails []string
	// AuthRateLimit is the per-IP request rate allowed on register and login.
	// Zero disables the limiter.
	AuthRateLimit float64
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.Metrics())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echomiddleware.CORS())

	// --- Dependencies ---
	r := deps.Repos
	tokens := service.NewJWTService(deps.JWTSecret, deps.TokenTTL)
	banService := service.NewBanService(r.Bans, r.Users, deps.BanCache, deps.Log.With().Str("component", "bans").Logger())
	serverService := service.NewServerService(r.Servers, r.Members, r.Channels, r.Messages, r.Tx, deps.Log.With().Str("component", "servers").Logger())
	authService := service.NewAuthService(r.Users, r.FriendRequests, r.Members, serverService, banService, tokens, r.Tx,
		service.AuthOptions{BcryptCost: deps.BcryptCost, AdminEmails: deps.AdminEmails},
		deps.Log.With().Str("component", "auth").Logger())
	friendService := service.NewFriendService(r.Users, r.FriendRequests, r.Tx, deps.Log.With().Str("component", "friends").Logger())
	blockService := service.NewBlockService(r.Users, r.FriendRequests, r.Tx, deps.Log.With().Str("component", "blocks").Logger())
	channelService := service.NewChannelService(r.Channels, r.Messages, r.Servers, r.Members, r.Users, deps.Log.With().Str("component", "channels").Logger())

	authHandler := handler.NewAuthHandler(authService)
	banHandler := handler.NewBanHandler(banService)
	friendHandler := handler.NewFriendHandler(friendService)
	blockHandler := handler.NewBlockHandler(blockService)
	serverHandler := handler.NewServerHandler(serverService, channelService)
	channelHandler := handler.NewChannelHandler(channelService)

	requireUser := middleware.Auth(tokens, r.Users)
	requireModerator := middleware.Auth(tokens, r.Users, domain.RoleModerator, domain.RoleAdmin)
	requireAdmin := middleware.Auth(tokens, r.Users, domain.RoleAdmin)

	// --- Auth routes ---
	auth := e.Group("/auth")
	var limit []echo.MiddlewareFunc
	if deps.AuthRateLimit > 0 {
		limit = append(limit, echomiddleware.RateLimiter(
			echomiddleware.NewRateLimiterMemoryStore(rate.Limit(deps.AuthRateLimit)),
		))
	}
	auth.POST("/register", authHandler.Register, limit...)
	auth.POST("/login", authHandler.Login, limit...)
	auth.POST("/logout", authHandler.Logout, requireUser)
	auth.GET("/me", authHandler.Me, requireUser)
	auth.DELETE("/:userId", authHandler.Delete, requireUser)

	// --- Moderation routes ---
	auth.PUT("/:userId/role", authHandler.SetRole, requireAdmin)
	auth.POST("/:userId/ban/permanent", banHandler.Permanent, requireModerator)
	auth.POST("/:userId/ban/temporary", banHandler.Temporary, requireModerator)
	auth.GET("/:userId/ban", banHandler.Status, requireModerator)
	auth.GET("/:userId/bans", banHandler.History, requireModerator)

	// --- Friend routes ---
	friend := e.Group("/friend", requireUser)
	friend.POST("/add/:id", friendHandler.Add)
	friend.POST("/accept/:id", friendHandler.Accept)
	friend.POST("/deny/:id", friendHandler.Deny)
	friend.DELETE("/revoke/:id", friendHandler.Revoke)
	friend.POST("/remove/:id", friendHandler.Remove)
	friend.GET("/friends", friendHandler.Friends)
	friend.GET("/requests", friendHandler.Incoming)
	friend.GET("/requests/outgoing", friendHandler.Outgoing)

	// --- Block routes ---
	block := e.Group("/block", requireUser)
	block.POST("/:id", blockHandler.Block)
	block.DELETE("/:id", blockHandler.Unblock)
	block.GET("", blockHandler.List)
	block.GET("/", blockHandler.List)

	// --- Server routes ---
	servers := e.Group("/servers", requireUser)
	servers.POST("", serverHandler.Create)
	servers.GET("", serverHandler.List)
	servers.GET("/:id", serverHandler.Get)
	servers.POST("/:id/join", serverHandler.Join)
	servers.DELETE("/:id/leave", serverHandler.Leave)
	servers.DELETE("/:id", serverHandler.Delete)
	servers.POST("/:id/channels", serverHandler.CreateChannel)

	// --- Channel routes ---
	channels := e.Group("/channels", requireUser)
	channels.POST("/dm/:userId", channelHandler.OpenDM)
	channels.POST("/:id/messages", channelHandler.Send)
	channels.GET("/:id/messages", channelHandler.History)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Operational ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
