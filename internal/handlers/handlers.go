package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"cinetix/auth/internal/config"
	"cinetix/auth/internal/middleware"
	"cinetix/auth/internal/models"
	"cinetix/auth/internal/repository"
	"cinetix/auth/internal/security"
	"cinetix/auth/internal/service"
)

type HandlerSet struct {
	log          zerolog.Logger
	cfg          *config.AppConfig
	authService  *service.AuthService
	tokenService *service.TokenService
	users        *repository.UserRepository
	db           *pgxpool.Pool
	cache        *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db, cfg.Security.IDMaxAttempts)
	tokenRepo := repository.NewRefreshTokenRepository(db, cfg.Security.IDMaxAttempts)
	blacklist := repository.NewTokenBlacklist(cache)

	passwords := security.NewArgon2Hasher()
	hasher := security.SHA256TokenHasher{}
	codec := security.NewJWTCodec(
		cfg.Security.JWTAccessSecret,
		cfg.Security.JWTRefreshSecret,
		cfg.Security.JWTAccessTTL,
		cfg.Security.JWTRefreshTTL,
	)

	auth := service.NewAuthService(userRepo, tokenRepo, passwords, hasher, codec, blacklist, log)
	tokens := service.NewTokenService(userRepo, tokenRepo, hasher, codec, log)

	return HandlerSet{
		log:          log,
		cfg:          cfg,
		authService:  auth,
		tokenService: tokens,
		users:        userRepo,
		db:           db,
		cache:        cache,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", h.RegisterUser)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)

		protected := v1.Group("/auth")
		protected.Use(middleware.Auth(h.authService))
		protected.POST("/logout", h.Logout)
		protected.GET("/me", h.Me)

		admin := v1.Group("/admin")
		admin.Use(
			middleware.Auth(h.authService),
			middleware.RequirePermission(models.ActionManage+":"+models.ResourceUser),
		)
		admin.GET("/users/:id", h.AdminGetUser)
	}
}
