package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/contacts-api/internal/interface/http"
	"github.com/oksasatya/contacts-api/internal/interface/middleware"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	RDB     *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, RDB: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	loginLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	refreshLimiter := middleware.RateLimit(m.RDB, 60, time.Minute, middleware.KeyByIPAndPath(), nil)
	mailLimiter := middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	confirmLimiter := middleware.RateLimit(m.RDB, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", mailLimiter, m.Handler.Register)
		auth.POST("/login", loginLimiter, m.Handler.Login)
		auth.POST("/refresh-token", refreshLimiter, m.Handler.Refresh)
		auth.GET("/confirmed_email/:token", confirmLimiter, m.Handler.ConfirmEmail)
		auth.POST("/request_email", mailLimiter, m.Handler.RequestEmail)
		auth.POST("/request-password-reset", mailLimiter, m.Handler.RequestPasswordReset)
		auth.POST("/reset-password", confirmLimiter, m.Handler.ResetPassword)
	}
}
