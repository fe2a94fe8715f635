package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	handlers "github.com/oksasatya/contacts-api/internal/interface/http"
	"github.com/oksasatya/contacts-api/internal/interface/middleware"
)

// UserModule serves the caller's own account.
// Protected: GET /api/users/me (5 req/min per IP), PATCH /api/users/avatar (admin)
type UserModule struct {
	Handler  *handlers.UserHandler
	Resolver middleware.Resolver
	RDB      *redis.Client
	Logger   *logrus.Logger
}

func NewUserModule(h *handlers.UserHandler, resolver middleware.Resolver, rdb *redis.Client, logger *logrus.Logger) *UserModule {
	return &UserModule{Handler: h, Resolver: resolver, RDB: rdb, Logger: logger}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.Auth(m.Resolver, m.Logger))
	{
		users.GET("/me", middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByIPAndPath(), nil), m.Handler.Me)
		users.PATCH("/avatar", middleware.RequireAdmin(), m.Handler.UpdateAvatar)
	}
}
