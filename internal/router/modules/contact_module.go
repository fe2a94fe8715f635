package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	handlers "github.com/oksasatya/contacts-api/internal/interface/http"
	"github.com/oksasatya/contacts-api/internal/interface/middleware"
)

type ContactModule struct {
	Handler  *handlers.ContactHandler
	Resolver middleware.Resolver
	RDB      *redis.Client
	Logger   *logrus.Logger
}

func NewContactModule(h *handlers.ContactHandler, resolver middleware.Resolver, rdb *redis.Client, logger *logrus.Logger) *ContactModule {
	return &ContactModule{Handler: h, Resolver: resolver, RDB: rdb, Logger: logger}
}

func (m *ContactModule) Register(rg *gin.RouterGroup) {
	contacts := rg.Group("/contacts")
	contacts.Use(middleware.Auth(m.Resolver, m.Logger))
	contacts.Use(middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		contacts.GET("", m.Handler.List)
		contacts.GET("/search", m.Handler.Search)
		contacts.GET("/:id", m.Handler.Get)
		contacts.POST("", m.Handler.Create)
		contacts.PUT("/:id", m.Handler.Update)
		contacts.DELETE("/:id", m.Handler.Delete)
	}
}
