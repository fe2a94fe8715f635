package router

import (
	"github.com/oksasatya/contacts-api/internal/container"
	handlers "github.com/oksasatya/contacts-api/internal/interface/http"
	"github.com/oksasatya/contacts-api/internal/router/modules"
)

// InitModules builds the handlers from c and registers every feature module.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	authH := handlers.NewAuthHandler(c.Auth, c.Logger)
	userH := handlers.NewUserHandler(c.User, c.Logger)
	contactH := handlers.NewContactHandler(c.Contact, c.Logger)
	healthH := handlers.NewHealthHandler(c.DB, c.Logger)

	r.Add(modules.NewHealthModule(healthH))
	r.Add(modules.NewAuthModule(authH, c.Redis))
	r.Add(modules.NewUserModule(userH, c.Resolver, c.Redis, c.Logger))
	r.Add(modules.NewContactModule(contactH, c.Resolver, c.Redis, c.Logger))
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(c.Redis))
	}
}
