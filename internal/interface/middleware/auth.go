package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/contacts-api/internal/application"
	"github.com/oksasatya/contacts-api/internal/domain/entity"
	"github.com/oksasatya/contacts-api/pkg/response"
)

const (
	CtxIdentityKey = "identity"
	CtxUserIDKey   = "userID"
)

// Resolver turns an access token into the caller's identity.
type Resolver interface {
	Resolve(ctx context.Context, accessToken string) (entity.Identity, error)
}

// Auth requires an "Authorization: Bearer <token>" header and stores the
// resolved identity in the Gin context.
func Auth(resolver Resolver, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c)
			return
		}
		id, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, application.ErrCouldNotValidate) {
				unauthorized(c)
				return
			}
			if logger != nil {
				logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("identity resolution failed")
			}
			response.Error(c, http.StatusInternalServerError, "internal server error", nil)
			return
		}
		c.Set(CtxIdentityKey, id)
		c.Set(CtxUserIDKey, id.ID)
		c.Next()
	}
}

// RequireAdmin must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			unauthorized(c)
			return
		}
		if !id.IsAdmin() {
			response.Error(c, http.StatusForbidden, application.ErrForbidden.Error(), nil)
			return
		}
		c.Next()
	}
}

func IdentityFrom(c *gin.Context) (entity.Identity, bool) {
	v, ok := c.Get(CtxIdentityKey)
	if !ok {
		return entity.Identity{}, false
	}
	id, ok := v.(entity.Identity)
	return id, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	response.Error(c, http.StatusUnauthorized, application.ErrCouldNotValidate.Error(), nil)
}
