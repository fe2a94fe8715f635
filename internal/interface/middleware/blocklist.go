package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/contacts-api/pkg/response"
)

// Blocklist rejects requests whose Origin is listed exactly or whose
// User-Agent contains any listed fragment.
func Blocklist(origins, userAgents []string) gin.HandlerFunc {
	if len(origins) == 0 && len(userAgents) == 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if o := c.GetHeader("Origin"); o != "" && slices.Contains(origins, o) {
			response.Error(c, http.StatusForbidden, "forbidden", nil)
			return
		}
		ua := c.GetHeader("User-Agent")
		for _, bad := range userAgents {
			if strings.Contains(ua, bad) {
				response.Error(c, http.StatusForbidden, "forbidden", nil)
				return
			}
		}
		c.Next()
	}
}
