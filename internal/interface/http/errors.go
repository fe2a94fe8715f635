package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/contacts-api/internal/application"
	"github.com/oksasatya/contacts-api/pkg/response"
	"github.com/oksasatya/contacts-api/pkg/validation"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{application.ErrInvalidCredentials, http.StatusUnauthorized},
	{application.ErrEmailNotConfirmed, http.StatusUnauthorized},
	{application.ErrCouldNotValidate, http.StatusUnauthorized},
	{application.ErrInvalidRefreshToken, http.StatusUnauthorized},

	{application.ErrEmailTaken, http.StatusConflict},
	{application.ErrUsernameTaken, http.StatusConflict},

	{application.ErrInvalidEmailToken, http.StatusBadRequest},
	{application.ErrVerification, http.StatusBadRequest},
	{application.ErrInvalidResetToken, http.StatusBadRequest},
	{application.ErrResetUserNotFound, http.StatusBadRequest},
	{application.ErrContactEmailExists, http.StatusBadRequest},
	{application.ErrInvalidRole, http.StatusBadRequest},
	{application.ErrPasswordTooLong, http.StatusBadRequest},

	{application.ErrForbidden, http.StatusForbidden},
	{application.ErrUserNotFound, http.StatusNotFound},
	{application.ErrContactNotFound, http.StatusNotFound},

	{application.ErrMediaUnavailable, http.StatusServiceUnavailable},
	{application.ErrSearchUnavailable, http.StatusServiceUnavailable},
}

// StatusFor returns the HTTP status for a known application error, or 500.
func StatusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// writeError maps err onto the response. Unknown errors are logged and
// reported as a generic 500.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"path":       c.FullPath(),
			}).Error("request failed")
		}
		response.Error(c, status, "internal server error", nil)
		return
	}
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	response.Error(c, status, err.Error(), nil)
}

func bindError(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}
